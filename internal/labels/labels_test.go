// Copyright 2025 The evstreamd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelsHash(t *testing.T) {
	lbs1 := Labels{
		{Name: "format", Value: "EVT2"},
		{Name: "polarity", Value: "1"},
	}
	lbs2 := Labels{
		{Name: "format", Value: "EVT2"},
		{Name: "polarity", Value: "1"},
	}
	assert.Equal(t, lbs1.Hash(), lbs2.Hash())

	lbs3 := Labels{
		{Name: "format", Value: "EVT2"},
		{Name: "polarity", Value: "0"},
	}
	assert.NotEqual(t, lbs1.Hash(), lbs3.Hash())

	// 名字与值的边界不可混淆
	lbs4 := Labels{
		{Name: "formatEVT2", Value: ""},
		{Name: "polarity", Value: "1"},
	}
	assert.NotEqual(t, lbs1.Hash(), lbs4.Hash())
}
