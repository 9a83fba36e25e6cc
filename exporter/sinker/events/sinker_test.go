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

package events

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/event"
	"github.com/evstreamd/evstreamd/exporter"
	"github.com/evstreamd/evstreamd/internal/json"
)

func TestSinkCDEvents(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "cdevents.log")

	s, err := New(exporter.Config{
		Events: exporter.EventsConfig{
			Enabled:  true,
			Filename: filename,
		},
	})
	assert.NoError(t, err)

	batch := &common.CDEventsData{
		Format: "EVT2",
		Serial: "00001234",
		Events: []event.CD{
			{X: 10, Y: 20, Polarity: event.PolarityOn, Timestamp: 100},
			{X: 11, Y: 21, Polarity: event.PolarityOff, Timestamp: 110},
		},
	}
	assert.NoError(t, s.Sink(batch))
	assert.NoError(t, s.Sink(batch))

	// 非 CDEventsData 数据静默忽略
	assert.NoError(t, s.Sink("whatever"))
	s.Close()

	b, err := os.ReadFile(filename)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Len(t, lines, 2)

	var decoded common.CDEventsData
	assert.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	assert.Equal(t, "EVT2", decoded.Format)
	assert.Len(t, decoded.Events, 2)
	assert.Equal(t, uint16(10), decoded.Events[0].X)
}
