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

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/confengine"
	"github.com/evstreamd/evstreamd/event"
	_ "github.com/evstreamd/evstreamd/processor/eventstometrics"
)

const content = `
processor:
  - name: eventstometrics
    config:
      requireLabels:
        - sensor.serial

pipeline:
  - name: metrics
    processors:
      - eventstometrics
`

func TestPipelineRange(t *testing.T) {
	conf, err := confengine.LoadContent([]byte(content))
	assert.NoError(t, err)

	p, err := New(conf)
	assert.NoError(t, err)
	defer p.Clean()

	src := &common.Record{
		RecordType: common.RecordCDEvents,
		Data: &common.CDEventsData{
			Serial: "00001234",
			Events: []event.CD{
				{X: 1, Y: 1, Polarity: event.PolarityOn, Timestamp: 10},
			},
		},
	}

	var derived []*common.Record
	p.Range(src, func(dst *common.Record) {
		derived = append(derived, dst)
	})

	assert.Len(t, derived, 1)
	assert.Equal(t, common.RecordMetrics, derived[0].RecordType)
}
