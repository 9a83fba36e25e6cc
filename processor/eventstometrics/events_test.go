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

package eventstometrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/event"
	"github.com/evstreamd/evstreamd/internal/metricstorage"
)

func newCDRecord() *common.Record {
	return &common.Record{
		RecordType: common.RecordCDEvents,
		Data: &common.CDEventsData{
			Format: "EVT2",
			Serial: "00001234",
			Events: []event.CD{
				{X: 1, Y: 1, Polarity: event.PolarityOn, Timestamp: 100},
				{X: 2, Y: 2, Polarity: event.PolarityOff, Timestamp: 150},
				{X: 3, Y: 3, Polarity: event.PolarityOn, Timestamp: 300},
			},
		},
	}
}

func TestProcessCDEvents(t *testing.T) {
	p, err := New(map[string]any{
		"requireLabels": []string{"sensor.serial", "sensor.format"},
	})
	assert.NoError(t, err)

	record, err := p.Process(newCDRecord())
	assert.NoError(t, err)
	assert.Equal(t, common.RecordMetrics, record.RecordType)

	metrics := record.Data.(*common.MetricsData).Data
	byName := map[string][]metricstorage.ConstMetric{}
	for _, m := range metrics {
		byName[m.Name] = append(byName[m.Name], m)
	}

	assert.Len(t, byName[metricBatchEvents], 1)
	assert.Equal(t, float64(3), byName[metricBatchEvents][0].Value)

	assert.Len(t, byName[metricBatchSpanSeconds], 1)
	assert.InDelta(t, 200e-6, byName[metricBatchSpanSeconds][0].Value, 1e-9)

	assert.Len(t, byName[metricLastTimestamp], 1)
	assert.Equal(t, float64(300), byName[metricLastTimestamp][0].Value)

	// on/off 两个极性分桶
	assert.Len(t, byName[metricEventsTotal], 2)
	for _, m := range byName[metricEventsTotal] {
		assert.Len(t, m.Labels, 3)
	}
}

func TestProcessSkipsOtherRecords(t *testing.T) {
	p, err := New(nil)
	assert.NoError(t, err)

	record, err := p.Process(&common.Record{RecordType: common.RecordMetrics})
	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestProcessEmptyBatch(t *testing.T) {
	p, err := New(nil)
	assert.NoError(t, err)

	record, err := p.Process(&common.Record{
		RecordType: common.RecordCDEvents,
		Data:       &common.CDEventsData{},
	})
	assert.NoError(t, err)
	assert.Nil(t, record)
}
