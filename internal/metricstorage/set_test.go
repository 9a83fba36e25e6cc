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

package metricstorage

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/evstreamd/evstreamd/internal/labels"
)

func TestCounterAdd(t *testing.T) {
	c := NewCounter("cd_events_total", time.Minute)

	lbsOn := labels.Labels{{Name: "polarity", Value: "1"}}
	lbsOff := labels.Labels{{Name: "polarity", Value: "0"}}

	c.Add(3, lbsOn)
	c.Add(2, lbsOn)
	c.Inc(lbsOff)

	var buf bytes.Buffer
	c.WritePrometheus(&buf)
	s := buf.String()
	assert.Contains(t, s, `cd_events_total{polarity="1"} 5.0`)
	assert.Contains(t, s, `cd_events_total{polarity="0"} 1.0`)
}

func TestSetWriteRequest(t *testing.T) {
	set := newSet(time.Minute)

	lbs := labels.Labels{{Name: "format", Value: "EVT2"}}
	set.GetOrCreateCounter("cd_events_total").Add(10, lbs)
	set.GetOrCreateGauge("last_timestamp_us").Set(25, lbs)

	wr := set.WriteRequest()
	assert.Len(t, wr.Timeseries, 2)

	names := make(map[string]bool)
	for _, ts := range wr.Timeseries {
		assert.Equal(t, "__name__", ts.Labels[0].Name)
		names[ts.Labels[0].Value] = true
	}
	assert.True(t, names["cd_events_total"])
	assert.True(t, names["last_timestamp_us"])
}

func TestHistogramObserve(t *testing.T) {
	h := NewHistogram("cd_batch_events", time.Minute, DefBuckets(UnitCount))

	lbs := labels.Labels{{Name: "format", Value: "EVT2"}}
	h.Observe(50, lbs)
	h.Observe(2000, lbs)

	var buf bytes.Buffer
	h.WritePrometheus(&buf)
	s := buf.String()
	assert.Contains(t, s, "cd_batch_events_count")
	assert.Contains(t, s, "cd_batch_events_sum")
	assert.Contains(t, s, `le="+Inf"`)
}
