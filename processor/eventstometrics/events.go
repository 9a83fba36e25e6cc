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
	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/event"
	"github.com/evstreamd/evstreamd/internal/labels"
	"github.com/evstreamd/evstreamd/internal/metricstorage"
)

const (
	metricEventsTotal      = "sensor_events_total"
	metricBatchEvents      = "sensor_batch_events"
	metricBatchSpanSeconds = "sensor_batch_span_seconds"
	metricLastTimestamp    = "sensor_last_timestamp_microseconds"
)

type converter struct {
	config Config
}

func newConverter(config Config) *converter {
	return &converter{config: config}
}

// Convert 将一个 CD 事件批次聚合为指标
//
// 事件按极性分桶计数 批次规模与时间跨度进直方图
// 批次内事件有序 跨度取首尾时间戳之差
func (c *converter) Convert(data *common.CDEventsData) []metricstorage.ConstMetric {
	if len(data.Events) == 0 {
		return nil
	}

	var on, off float64
	for _, ev := range data.Events {
		if ev.Polarity == event.PolarityOn {
			on++
		} else {
			off++
		}
	}

	lbs := matchCommonLabels(c.config.RequireLabels, data.Serial, data.Format)
	span := data.Events[len(data.Events)-1].Timestamp - data.Events[0].Timestamp
	last := data.Events[len(data.Events)-1].Timestamp

	metrics := []metricstorage.ConstMetric{
		metricstorage.NewHistogramConstMetric(metricBatchEvents, float64(len(data.Events)), metricstorage.UnitCount, lbs),
		metricstorage.NewHistogramConstMetric(metricBatchSpanSeconds, float64(span)/1e6, metricstorage.UnitSeconds, lbs),
		metricstorage.NewGaugeConstMetric(metricLastTimestamp, float64(last), lbs),
	}

	if on > 0 {
		metrics = append(metrics, metricstorage.NewCounterConstMetric(
			metricEventsTotal, on, append(lbs.Clone(), labels.Label{Name: "polarity", Value: "on"})))
	}
	if off > 0 {
		metrics = append(metrics, metricstorage.NewCounterConstMetric(
			metricEventsTotal, off, append(lbs.Clone(), labels.Label{Name: "polarity", Value: "off"})))
	}
	return metrics
}
