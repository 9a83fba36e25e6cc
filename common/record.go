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

package common

import (
	"github.com/evstreamd/evstreamd/event"
	"github.com/evstreamd/evstreamd/internal/metricstorage"
)

// RecordType Record 数据类型
type RecordType string

const (
	// RecordCDEvents CD 事件批次数据
	RecordCDEvents RecordType = "cdevents"

	// RecordMetrics 指标数据
	RecordMetrics RecordType = "metrics"
)

// Record 是组件之间流转的数据单元
//
// controller 将每次 Decode 产出的事件封装为 Record
// 后续 pipeline / exporter 仅面向 Record 编程 不感知解码细节
type Record struct {
	RecordType RecordType
	Data       any
}

func NewRecord(rt RecordType, data any) *Record {
	return &Record{
		RecordType: rt,
		Data:       data,
	}
}

// CDEventsData 一个批次的 CD 事件 以及产出它的流元信息
type CDEventsData struct {
	Format string     `json:"format"`
	Serial string     `json:"serial"`
	Events []event.CD `json:"events"`
}

// MetricsData processor 转换产出的指标数据
type MetricsData struct {
	Data []metricstorage.ConstMetric
}
