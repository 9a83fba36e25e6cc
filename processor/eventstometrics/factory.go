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
	"github.com/evstreamd/evstreamd/internal/mapstructure"
	"github.com/evstreamd/evstreamd/processor"
)

const Name = "eventstometrics"

func init() {
	processor.Register(Name, New)
}

// Factory 将 cdevents 批次聚合为 metrics 数据
type Factory struct {
	converter *converter
}

func New(conf map[string]any) (processor.Processor, error) {
	cfg := &Config{}
	if err := mapstructure.Decode(conf, cfg); err != nil {
		return nil, err
	}

	return &Factory{
		converter: newConverter(*cfg),
	}, nil
}

func (f *Factory) Name() string {
	return Name
}

func (f *Factory) Process(record *common.Record) (*common.Record, error) {
	if record.RecordType != common.RecordCDEvents {
		return nil, nil
	}

	data := record.Data.(*common.CDEventsData)
	metrics := f.converter.Convert(data)
	if len(metrics) == 0 {
		return nil, nil
	}

	return &common.Record{
		RecordType: common.RecordMetrics,
		Data:       &common.MetricsData{Data: metrics},
	}, nil
}

func (f *Factory) Clean() {}
