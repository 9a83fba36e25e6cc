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

package controller

import (
	"time"

	"github.com/evstreamd/evstreamd/decoder/evt2"
	"github.com/evstreamd/evstreamd/decoder/sample"
)

type Config struct {
	// TimeShift 是否开启 time shifting 事件时间戳平移至流起点
	TimeShift bool `config:"timeShift"`

	// Batch 每个 cdevents Record 承载的事件数上限
	Batch int `config:"batch"`

	// FlushInterval 不满一个 Batch 的事件最长滞留时间
	FlushInterval time.Duration `config:"flushInterval"`

	// Decoder 指定每种 decoder 解析特性
	Decoder DecoderConfig `config:"decoder"`
}

func (c Config) GetBatch() int {
	if c.Batch <= 0 {
		return 2048
	}
	return c.Batch
}

func (c Config) GetFlushInterval() time.Duration {
	if c.FlushInterval <= 0 {
		return time.Second
	}
	return c.FlushInterval
}

type DecoderConfig struct {
	EVT2   map[string]any `config:"evt2"`
	Sample map[string]any `config:"sample"`
}

func (c DecoderConfig) Get(format string) map[string]any {
	switch format {
	case evt2.Format:
		return c.EVT2
	case sample.Format:
		return c.Sample
	}
	return nil
}
