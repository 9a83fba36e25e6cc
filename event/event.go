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

package event

import (
	"fmt"
)

// Timestamp 事件时间戳 单位为微秒 (us)
//
// 若解码器开启了 time shifting 则为相对于流内参考事件的偏移时间
// 否则为传感器上电以来的原始时间
type Timestamp int64

// Type 事件类型标签
type Type uint8

const (
	// TypeCD Contrast Detection 事件 即单像素亮度变化事件
	TypeCD Type = iota

	// TypeExtTrigger 外部触发信号事件
	TypeExtTrigger
)

func (t Type) String() string {
	switch t {
	case TypeCD:
		return "cd"
	case TypeExtTrigger:
		return "exttrigger"
	}
	return "unknown"
}

const (
	// PolarityOff 亮度下降
	PolarityOff int8 = 0

	// PolarityOn 亮度上升
	PolarityOn int8 = 1
)

// CD 一个完整解码后的 CD 事件
type CD struct {
	X         uint16    `json:"x"`
	Y         uint16    `json:"y"`
	Polarity  int8      `json:"p"`
	Timestamp Timestamp `json:"t"`
}

func (ev CD) String() string {
	return fmt.Sprintf("CD<x=%d y=%d p=%d t=%d>", ev.X, ev.Y, ev.Polarity, ev.Timestamp)
}

// ExtTrigger 一个外部触发事件 Value 为触发电平 ID 为触发通道
type ExtTrigger struct {
	Value     int8      `json:"value"`
	ID        uint8     `json:"id"`
	Timestamp Timestamp `json:"t"`
}

func (ev ExtTrigger) String() string {
	return fmt.Sprintf("ExtTrigger<value=%d id=%d t=%d>", ev.Value, ev.ID, ev.Timestamp)
}
