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

package sample

const (
	// Format 格式名称 与 RAW 文件头中的 format 字段对应
	Format = "SAMPLE"

	// RawEventSize 单个 raw record 的字节宽度
	RawEventSize = 8
)

// SAMPLE record 为两个小端序 uint32
//
// word0 完整的 32 位微秒时间戳 不同于 EVT2 无须时间基拼接
//
// word1
//
//	 31    28 27      23 22 21        11 10       0
//	+--------+----------+---+-----------+----------+
//	|  type  |  unused  | p |  y[10:0]  |  x[10:0] |
//	+--------+----------+---+-----------+----------+
//
// EXT_TRIGGER 的 word1 复用 p 位作为触发电平 x 低 8 位作为触发通道
//
// 该家族没有专门的时间参考 record 流内首个 record (无论类型)
// 的时间戳即为 time shifting 的参考值
const (
	TypeCD         = 0x0
	TypeExtTrigger = 0xA
)

const (
	// DefaultWidth DefaultHeight SAMPLE 家族传感器的默认像素阵列尺寸
	DefaultWidth  = 1280
	DefaultHeight = 720
)
