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

package evt2

const (
	// Format 格式名称 与 RAW 文件头中的 format 字段对应
	Format = "EVT2"

	// RawEventSize 单个 raw record 的字节宽度
	RawEventSize = 4
)

// EVT2 record 为小端序 uint32 高 4 位为类型判别字段
//
//	 31    28 27                                  0
//	+--------+------------------------------------+
//	|  type  |              payload               |
//	+--------+------------------------------------+
//
// CD_OFF / CD_ON
//
//	 31    28 27     22 21         11 10          0
//	+--------+---------+------------+-------------+
//	|  type  | ts[5:0] |  x[10:0]   |   y[10:0]   |
//	+--------+---------+------------+-------------+
//
// EVT_TIME_HIGH 携带微秒时钟的高 28 位 完整时间基为 payload << 6
// CD / EXT_TRIGGER record 仅携带低 6 位 须与最近的时间基拼接
//
// EXT_TRIGGER
//
//	 31    28 27     22 21       9   8   7       0
//	+--------+---------+-----------+-----+--------+
//	|  type  | ts[5:0] |  unused   | val | id[7:0]|
//	+--------+---------+-----------+-----+--------+
const (
	TypeCDOff      = 0x0
	TypeCDOn       = 0x1
	TypeTimeHigh   = 0x8
	TypeExtTrigger = 0xA
)

const (
	// DefaultWidth DefaultHeight EVT2 家族传感器的默认像素阵列尺寸
	// RAW 文件头携带 geometry 信息时以文件头为准
	DefaultWidth  = 640
	DefaultHeight = 480
)
