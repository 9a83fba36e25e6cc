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

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/decoder"
	"github.com/evstreamd/evstreamd/event"
	"github.com/evstreamd/evstreamd/logger"
)

func init() {
	decoder.Register(Format, New)
}

// shiftState timestamp shift 子状态机
//
// 仅存在 Unknown -> Known 的单向迁移 (观察到首个 EVT_TIME_HIGH
// 或被显式 Reset) Known 状态下只有显式 Reset 能替换取值
// enabled 为 false 时状态机永久失活
type shiftState struct {
	enabled bool
	known   bool
	value   event.Timestamp
}

// streamDecoder EVT2 格式解码器
//
// timeHigh 缓存最近一次 EVT_TIME_HIGH 展开后的时间基 (已左移 6 位)
// CD / EXT_TRIGGER record 的低 6 位时间戳与其拼接得到完整原始时间
//
// 对外可见时间戳 = 原始时间戳 - shift.value (time shifting 开启且已知时)
type streamDecoder struct {
	reg *decoder.Registry

	timeHigh event.Timestamp
	lastTS   event.Timestamp
	shift    shiftState
}

// New 创建并返回 EVT2 Decoder 实例
//
// 支持的 options
// - timeShift: bool 是否开启 time shifting
func New(reg *decoder.Registry, opts common.Options) (decoder.Decoder, error) {
	timeShift, err := opts.GetBool("timeShift")
	if err != nil {
		timeShift = false
	}

	return &streamDecoder{
		reg: reg,
		shift: shiftState{
			enabled: timeShift,
		},
	}, nil
}

// Decode 依次解析 data 中的每个 record 并按输入顺序分发事件
//
// 要求调用方传入来自同一数据源的 严格按时间排序的连续 buffer
func (d *streamDecoder) Decode(data []byte) error {
	if len(data)%RawEventSize != 0 {
		return errors.WithMessagef(decoder.ErrMisalignedBuffer,
			"evt2: buffer length %d is not a multiple of %d", len(data), RawEventSize)
	}

	for off := 0; off < len(data); off += RawEventSize {
		w := binary.LittleEndian.Uint32(data[off : off+RawEventSize])
		switch w >> 28 {
		case TypeCDOff, TypeCDOn:
			d.decodeCD(w)
		case TypeTimeHigh:
			d.decodeTimeHigh(w)
		case TypeExtTrigger:
			d.decodeExtTrigger(w)
		default:
			// 未知类型直接跳过 兼容固件新增的 record 类型
		}
	}

	decoder.AddDecodedRecords(Format, len(data)/RawEventSize)
	return nil
}

func (d *streamDecoder) decodeTimeHigh(w uint32) {
	base := event.Timestamp(w&0x0FFFFFFF) << 6
	d.timeHigh = base

	// 流内首个 EVT_TIME_HIGH 即为 timestamp shift 的参考 record
	if d.shift.enabled && !d.shift.known {
		d.shift.value = base
		d.shift.known = true
	}
	d.forward(d.visible(base))
}

func (d *streamDecoder) decodeCD(w uint32) {
	raw := d.timeHigh + event.Timestamp((w>>22)&0x3F)
	ts := d.visible(raw)

	polarity := event.PolarityOff
	if w>>28 == TypeCDOn {
		polarity = event.PolarityOn
	}

	d.reg.EmitCD(event.CD{
		X:         uint16((w >> 11) & 0x7FF),
		Y:         uint16(w & 0x7FF),
		Polarity:  polarity,
		Timestamp: ts,
	})
	d.forward(ts)
}

func (d *streamDecoder) decodeExtTrigger(w uint32) {
	raw := d.timeHigh + event.Timestamp((w>>22)&0x3F)
	ts := d.visible(raw)

	d.reg.EmitTrigger(event.ExtTrigger{
		Value:     int8((w >> 8) & 0x1),
		ID:        uint8(w & 0xFF),
		Timestamp: ts,
	})
	d.forward(ts)
}

// visible 将原始时间戳换算至对外可见的时间参考系
func (d *streamDecoder) visible(raw event.Timestamp) event.Timestamp {
	if d.shift.enabled && d.shift.known {
		return raw - d.shift.value
	}
	return raw
}

// forward 单调推进 lastTS 时间戳回退视作数据异常 只上报不回退状态
func (d *streamDecoder) forward(ts event.Timestamp) {
	if ts < d.lastTS {
		decoder.IncTimestampRegression(Format)
		logger.Debugf("evt2: timestamp regression, last=%d got=%d", d.lastTS, ts)
		return
	}
	d.lastTS = ts
}

func (d *streamDecoder) LastTimestamp() event.Timestamp {
	return d.lastTS
}

func (d *streamDecoder) TimestampShift() (event.Timestamp, bool) {
	if !d.shift.known {
		return 0, false
	}
	return d.shift.value, true
}

func (d *streamDecoder) RawEventSize() int {
	return RawEventSize
}

func (d *streamDecoder) ResetTimestamp(ts event.Timestamp) bool {
	d.lastTS = ts
	return true
}

func (d *streamDecoder) ResetTimestampShift(shift event.Timestamp) bool {
	if !d.shift.enabled {
		return false
	}
	d.shift.value = shift
	d.shift.known = true
	return true
}
