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

// streamDecoder SAMPLE 格式解码器
//
// 每个 record 自带完整时间戳 解码状态只有 lastTS 与 shift 两项
type streamDecoder struct {
	reg *decoder.Registry

	lastTS event.Timestamp

	shiftEnabled bool
	shiftKnown   bool
	shiftValue   event.Timestamp
}

// New 创建并返回 SAMPLE Decoder 实例
//
// 支持的 options
// - timeShift: bool 是否开启 time shifting
func New(reg *decoder.Registry, opts common.Options) (decoder.Decoder, error) {
	timeShift, err := opts.GetBool("timeShift")
	if err != nil {
		timeShift = false
	}

	return &streamDecoder{
		reg:          reg,
		shiftEnabled: timeShift,
	}, nil
}

func (d *streamDecoder) Decode(data []byte) error {
	if len(data)%RawEventSize != 0 {
		return errors.WithMessagef(decoder.ErrMisalignedBuffer,
			"sample: buffer length %d is not a multiple of %d", len(data), RawEventSize)
	}

	for off := 0; off < len(data); off += RawEventSize {
		raw := event.Timestamp(binary.LittleEndian.Uint32(data[off : off+4]))
		w := binary.LittleEndian.Uint32(data[off+4 : off+8])

		// 流内首个 record 即为 timestamp shift 的参考
		if d.shiftEnabled && !d.shiftKnown {
			d.shiftValue = raw
			d.shiftKnown = true
		}

		ts := raw
		if d.shiftEnabled && d.shiftKnown {
			ts = raw - d.shiftValue
		}

		switch w >> 28 {
		case TypeCD:
			polarity := event.PolarityOff
			if (w>>22)&0x1 == 1 {
				polarity = event.PolarityOn
			}
			d.reg.EmitCD(event.CD{
				X:         uint16(w & 0x7FF),
				Y:         uint16((w >> 11) & 0x7FF),
				Polarity:  polarity,
				Timestamp: ts,
			})

		case TypeExtTrigger:
			d.reg.EmitTrigger(event.ExtTrigger{
				Value:     int8((w >> 22) & 0x1),
				ID:        uint8(w & 0xFF),
				Timestamp: ts,
			})

		default:
			// 未知类型直接跳过
			continue
		}

		d.forward(ts)
	}

	decoder.AddDecodedRecords(Format, len(data)/RawEventSize)
	return nil
}

func (d *streamDecoder) forward(ts event.Timestamp) {
	if ts < d.lastTS {
		decoder.IncTimestampRegression(Format)
		logger.Debugf("sample: timestamp regression, last=%d got=%d", d.lastTS, ts)
		return
	}
	d.lastTS = ts
}

func (d *streamDecoder) LastTimestamp() event.Timestamp {
	return d.lastTS
}

func (d *streamDecoder) TimestampShift() (event.Timestamp, bool) {
	if !d.shiftKnown {
		return 0, false
	}
	return d.shiftValue, true
}

func (d *streamDecoder) RawEventSize() int {
	return RawEventSize
}

func (d *streamDecoder) ResetTimestamp(ts event.Timestamp) bool {
	d.lastTS = ts
	return true
}

func (d *streamDecoder) ResetTimestampShift(shift event.Timestamp) bool {
	if !d.shiftEnabled {
		return false
	}
	d.shiftValue = shift
	d.shiftKnown = true
	return true
}
