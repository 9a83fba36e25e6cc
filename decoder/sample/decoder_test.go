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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/decoder"
	"github.com/evstreamd/evstreamd/event"
)

func cdRecord(ts uint32, x, y uint32, on bool) []byte {
	var p uint32
	if on {
		p = 1
	}
	b := make([]byte, 0, RawEventSize)
	b = binary.LittleEndian.AppendUint32(b, ts)
	b = binary.LittleEndian.AppendUint32(b, TypeCD<<28|p<<22|(y&0x7FF)<<11|x&0x7FF)
	return b
}

func trigRecord(ts uint32, val, id uint32) []byte {
	b := make([]byte, 0, RawEventSize)
	b = binary.LittleEndian.AppendUint32(b, ts)
	b = binary.LittleEndian.AppendUint32(b, TypeExtTrigger<<28|(val&0x1)<<22|id&0xFF)
	return b
}

type cdCollector struct {
	events []event.CD
}

func (c *cdCollector) Emit(ev event.CD) {
	c.events = append(c.events, ev)
}

func newTestDecoder(t *testing.T, timeShift bool) (decoder.Decoder, *cdCollector) {
	cd := &cdCollector{}
	reg := decoder.NewRegistry().BindCD(cd)

	opts := common.NewOptions()
	opts.Merge("timeShift", timeShift)
	d, err := New(reg, opts)
	assert.NoError(t, err)
	return d, cd
}

func TestDecodePassthrough(t *testing.T) {
	d, cd := newTestDecoder(t, false)

	assert.NoError(t, d.Decode(cdRecord(500, 12, 34, true)))

	assert.Equal(t, []event.CD{
		{X: 12, Y: 34, Polarity: event.PolarityOn, Timestamp: 500},
	}, cd.events)
	assert.Equal(t, event.Timestamp(500), d.LastTimestamp())

	_, ok := d.TimestampShift()
	assert.False(t, ok)
}

func TestDecodeFirstEventShift(t *testing.T) {
	d, cd := newTestDecoder(t, true)

	var buf []byte
	buf = append(buf, cdRecord(1000, 0, 0, true)...)
	buf = append(buf, cdRecord(1010, 1, 1, false)...)
	buf = append(buf, cdRecord(1025, 2, 2, true)...)
	assert.NoError(t, d.Decode(buf))

	// 首个事件定义参考时间 其自身变为 0 时刻
	shift, ok := d.TimestampShift()
	assert.True(t, ok)
	assert.Equal(t, event.Timestamp(1000), shift)

	assert.Equal(t, event.Timestamp(0), cd.events[0].Timestamp)
	assert.Equal(t, event.Timestamp(10), cd.events[1].Timestamp)
	assert.Equal(t, event.Timestamp(25), cd.events[2].Timestamp)
	assert.Equal(t, event.Timestamp(25), d.LastTimestamp())
}

func TestDecodeExtTrigger(t *testing.T) {
	trig := &struct {
		events []event.ExtTrigger
	}{}
	reg := decoder.NewRegistry().BindTrigger(decoder.TriggerSinkFunc(func(ev event.ExtTrigger) {
		trig.events = append(trig.events, ev)
	}))

	d, err := New(reg, common.NewOptions())
	assert.NoError(t, err)

	assert.NoError(t, d.Decode(trigRecord(42, 1, 7)))
	assert.Len(t, trig.events, 1)
	assert.Equal(t, int8(1), trig.events[0].Value)
	assert.Equal(t, uint8(7), trig.events[0].ID)
	assert.Equal(t, event.Timestamp(42), trig.events[0].Timestamp)
}

func TestDecodeMisalignedBuffer(t *testing.T) {
	d, cd := newTestDecoder(t, false)

	err := d.Decode(make([]byte, RawEventSize+1))
	assert.True(t, errors.Is(err, decoder.ErrMisalignedBuffer))
	assert.Empty(t, cd.events)
}

func TestResetOperations(t *testing.T) {
	d, _ := newTestDecoder(t, true)

	assert.True(t, d.ResetTimestamp(777))
	assert.Equal(t, event.Timestamp(777), d.LastTimestamp())

	assert.True(t, d.ResetTimestampShift(2000))
	shift, ok := d.TimestampShift()
	assert.True(t, ok)
	assert.Equal(t, event.Timestamp(2000), shift)

	// shift 已确定 后续首事件不再覆盖
	assert.True(t, d.ResetTimestamp(0))
	assert.NoError(t, d.Decode(cdRecord(3000, 0, 0, true)))
	shift, _ = d.TimestampShift()
	assert.Equal(t, event.Timestamp(2000), shift)
	assert.Equal(t, event.Timestamp(1000), d.LastTimestamp())
}
