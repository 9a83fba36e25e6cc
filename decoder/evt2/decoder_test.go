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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/decoder"
	"github.com/evstreamd/evstreamd/event"
)

func timeHighWord(th uint32) uint32 {
	return TypeTimeHigh<<28 | th&0x0FFFFFFF
}

func cdWord(on bool, ts6, x, y uint32) uint32 {
	t := uint32(TypeCDOff)
	if on {
		t = TypeCDOn
	}
	return t<<28 | (ts6&0x3F)<<22 | (x&0x7FF)<<11 | y&0x7FF
}

func trigWord(ts6, val, id uint32) uint32 {
	return TypeExtTrigger<<28 | (ts6&0x3F)<<22 | (val&0x1)<<8 | id&0xFF
}

func rawBuffer(words ...uint32) []byte {
	b := make([]byte, 0, len(words)*RawEventSize)
	for _, w := range words {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}

type cdCollector struct {
	events []event.CD
}

func (c *cdCollector) Emit(ev event.CD) {
	c.events = append(c.events, ev)
}

type triggerCollector struct {
	events []event.ExtTrigger
}

func (c *triggerCollector) Emit(ev event.ExtTrigger) {
	c.events = append(c.events, ev)
}

func newTestDecoder(t *testing.T, timeShift bool) (decoder.Decoder, *cdCollector, *triggerCollector) {
	cd := &cdCollector{}
	trig := &triggerCollector{}
	reg := decoder.NewRegistry().BindCD(cd).BindTrigger(trig)

	opts := common.NewOptions()
	opts.Merge("timeShift", timeShift)
	d, err := New(reg, opts)
	assert.NoError(t, err)
	return d, cd, trig
}

func TestDecodeTimeShiftDiscovery(t *testing.T) {
	d, cd, _ := newTestDecoder(t, true)

	// shift 在观察到首个 EVT_TIME_HIGH 前保持未知
	_, ok := d.TimestampShift()
	assert.False(t, ok)

	// 时间基 1000<<6 = 64000us 两个 CD 事件分别偏移 +10 +25
	err := d.Decode(rawBuffer(
		timeHighWord(1000),
		cdWord(true, 10, 320, 240),
		cdWord(false, 25, 321, 240),
	))
	assert.NoError(t, err)

	shift, ok := d.TimestampShift()
	assert.True(t, ok)
	assert.Equal(t, event.Timestamp(64000), shift)

	assert.Equal(t, []event.CD{
		{X: 320, Y: 240, Polarity: event.PolarityOn, Timestamp: 10},
		{X: 321, Y: 240, Polarity: event.PolarityOff, Timestamp: 25},
	}, cd.events)
	assert.Equal(t, event.Timestamp(25), d.LastTimestamp())
}

func TestDecodeTimeShiftDisabled(t *testing.T) {
	d, cd, _ := newTestDecoder(t, false)

	err := d.Decode(rawBuffer(
		timeHighWord(7),
		cdWord(true, 52, 1, 2),
	))
	assert.NoError(t, err)

	// 7<<6 + 52 = 500
	assert.Equal(t, event.Timestamp(500), d.LastTimestamp())
	assert.Equal(t, event.Timestamp(500), cd.events[0].Timestamp)

	_, ok := d.TimestampShift()
	assert.False(t, ok)
}

func TestTimeShiftValueStable(t *testing.T) {
	d, _, _ := newTestDecoder(t, true)

	assert.NoError(t, d.Decode(rawBuffer(timeHighWord(100))))
	first, ok := d.TimestampShift()
	assert.True(t, ok)

	// 后续 EVT_TIME_HIGH 不得再改变 shift 取值
	assert.NoError(t, d.Decode(rawBuffer(timeHighWord(200), timeHighWord(300))))
	second, ok := d.TimestampShift()
	assert.True(t, ok)
	assert.Equal(t, first, second)
}

func TestResetTimestamp(t *testing.T) {
	d, _, _ := newTestDecoder(t, true)

	assert.NoError(t, d.Decode(rawBuffer(timeHighWord(1000), cdWord(true, 1, 0, 0))))

	assert.True(t, d.ResetTimestamp(123456))
	assert.Equal(t, event.Timestamp(123456), d.LastTimestamp())

	assert.True(t, d.ResetTimestamp(0))
	assert.Equal(t, event.Timestamp(0), d.LastTimestamp())
}

func TestResetTimestampShift(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		d, _, _ := newTestDecoder(t, false)
		assert.False(t, d.ResetTimestampShift(100))
		_, ok := d.TimestampShift()
		assert.False(t, ok)
	})

	t.Run("Enabled", func(t *testing.T) {
		d, _, _ := newTestDecoder(t, true)
		assert.True(t, d.ResetTimestampShift(4096))

		shift, ok := d.TimestampShift()
		assert.True(t, ok)
		assert.Equal(t, event.Timestamp(4096), shift)

		// 显式 Reset 后 流内参考 record 不再覆盖取值
		assert.NoError(t, d.Decode(rawBuffer(timeHighWord(1000))))
		shift, _ = d.TimestampShift()
		assert.Equal(t, event.Timestamp(4096), shift)
	})
}

func TestDispatchCompleteness(t *testing.T) {
	d, cd, trig := newTestDecoder(t, false)

	unknown := uint32(0xE) << 28
	err := d.Decode(rawBuffer(
		timeHighWord(1),
		cdWord(true, 0, 10, 20),
		trigWord(1, 1, 3),
		unknown,
		cdWord(false, 2, 11, 21),
	))
	assert.NoError(t, err)

	// N 个 CD record 对应 N 次 CD Emit 非 CD record 不投递
	assert.Len(t, cd.events, 2)
	assert.Len(t, trig.events, 1)

	assert.Equal(t, uint16(10), cd.events[0].X)
	assert.Equal(t, uint16(20), cd.events[0].Y)
	assert.Equal(t, uint16(11), cd.events[1].X)
	assert.True(t, cd.events[0].Timestamp <= cd.events[1].Timestamp)

	assert.Equal(t, int8(1), trig.events[0].Value)
	assert.Equal(t, uint8(3), trig.events[0].ID)
}

func TestDecodeNoSinkRegistered(t *testing.T) {
	reg := decoder.NewRegistry() // 未绑定任何 Sink
	d, err := New(reg, common.NewOptions())
	assert.NoError(t, err)

	// 分发为 best-effort 不允许 panic 时间戳状态照常推进
	assert.NoError(t, d.Decode(rawBuffer(timeHighWord(1), cdWord(true, 5, 0, 0))))
	assert.Equal(t, event.Timestamp(69), d.LastTimestamp())
}

func TestDecodeMisalignedBuffer(t *testing.T) {
	d, cd, _ := newTestDecoder(t, false)

	err := d.Decode([]byte{0x01, 0x02, 0x03})
	assert.True(t, errors.Is(err, decoder.ErrMisalignedBuffer))
	assert.Empty(t, cd.events)
	assert.Equal(t, event.Timestamp(0), d.LastTimestamp())
}

func TestLastTimestampMonotonic(t *testing.T) {
	d, _, _ := newTestDecoder(t, false)

	buffers := [][]byte{
		rawBuffer(timeHighWord(10), cdWord(true, 1, 0, 0)),
		rawBuffer(cdWord(false, 2, 0, 0), cdWord(true, 3, 0, 0)),
		rawBuffer(timeHighWord(11), cdWord(true, 0, 0, 0)),
	}

	prev := d.LastTimestamp()
	for _, buf := range buffers {
		assert.NoError(t, d.Decode(buf))
		assert.GreaterOrEqual(t, d.LastTimestamp(), prev)
		prev = d.LastTimestamp()
	}
}

func TestTimestampRegressionKeepsState(t *testing.T) {
	d, cd, _ := newTestDecoder(t, false)

	// 时间基回退 事件仍然发出 lastTimestamp 不回退
	assert.NoError(t, d.Decode(rawBuffer(timeHighWord(100), cdWord(true, 0, 0, 0))))
	last := d.LastTimestamp()

	assert.NoError(t, d.Decode(rawBuffer(timeHighWord(50), cdWord(true, 0, 0, 0))))
	assert.Len(t, cd.events, 2)
	assert.Equal(t, last, d.LastTimestamp())
}

func TestRawEventSize(t *testing.T) {
	d, _, _ := newTestDecoder(t, false)

	assert.Equal(t, RawEventSize, d.RawEventSize())
	assert.NoError(t, d.Decode(rawBuffer(timeHighWord(1))))
	assert.Equal(t, RawEventSize, d.RawEventSize())
}
