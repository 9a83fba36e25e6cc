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

package eventio

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evstreamd/evstreamd/decoder/evt2"
	"github.com/evstreamd/evstreamd/event"
)

// writeEVT2 构造一份最小的 EVT2 录制文件
//
// 事件时间戳依次为 0 10 25 70 140 微秒 共 5 个 CD 事件
func writeEVT2(t *testing.T, header string) string {
	var b []byte
	word := func(w uint32) {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	timeHigh := func(base uint32) {
		word(evt2.TypeTimeHigh<<28 | base>>6)
	}
	cdOn := func(ts6, x, y uint32) {
		word(evt2.TypeCDOn<<28 | ts6<<22 | x<<11 | y)
	}

	timeHigh(0)
	cdOn(0, 1, 1)
	cdOn(10, 2, 2)
	cdOn(25, 3, 3)
	timeHigh(64)
	cdOn(6, 4, 4)   // ts=70
	timeHigh(128)
	cdOn(12, 5, 5)  // ts=140

	path := filepath.Join(t.TempDir(), "recording.raw")
	content := append([]byte(header), b...)
	assert.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

const evt2Header = "% format EVT2;width=640;height=480\n% end\n"

func drain(t *testing.T, it *Iterator) [][]event.CD {
	var batches [][]event.CD
	for {
		batch, err := it.Next()
		if err == io.EOF {
			return batches
		}
		assert.NoError(t, err)
		batches = append(batches, batch)
	}
}

func TestIteratorNEvents(t *testing.T) {
	path := writeEVT2(t, evt2Header)

	it, err := NewIterator(Config{Path: path, Mode: ModeNEvents, NEvents: 2})
	assert.NoError(t, err)
	defer it.Close()

	assert.Equal(t, "EVT2", it.Header().Format)
	assert.Equal(t, 640, it.Geometry().Width())

	batches := drain(t, it)
	assert.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	// 残余事件作为最后一批吐出
	assert.Len(t, batches[2], 1)
	assert.Equal(t, event.Timestamp(140), batches[2][0].Timestamp)
}

func TestIteratorDeltaT(t *testing.T) {
	path := writeEVT2(t, evt2Header)

	it, err := NewIterator(Config{Path: path, Mode: ModeDeltaT, DeltaT: 50})
	assert.NoError(t, err)
	defer it.Close()

	batches := drain(t, it)
	// 窗口 [0,50) [50,100) [100,150)
	assert.Len(t, batches, 3)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[1], 1)
	assert.Equal(t, event.Timestamp(70), batches[1][0].Timestamp)
	assert.Len(t, batches[2], 1)
}

func TestIteratorMixed(t *testing.T) {
	path := writeEVT2(t, evt2Header)

	it, err := NewIterator(Config{Path: path, Mode: ModeMixed, DeltaT: 1000, NEvents: 3})
	assert.NoError(t, err)
	defer it.Close()

	batches := drain(t, it)
	// 时间窗足够大 事件数先满足
	assert.Len(t, batches, 2)
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[1], 2)
}

func TestIteratorMaxDuration(t *testing.T) {
	path := writeEVT2(t, evt2Header)

	it, err := NewIterator(Config{Path: path, Mode: ModeNEvents, NEvents: 100, MaxDuration: 70})
	assert.NoError(t, err)
	defer it.Close()

	batches := drain(t, it)
	// ts=70 和 140 的事件越界被丢弃
	assert.Len(t, batches, 1)
	assert.Len(t, batches[0], 3)
}

func TestIteratorGeometryFallback(t *testing.T) {
	path := writeEVT2(t, "% format EVT2\n% end\n")

	it, err := NewIterator(Config{Path: path, Mode: ModeNEvents, NEvents: 1})
	assert.NoError(t, err)
	defer it.Close()

	assert.Equal(t, evt2.DefaultWidth, it.Geometry().Width())
	assert.Equal(t, evt2.DefaultHeight, it.Geometry().Height())
}

func TestIteratorUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recording.raw")
	assert.NoError(t, os.WriteFile(path, []byte("% format NOPE\n% end\n"), 0o644))

	_, err := NewIterator(Config{Path: path, Mode: ModeNEvents, NEvents: 1})
	assert.Error(t, err)
}

func TestIteratorBadConfig(t *testing.T) {
	_, err := NewIterator(Config{Path: "whatever", Mode: ModeDeltaT})
	assert.Error(t, err)
}
