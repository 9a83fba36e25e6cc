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

// Package eventio 提供 RAW 录制文件的批量事件迭代能力
//
// Iterator 面向离线分析场景 同步拉取 与 controller 的回调式
// 流水线互不依赖 内部自持私有的 decoder 与 sink 绑定
package eventio

import (
	"io"

	"github.com/pkg/errors"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/decoder"
	"github.com/evstreamd/evstreamd/decoder/evt2"
	"github.com/evstreamd/evstreamd/decoder/sample"
	"github.com/evstreamd/evstreamd/event"
	"github.com/evstreamd/evstreamd/geometry"
	"github.com/evstreamd/evstreamd/rawfile"
)

// Mode 批次切分模式
type Mode string

const (
	// ModeDeltaT 按固定时间窗切分
	ModeDeltaT Mode = "delta_t"

	// ModeNEvents 按固定事件数切分
	ModeNEvents Mode = "n_events"

	// ModeMixed 时间窗与事件数任一先满足即切分
	ModeMixed Mode = "mixed"
)

// Config Iterator 配置
type Config struct {
	Path        string
	Compression string

	Mode    Mode
	DeltaT  event.Timestamp // 微秒
	NEvents int

	// MaxDuration 只迭代流的前 MaxDuration 微秒 0 表示不限
	MaxDuration event.Timestamp

	// RelativeTimestamps 是否把时间戳平移到流起点
	RelativeTimestamps bool
}

func (c *Config) setup() error {
	if c.Mode == "" {
		c.Mode = ModeNEvents
	}

	switch c.Mode {
	case ModeDeltaT:
		if c.DeltaT <= 0 {
			return errors.New("eventio: delta_t mode requires a positive deltaT")
		}
	case ModeNEvents:
		if c.NEvents <= 0 {
			return errors.New("eventio: n_events mode requires a positive nEvents")
		}
	case ModeMixed:
		if c.DeltaT <= 0 || c.NEvents <= 0 {
			return errors.New("eventio: mixed mode requires both deltaT and nEvents")
		}
	default:
		return errors.Errorf("eventio: unknown mode (%s)", c.Mode)
	}
	return nil
}

// Iterator 按配置的切分模式迭代 CD 事件批次
type Iterator struct {
	conf   Config
	reader *rawfile.Reader
	dec    decoder.Decoder

	buf     []byte
	pending []event.CD

	windowEnd event.Timestamp
	windowSet bool

	startTS    event.Timestamp
	startKnown bool

	exhausted bool
}

// NewIterator 打开 RAW 文件并构造 Iterator
//
// 解码器按文件头的 format 字段选择 未注册的格式返回错误
func NewIterator(conf Config) (*Iterator, error) {
	if err := conf.setup(); err != nil {
		return nil, err
	}

	reader, err := rawfile.OpenReader(conf.Path, conf.Compression)
	if err != nil {
		return nil, err
	}

	createFunc, err := decoder.Get(reader.Header().Format)
	if err != nil {
		reader.Close()
		return nil, err
	}

	it := &Iterator{
		conf:   conf,
		reader: reader,
	}

	reg := decoder.NewRegistry().BindCD(decoder.CDSinkFunc(it.collect))

	opts := common.NewOptions()
	opts.Merge("timeShift", conf.RelativeTimestamps)
	dec, err := createFunc(reg, opts)
	if err != nil {
		reader.Close()
		return nil, err
	}

	it.dec = dec
	size := common.ReadBlockSize - common.ReadBlockSize%dec.RawEventSize()
	it.buf = make([]byte, size)
	return it, nil
}

// Header 返回录制文件头
func (it *Iterator) Header() rawfile.Header {
	return it.reader.Header()
}

// Geometry 返回传感器像素阵列尺寸 文件头缺失时回退到格式默认值
func (it *Iterator) Geometry() geometry.Geometry {
	h := it.reader.Header()
	if h.Width > 0 && h.Height > 0 {
		return geometry.NewFixed(h.Width, h.Height)
	}

	switch h.Format {
	case sample.Format:
		return geometry.NewFixed(sample.DefaultWidth, sample.DefaultHeight)
	default:
		return geometry.NewFixed(evt2.DefaultWidth, evt2.DefaultHeight)
	}
}

func (it *Iterator) collect(ev event.CD) {
	if !it.startKnown {
		it.startTS = ev.Timestamp
		it.startKnown = true
	}

	if it.conf.MaxDuration > 0 && ev.Timestamp-it.startTS >= it.conf.MaxDuration {
		it.exhausted = true
		return
	}
	it.pending = append(it.pending, ev)
}

// Next 返回下一批事件 流读尽后返回 io.EOF
//
// 返回的切片所有权转移给调用方 后续调用不会复用
func (it *Iterator) Next() ([]event.CD, error) {
	for {
		if batch, ok := it.cut(); ok {
			return batch, nil
		}

		if it.exhausted {
			return it.flush()
		}

		n, err := it.reader.ReadAligned(it.dec.RawEventSize(), it.buf)
		if n > 0 {
			if derr := it.dec.Decode(it.buf[:n]); derr != nil {
				return nil, derr
			}
		}
		if err == io.EOF {
			it.exhausted = true
		} else if err != nil {
			return nil, errors.Wrap(err, "eventio: read failed")
		}
	}
}

// cut 尝试从 pending 中切出一个完整批次
func (it *Iterator) cut() ([]event.CD, bool) {
	if len(it.pending) == 0 {
		return nil, false
	}

	byCount := func() ([]event.CD, bool) {
		if len(it.pending) < it.conf.NEvents {
			return nil, false
		}
		return it.take(it.conf.NEvents), true
	}

	byWindow := func() ([]event.CD, bool) {
		if !it.windowSet {
			it.windowEnd = it.pending[0].Timestamp + it.conf.DeltaT
			it.windowSet = true
		}
		for i, ev := range it.pending {
			if ev.Timestamp >= it.windowEnd {
				batch := it.take(i)
				// 跳过空窗口
				for it.pending[0].Timestamp >= it.windowEnd {
					it.windowEnd += it.conf.DeltaT
				}
				return batch, i > 0
			}
		}
		return nil, false
	}

	switch it.conf.Mode {
	case ModeNEvents:
		return byCount()
	case ModeDeltaT:
		return byWindow()
	default: // ModeMixed
		if batch, ok := byWindow(); ok {
			return batch, true
		}
		return byCount()
	}
}

func (it *Iterator) take(n int) []event.CD {
	batch := make([]event.CD, n)
	copy(batch, it.pending[:n])
	it.pending = it.pending[n:]
	return batch
}

// flush 流读尽后吐出残余事件 再返回 io.EOF
func (it *Iterator) flush() ([]event.CD, error) {
	if len(it.pending) == 0 {
		return nil, io.EOF
	}
	batch := it.pending
	it.pending = nil
	return batch, nil
}

func (it *Iterator) Close() error {
	return it.reader.Close()
}
