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

package rawfile

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/evstreamd/evstreamd/internal/rescue"
	"github.com/evstreamd/evstreamd/logger"
)

func init() {
	Register("file", NewFileSource)
}

// fileSource 从本地 RAW 文件读取字节流
//
// 文件头在 New 阶段即完成解析 Start 之后只推送 body 数据
// loop 模式下读尽后重新打开文件 模拟无限流
type fileSource struct {
	conf   Config
	header Header
	reader *Reader

	onChunk     OnChunk
	onRestart   OnRestart
	onExhausted func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	startOnce sync.Once
	closeOnce sync.Once
}

// NewFileSource 创建并返回 file Source 实例
func NewFileSource(conf Config) (Source, error) {
	if conf.Path == "" {
		return nil, errors.New("rawfile: file engine requires path")
	}

	reader, err := OpenReader(conf.Path, conf.Compression)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &fileSource{
		conf:   conf,
		header: reader.Header(),
		reader: reader,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (fs *fileSource) Name() string {
	return "file"
}

// Header 返回 New 阶段解析出的文件头
//
// 文件头对同一文件恒定 loop 模式下 reader 会被读取 goroutine 换新
// 这里只读缓存副本 不触碰 reader
func (fs *fileSource) Header() Header {
	return fs.header
}

func (fs *fileSource) SetOnChunk(onChunk OnChunk) {
	fs.onChunk = onChunk
}

func (fs *fileSource) SetOnRestart(onRestart OnRestart) {
	fs.onRestart = onRestart
}

func (fs *fileSource) SetOnExhausted(onExhausted func()) {
	fs.onExhausted = onExhausted
}

func (fs *fileSource) Start(recordSize int) error {
	if recordSize <= 0 {
		return errors.Errorf("rawfile: invalid record size (%d)", recordSize)
	}
	if fs.onChunk == nil {
		return errors.New("rawfile: onChunk callback required")
	}

	fs.startOnce.Do(func() {
		fs.wg.Add(1)
		go func() {
			defer fs.wg.Done()
			defer rescue.HandleCrash()
			fs.loopRead(recordSize)
			if fs.onExhausted != nil && fs.ctx.Err() == nil {
				fs.onExhausted()
			}
		}()
	})
	return nil
}

func (fs *fileSource) loopRead(recordSize int) {
	// 缓冲区按 record 对齐收缩 保证单次回调不产生残留字节
	size := fs.conf.BlockSize - fs.conf.BlockSize%recordSize
	if size <= 0 {
		size = recordSize
	}
	buf := make([]byte, size)

	pass := 1
	for {
		select {
		case <-fs.ctx.Done():
			return
		default:
		}

		n, err := fs.reader.ReadAligned(recordSize, buf)
		if n > 0 {
			fs.onChunk(buf[:n])
		}
		if err == nil {
			continue
		}

		if err != io.EOF {
			logger.Errorf("rawfile: read file (%s) failed: %v", fs.conf.Path, err)
			return
		}

		if !fs.conf.Loop {
			logger.Infof("rawfile: file (%s) exhausted", fs.conf.Path)
			return
		}

		if !fs.restart(&pass) {
			return
		}
	}
}

// restart 重新打开文件开始下一轮播放
func (fs *fileSource) restart(pass *int) bool {
	reader, err := OpenReader(fs.conf.Path, fs.conf.Compression)
	if err != nil {
		logger.Errorf("rawfile: reopen file (%s) failed: %v", fs.conf.Path, err)
		return false
	}

	fs.reader.Close()
	fs.reader = reader
	*pass++
	restartsTotal.Inc()
	logger.Infof("rawfile: restart file (%s), pass=%d", fs.conf.Path, *pass)
	if fs.onRestart != nil {
		fs.onRestart(*pass)
	}
	return true
}

func (fs *fileSource) Close() error {
	var err error
	fs.closeOnce.Do(func() {
		fs.cancel()
		fs.wg.Wait()
		err = fs.reader.Close()
	})
	return err
}
