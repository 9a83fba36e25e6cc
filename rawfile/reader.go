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
	"bufio"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

const (
	// CompressionNone CompressionSnappy 支持的 body 压缩方式
	CompressionNone   = ""
	CompressionSnappy = "snappy"
)

// Reader 解析 RAW 文件并以 record 对齐的粒度读取 body
//
// 压缩作用于整个文件 包括 ASCII 文件头
type Reader struct {
	f      *os.File
	br     *bufio.Reader
	header Header
}

// OpenReader 打开 path 指向的 RAW 文件并完成文件头解析
func OpenReader(path string, compression string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "rawfile: open failed")
	}

	var r io.Reader = f
	switch compression {
	case CompressionNone:
	case CompressionSnappy:
		r = snappy.NewReader(f)
	default:
		f.Close()
		return nil, errors.Errorf("rawfile: unsupported compression (%s)", compression)
	}

	br := bufio.NewReaderSize(r, 64*1024)
	header, err := parseHeader(br)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Reader{f: f, br: br, header: header}, nil
}

// Header 返回已解析的文件头
func (r *Reader) Header() Header {
	return r.header
}

// ReadAligned 尽量填满 buf 并丢弃末尾不完整的 record
//
// 返回值 n 总是 recordSize 的整数倍 文件读尽时返回 io.EOF
// 文件末尾存在不完整 record 属于录制损坏 丢弃并告警
func (r *Reader) ReadAligned(recordSize int, buf []byte) (int, error) {
	if recordSize <= 0 {
		return 0, errors.Errorf("rawfile: invalid record size (%d)", recordSize)
	}

	n, err := io.ReadFull(r.br, buf)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}

	if rem := n % recordSize; rem != 0 {
		n -= rem
		droppedBytesTotal.Add(float64(rem))
	}
	readBytesTotal.Add(float64(n))
	return n, err
}

func (r *Reader) Close() error {
	return r.f.Close()
}
