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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Header RAW 录制文件的 ASCII 文件头
//
// 文件头由若干 `% key value` 行构成 至 `% end` 行或首个
// 非 % 开头的字节结束 随后即为 record 对齐的二进制 body
//
//	% evt 2.0
//	% format EVT2;width=640;height=480
//	% geometry 640x480
//	% serial_number 00001234
//	% end
//
// width/height 优先取 format 行参数 geometry 行作为后备
type Header struct {
	Format string
	Width  int
	Height int
	Serial string
	Fields map[string]string
}

func parseHeader(br *bufio.Reader) (Header, error) {
	h := Header{Fields: make(map[string]string)}

	for {
		b, err := br.Peek(1)
		if err != nil || b[0] != '%' {
			break
		}

		line, err := br.ReadString('\n')
		if err != nil {
			return h, errors.Wrap(err, "rawfile: truncated header line")
		}

		line = strings.TrimSpace(strings.TrimPrefix(line, "%"))
		if line == "end" {
			break
		}

		key, value, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		h.Fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := h.resolve(); err != nil {
		return h, err
	}
	return h, nil
}

func (h *Header) resolve() error {
	format, ok := h.Fields["format"]
	if !ok {
		return errors.New("rawfile: header missing format field")
	}

	parts := strings.Split(format, ";")
	h.Format = strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "width":
			h.Width, _ = strconv.Atoi(strings.TrimSpace(v))
		case "height":
			h.Height, _ = strconv.Atoi(strings.TrimSpace(v))
		}
	}

	if h.Width == 0 || h.Height == 0 {
		if geo, ok := h.Fields["geometry"]; ok {
			w, ht, ok := strings.Cut(geo, "x")
			if ok {
				h.Width, _ = strconv.Atoi(strings.TrimSpace(w))
				h.Height, _ = strconv.Atoi(strings.TrimSpace(ht))
			}
		}
	}

	h.Serial = h.Fields["serial_number"]
	return nil
}
