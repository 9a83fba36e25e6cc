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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHeader(t *testing.T) {
	content := "% evt 2.0\n" +
		"% format EVT2;width=640;height=480\n" +
		"% serial_number 00001234\n" +
		"% end\n" +
		"BODY"

	br := bufio.NewReader(strings.NewReader(content))
	h, err := parseHeader(br)
	assert.NoError(t, err)

	assert.Equal(t, "EVT2", h.Format)
	assert.Equal(t, 640, h.Width)
	assert.Equal(t, 480, h.Height)
	assert.Equal(t, "00001234", h.Serial)

	// 文件头消费完毕 body 原样保留
	rest, _ := br.ReadString('\n')
	assert.Equal(t, "BODY", rest)
}

func TestParseHeaderGeometryFallback(t *testing.T) {
	content := "% format SAMPLE\n" +
		"% geometry 1280x720\n" +
		"% end\n"

	h, err := parseHeader(bufio.NewReader(strings.NewReader(content)))
	assert.NoError(t, err)
	assert.Equal(t, "SAMPLE", h.Format)
	assert.Equal(t, 1280, h.Width)
	assert.Equal(t, 720, h.Height)
}

func TestParseHeaderNoEndMarker(t *testing.T) {
	// 部分录制工具不写 end 行 以首个非 % 字节收尾
	content := "% format EVT2\n\x01\x02"

	h, err := parseHeader(bufio.NewReader(strings.NewReader(content)))
	assert.NoError(t, err)
	assert.Equal(t, "EVT2", h.Format)
	assert.Equal(t, 0, h.Width)
}

func TestParseHeaderMissingFormat(t *testing.T) {
	content := "% geometry 640x480\n% end\n"

	_, err := parseHeader(bufio.NewReader(strings.NewReader(content)))
	assert.Error(t, err)
}
