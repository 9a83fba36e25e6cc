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
	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/confengine"
)

// Config Source 配置
type Config struct {
	Engine      string `config:"engine"`
	Path        string `config:"path"`
	BlockSize   int    `config:"blockSize"`
	Compression string `config:"compression"`
	Loop        bool   `config:"loop"`
}

func (c *Config) setup() {
	if c.Engine == "" {
		c.Engine = "file"
	}
	if c.BlockSize <= 0 {
		c.BlockSize = common.ReadBlockSize
	}
}

// LoadConfig 从 rawfile 子配置解析 Config
func LoadConfig(conf *confengine.Config) (Config, error) {
	var c Config
	if err := conf.UnpackChild("rawfile", &c); err != nil {
		return c, err
	}
	c.setup()
	return c, nil
}
