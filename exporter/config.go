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

package exporter

import (
	"net/url"
	"time"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	Metrics MetricsConfig `config:"metrics"`
	Events  EventsConfig  `config:"events"`
}

type MetricsConfig struct {
	Enabled  bool              `config:"enabled"`
	Endpoint string            `config:"endpoint"`
	Header   map[string]string `config:"header"`
	Interval time.Duration     `config:"interval"`
	Timeout  time.Duration     `config:"timeout"`
}

func (mc *MetricsConfig) Validate() error {
	_, err := url.Parse(mc.Endpoint)
	if err != nil {
		return err
	}

	if mc.Timeout <= 0 {
		mc.Timeout = defaultTimeout
	}
	if mc.Interval <= 0 {
		mc.Interval = time.Minute
	}
	return nil
}

type EventsConfig struct {
	Enabled    bool   `config:"enabled"`
	Console    bool   `config:"console"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"`
	MaxBackups int    `config:"maxBackups"`
	MaxAge     int    `config:"maxAge"`
}

func (ec *EventsConfig) Validate() {
	if ec.Filename == "" {
		ec.Filename = "cdevents.log"
	}
	if ec.MaxSize <= 0 {
		ec.MaxSize = 100
	}
	if ec.MaxAge <= 0 {
		ec.MaxAge = 7
	}
	if ec.MaxBackups <= 0 {
		ec.MaxBackups = 10
	}
}
