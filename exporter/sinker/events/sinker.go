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

package events

import (
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/exporter"
	"github.com/evstreamd/evstreamd/internal/json"
)

func init() {
	exporter.Register(common.RecordCDEvents, New)
}

// Sinker 以 JSON lines 格式落盘 CD 事件批次
type Sinker struct {
	wr      io.WriteCloser
	encoder json.Encoder
	cfg     *exporter.EventsConfig
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := &conf.Events
	cfg.Validate()

	var wr io.WriteCloser
	switch {
	case cfg.Console:
		wr = os.Stdout
	default:
		wr = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			LocalTime:  true,
		}
	}

	return &Sinker{
		wr:      wr,
		cfg:     cfg,
		encoder: json.NewEncoder(wr),
	}, nil
}

func (s *Sinker) Name() common.RecordType {
	return common.RecordCDEvents
}

func (s *Sinker) Sink(data any) error {
	batch, ok := data.(*common.CDEventsData)
	if !ok {
		return nil
	}
	return s.encoder.Encode(batch)
}

func (s *Sinker) Close() {
	s.wr.Close()
}
