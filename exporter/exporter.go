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
	"context"
	"time"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/confengine"
	"github.com/evstreamd/evstreamd/internal/metricstorage"
	"github.com/evstreamd/evstreamd/logger"
)

// Exporter 汇聚所有 Record 的出口
//
// metrics 先落到本地 metricsStorage 聚合 定时以 remote write
// 协议推送 cdevents 逐批写入 Sinker
type Exporter struct {
	ctx    context.Context
	cancel context.CancelFunc
	conf   Config

	metricsStorage *metricstorage.Storage

	metricsSinker Sinker
	eventsSinker  Sinker
}

func New(conf *confengine.Config, metricsStorage *metricstorage.Storage) (*Exporter, error) {
	var cfg Config
	if err := conf.UnpackChild("exporter", &cfg); err != nil {
		return nil, err
	}

	var err error
	var metricsSinker Sinker
	if cfg.Metrics.Enabled {
		f := Get(common.RecordMetrics)
		if metricsSinker, err = f(cfg); err != nil {
			return nil, err
		}
	}

	var eventsSinker Sinker
	if cfg.Events.Enabled {
		f := Get(common.RecordCDEvents)
		if eventsSinker, err = f(cfg); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	exp := &Exporter{
		ctx:            ctx,
		cancel:         cancel,
		conf:           cfg,
		metricsStorage: metricsStorage,
		metricsSinker:  metricsSinker,
		eventsSinker:   eventsSinker,
	}
	return exp, nil
}

func (e *Exporter) Start() {
	if e.conf.Metrics.Enabled && e.metricsStorage != nil {
		go e.loopExportMetrics()
	}
}

func (e *Exporter) Close() {
	e.cancel()

	if e.conf.Metrics.Enabled {
		e.metricsSinker.Close()
	}
	if e.conf.Events.Enabled {
		e.eventsSinker.Close()
	}

	if e.metricsStorage != nil {
		e.metricsStorage.Close()
	}
}

func (e *Exporter) Export(record *common.Record) {
	switch record.RecordType {
	case common.RecordMetrics:
		if e.metricsStorage == nil {
			return
		}

		data, ok := record.Data.(*common.MetricsData)
		if !ok {
			return
		}
		e.metricsStorage.Update(data.Data...)

	case common.RecordCDEvents:
		if !e.conf.Events.Enabled {
			return
		}

		data, ok := record.Data.(*common.CDEventsData)
		if !ok {
			return
		}
		if err := e.eventsSinker.Sink(data); err != nil {
			logger.Errorf("sink cdevents failed: %v", err)
		}
	}
}

func (e *Exporter) loopExportMetrics() {
	if !e.conf.Metrics.Enabled {
		return
	}

	ticker := time.NewTicker(e.conf.Metrics.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return

		case <-ticker.C:
			if err := e.metricsSinker.Sink(e.metricsStorage.WriteRequest()); err != nil {
				logger.Errorf("sink metrics failed: %v", err)
			}
		}
	}
}
