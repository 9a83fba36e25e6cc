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

package controller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/confengine"
	"github.com/evstreamd/evstreamd/decoder"
	"github.com/evstreamd/evstreamd/decoder/evt2"
	"github.com/evstreamd/evstreamd/decoder/sample"
	"github.com/evstreamd/evstreamd/event"
	"github.com/evstreamd/evstreamd/exporter"
	"github.com/evstreamd/evstreamd/geometry"
	"github.com/evstreamd/evstreamd/internal/metricstorage"
	"github.com/evstreamd/evstreamd/internal/pubsub"
	"github.com/evstreamd/evstreamd/internal/wait"
	"github.com/evstreamd/evstreamd/logger"
	"github.com/evstreamd/evstreamd/pipeline"
	"github.com/evstreamd/evstreamd/rawfile"
	"github.com/evstreamd/evstreamd/server"
)

// Controller 负责组装并驱动整条数据链路
//
// source -> decoder -> batch -> records chan -> workers -> exporter/pipeline
//
// decoder 只在 source 回调的单个 goroutine 上运行 无需加锁
// 批次封装为 Record 之后进入多 worker 消费
type Controller struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       Config
	buildInfo common.BuildInfo

	pl  *pipeline.Pipeline
	exp *exporter.Exporter
	svr *server.Server

	// mut 保护 src Reload 会在 HTTP 接口并发读取时换新数据源
	mut sync.RWMutex
	src rawfile.Source
	dec decoder.Decoder

	storage *metricstorage.Storage
	evBus   *pubsub.PubSub
	records chan *common.Record

	batch     []event.CD
	lastFlush time.Time

	// 状态快照 供 HTTP 接口跨 goroutine 读取
	lastTS     atomic.Int64
	shiftValue atomic.Int64
	shiftKnown atomic.Bool
}

func setupLogger(conf *confengine.Config) error {
	var opts logger.Options
	if err := conf.UnpackChild("logger", &opts); err != nil {
		return err
	}

	if opts.Filename == "" {
		opts.Filename = "evstreamd.log"
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 10
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 7
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 100
	}

	logger.SetOptions(opts)
	return nil
}

func New(conf *confengine.Config, buildInfo common.BuildInfo) (*Controller, error) {
	if err := setupLogger(conf); err != nil {
		return nil, err
	}

	srcConf, err := rawfile.LoadConfig(conf)
	if err != nil {
		return nil, err
	}
	src, err := rawfile.New(srcConf)
	if err != nil {
		return nil, err
	}

	storage, err := metricstorage.New(conf)
	if err != nil {
		return nil, err
	}

	exp, err := exporter.New(conf, storage)
	if err != nil {
		return nil, err
	}

	pl, err := pipeline.New(conf)
	if err != nil {
		return nil, err
	}

	svr, err := server.New(conf)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := conf.UnpackChild("controller", &cfg); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:       cfg,
		buildInfo: buildInfo,
		pl:        pl,
		exp:       exp,
		svr:       svr,
		src:       src,
		storage:   storage,
		evBus:     pubsub.New(),
		records:   make(chan *common.Record, common.Concurrency()),
		batch:     make([]event.CD, 0, cfg.GetBatch()),
		lastFlush: time.Now(),
	}

	dec, err := c.setupDecoder()
	if err != nil {
		src.Close()
		return nil, err
	}

	c.dec = dec
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c, nil
}

// source 返回当前数据源
func (c *Controller) source() rawfile.Source {
	c.mut.RLock()
	defer c.mut.RUnlock()
	return c.src
}

// setupDecoder 按文件头声明的 format 实例化 decoder
func (c *Controller) setupDecoder() (decoder.Decoder, error) {
	format := c.source().Header().Format
	createFunc, err := decoder.Get(format)
	if err != nil {
		return nil, errors.WithMessagef(err, "source format (%s)", format)
	}

	opts := common.NewOptions()
	for k, v := range c.cfg.Decoder.Get(format) {
		opts.Merge(k, v)
	}
	opts.Merge("timeShift", c.cfg.TimeShift)

	reg := decoder.NewRegistry().
		BindCD(decoder.CDSinkFunc(c.onCD)).
		BindTrigger(decoder.TriggerSinkFunc(c.onTrigger))
	return createFunc(reg, opts)
}

func (c *Controller) Start() error {
	c.setupServer()

	for i := 0; i < common.Concurrency(); i++ {
		go wait.Until(c.ctx, c.consumeRecord)
	}

	if c.svr != nil {
		go func() {
			if err := c.svr.ListenAndServe(); err != nil {
				logger.Errorf("failed to start server: %v", err)
			}
		}()
	}

	c.exp.Start()
	c.src.SetOnChunk(c.onChunk)
	c.src.SetOnRestart(c.onRestart)
	c.src.SetOnExhausted(c.flushBatch)
	return c.src.Start(c.dec.RawEventSize())
}

// onChunk 在 source goroutine 上解码一段 record 对齐的 buffer
func (c *Controller) onChunk(chunk []byte) {
	if err := c.dec.Decode(chunk); err != nil {
		logger.Errorf("decode %s chunk failed: %v", c.source().Header().Format, err)
		return
	}

	c.lastTS.Store(int64(c.dec.LastTimestamp()))
	if shift, ok := c.dec.TimestampShift(); ok {
		c.shiftValue.Store(int64(shift))
		c.shiftKnown.Store(true)
	}

	if len(c.batch) > 0 && time.Since(c.lastFlush) >= c.cfg.GetFlushInterval() {
		c.flushBatch()
	}
}

// onRestart 文件循环播放回退时间戳 保证每一轮从相同参考系开始
func (c *Controller) onRestart(pass int) {
	c.flushBatch()
	c.dec.ResetTimestamp(0)
	logger.Infof("source restarted, pass=%d", pass)
}

func (c *Controller) onCD(ev event.CD) {
	c.batch = append(c.batch, ev)
	if len(c.batch) >= c.cfg.GetBatch() {
		c.flushBatch()
	}
}

func (c *Controller) onTrigger(ev event.ExtTrigger) {
	handledTriggers.Inc()
	logger.Debugf("ext trigger: id=%d value=%d ts=%d", ev.ID, ev.Value, ev.Timestamp)
}

func (c *Controller) flushBatch() {
	if len(c.batch) == 0 {
		return
	}

	events := make([]event.CD, len(c.batch))
	copy(events, c.batch)
	c.batch = c.batch[:0]
	c.lastFlush = time.Now()

	header := c.source().Header()
	record := common.NewRecord(common.RecordCDEvents, &common.CDEventsData{
		Format: header.Format,
		Serial: header.Serial,
		Events: events,
	})

	select {
	case c.records <- record:
	case <-c.ctx.Done():
	}
}

func (c *Controller) consumeRecord() {
	for {
		select {
		case record := <-c.records:
			handledRecords.Inc()
			c.exp.Export(record)
			c.pl.Range(record, func(dst *common.Record) {
				c.exp.Export(dst)
			})
			c.publishRecord(record)

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Controller) drainRecords() {
	for {
		select {
		case record := <-c.records:
			handledRecords.Inc()
			c.exp.Export(record)
			c.pl.Range(record, func(dst *common.Record) {
				c.exp.Export(dst)
			})
		default:
			return
		}
	}
}

func (c *Controller) recordMetrics() {
	uptime.Set(float64(time.Now().Unix() - common.Started()))
	buildInfo.WithLabelValues(c.buildInfo.Version, c.buildInfo.GitHash, c.buildInfo.Time).Inc()
}

// resolveGeometry 像素阵列尺寸 文件头缺失时回退到格式默认值
func (c *Controller) resolveGeometry() geometry.Geometry {
	h := c.source().Header()
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

// Reload 重载配置
//
// - 重载 logger 选项与 controller 批次参数
// - 重建数据源与 decoder 两者的状态机一并归零
func (c *Controller) Reload(conf *confengine.Config) error {
	if err := setupLogger(conf); err != nil {
		return err
	}

	var cfg Config
	if err := conf.UnpackChild("controller", &cfg); err != nil {
		return err
	}

	srcConf, err := rawfile.LoadConfig(conf)
	if err != nil {
		return err
	}
	src, err := rawfile.New(srcConf)
	if err != nil {
		return err
	}

	// 先停掉旧数据源 其 goroutine 退出后 batch 不再有并发访问
	c.source().Close()
	c.flushBatch()

	c.mut.Lock()
	c.cfg = cfg
	c.src = src
	c.mut.Unlock()

	dec, err := c.setupDecoder()
	if err != nil {
		src.Close()
		return err
	}
	c.dec = dec

	src.SetOnChunk(c.onChunk)
	src.SetOnRestart(c.onRestart)
	src.SetOnExhausted(c.flushBatch)
	return src.Start(dec.RawEventSize())
}

func (c *Controller) Stop() error {
	var errs *multierror.Error
	errs = multierror.Append(errs, c.source().Close())

	// 数据源停止后冲刷残留批次 并排空 records 保证落地后再关闭 exporter
	c.flushBatch()
	c.cancel()
	c.drainRecords()

	c.exp.Close()
	c.pl.Clean()

	if c.svr != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = multierror.Append(errs, c.svr.Shutdown(ctx))
	}
	return errs.ErrorOrNil()
}
