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
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/event"
	"github.com/evstreamd/evstreamd/internal/json"
	"github.com/evstreamd/evstreamd/internal/sigs"
	"github.com/evstreamd/evstreamd/logger"
)

func (c *Controller) setupServer() {
	if c.svr == nil {
		return
	}

	// Admin Routes
	c.svr.RegisterPostRoute("/-/logger", c.routeLogger)
	c.svr.RegisterPostRoute("/-/reload", c.routeReload)

	// Watch Routes
	c.svr.RegisterGetRoute("/watch", c.routeWatch)

	// Sensor Routes
	c.svr.RegisterGetRoute("/sensor/status", c.routeSensorStatus)
	c.svr.RegisterGetRoute("/sensor/metrics", c.routeSensorMetrics)

	// Metrics Routes
	c.svr.RegisterGetRoute("/metrics", c.routeMetrics)
}

func (c *Controller) routeMetrics(w http.ResponseWriter, r *http.Request) {
	c.recordMetrics()
	promhttp.Handler().ServeHTTP(w, r)
}

func (c *Controller) routeSensorMetrics(w http.ResponseWriter, r *http.Request) {
	if c.storage == nil {
		return
	}
	c.storage.WritePrometheus(w)
}

// sensorStatus /sensor/status 的响应体
type sensorStatus struct {
	Format        string          `json:"format"`
	Serial        string          `json:"serial"`
	Width         int             `json:"width"`
	Height        int             `json:"height"`
	LastTimestamp event.Timestamp `json:"lastTimestamp"`
	ShiftKnown    bool            `json:"shiftKnown"`
	Shift         event.Timestamp `json:"shift"`
}

func (c *Controller) routeSensorStatus(w http.ResponseWriter, r *http.Request) {
	header := c.src.Header()
	geo := c.resolveGeometry()

	status := sensorStatus{
		Format:        header.Format,
		Serial:        header.Serial,
		Width:         geo.Width(),
		Height:        geo.Height(),
		LastTimestamp: event.Timestamp(c.lastTS.Load()),
		ShiftKnown:    c.shiftKnown.Load(),
		Shift:         event.Timestamp(c.shiftValue.Load()),
	}

	b, err := json.Marshal(status)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func (c *Controller) routeLogger(w http.ResponseWriter, r *http.Request) {
	level := r.FormValue("level")
	logger.SetLoggerLevel(level)
	w.Write([]byte(`{"status": "success"}`))
}

func (c *Controller) routeReload(w http.ResponseWriter, r *http.Request) {
	if err := sigs.SelfReload(); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}
}

func (c *Controller) routeWatch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return
	}

	var maxMessage int
	maxMessage, _ = strconv.Atoi(r.URL.Query().Get("max_message"))
	if maxMessage <= 0 {
		maxMessage = 100
	}

	var timeout time.Duration
	timeout, _ = time.ParseDuration(r.URL.Query().Get("timeout"))
	if timeout <= 0 {
		timeout = time.Second * 5
	}

	queue := c.evBus.Subscribe(10)
	defer c.evBus.Unsubscribe(queue)

	for i := 0; i < maxMessage; i++ {
		data, ok := queue.PopTimeout(timeout)
		if !ok {
			return
		}

		w.Write(data.([]byte))
		w.Write([]byte{'\n'})
		flusher.Flush()
	}
}

// publishRecord 将 cdevents 批次以 JSON 行推送给 watch 订阅者
func (c *Controller) publishRecord(record *common.Record) {
	if c.evBus.Num() == 0 {
		return
	}
	if record.RecordType != common.RecordCDEvents {
		return
	}

	b, err := json.Marshal(record.Data)
	if err != nil {
		return
	}
	c.evBus.Publish(b)
}
