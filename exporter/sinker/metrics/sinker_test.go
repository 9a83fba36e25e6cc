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

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/prometheus/prometheus/prompb"
	"github.com/stretchr/testify/assert"

	"github.com/evstreamd/evstreamd/exporter"
)

func TestSinkRemoteWrite(t *testing.T) {
	var got prompb.WriteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "snappy", r.Header.Get("Content-Encoding"))
		assert.Equal(t, "application/x-protobuf", r.Header.Get("Content-Type"))
		assert.Equal(t, "token", r.Header.Get("X-Auth"))

		compressed, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		b, err := snappy.Decode(nil, compressed)
		assert.NoError(t, err)
		assert.NoError(t, proto.Unmarshal(b, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s, err := New(exporter.Config{
		Metrics: exporter.MetricsConfig{
			Enabled:  true,
			Endpoint: srv.URL,
			Header:   map[string]string{"X-Auth": "token"},
		},
	})
	assert.NoError(t, err)
	defer s.Close()

	wr := &prompb.WriteRequest{
		Timeseries: []prompb.TimeSeries{
			{
				Labels:  []prompb.Label{{Name: "__name__", Value: "sensor_events_total"}},
				Samples: []prompb.Sample{{Value: 42, Timestamp: 1000}},
			},
		},
	}
	assert.NoError(t, s.Sink(wr))
	assert.Len(t, got.Timeseries, 1)
	assert.Equal(t, float64(42), got.Timeseries[0].Samples[0].Value)

	// 非 proto.Message 数据静默忽略
	assert.NoError(t, s.Sink("whatever"))
}
