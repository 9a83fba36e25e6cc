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

package decoder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/evstreamd/evstreamd/common"
)

var (
	decodedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "decoder_records_total",
			Help:      "Decoded raw records total",
		},
		[]string{"format"},
	)

	timestampRegressions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "decoder_timestamp_regressions_total",
			Help:      "Decoded events with a timestamp lower than the running last timestamp",
		},
		[]string{"format"},
	)
)

// AddDecodedRecords 累计某格式已解码的 record 数
func AddDecodedRecords(format string, n int) {
	decodedRecords.WithLabelValues(format).Add(float64(n))
}

// IncTimestampRegression 时间戳回退属于数据异常 只计数上报 不中断流
func IncTimestampRegression(format string) {
	timestampRegressions.WithLabelValues(format).Inc()
}
