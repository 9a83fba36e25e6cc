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

package fasttime

import (
	"sync/atomic"
	"time"
)

func init() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for tm := range ticker.C {
			t := tm.Unix()
			currentTimestamp.Store(t)
		}
	}()
}

var currentTimestamp = func() *atomic.Int64 {
	var x atomic.Int64
	x.Store(time.Now().Unix())
	return &x
}()

// UnixTimestamp 秒级精度的 Unix 时间戳 避免高频路径上反复调用 time.Now
func UnixTimestamp() int64 {
	return currentTimestamp.Load()
}
