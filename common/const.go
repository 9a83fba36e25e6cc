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

package common

const (
	// App 应用程序名称
	App = "evstreamd"

	// Version 应用程序版本
	Version = "v0.0.1"

	// ReadBlockSize 默认单次读取的 RAW body 字节数
	//
	// 传感器事件速率高峰可达每秒千万级 过小的 block 会放大调用开销
	// 过大的 block 会增加事件可见延迟 这里取一个折中值
	// Source 侧会将实际读取长度向下对齐到 record size 的整数倍
	ReadBlockSize = 64 * 1024
)
