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
	"sort"

	"github.com/pkg/errors"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/event"
)

// ErrMisalignedBuffer Decode 收到的 buffer 长度不是 record size 的整数倍
//
// 这代表上游分块逻辑已经损坏 属于调用方契约错误 不属于数据问题
// Decode 不会消费此类 buffer 中的任何字节
var ErrMisalignedBuffer = errors.New("decoder: misaligned buffer")

// Decoder RAW 事件流解码器定义
//
// 所有的传感器家族解码器都需实现本接口 要求实现方支持流式解析数据
//
// Decode 非并发安全 调用方必须保证同一实例上的调用串行化
// 且必须按时间顺序传入来自同一数据源的连续 buffer
type Decoder interface {
	// Decode 解析 data 中的所有 raw record 并将解码出的事件
	// 按输入顺序同步分发至绑定的 Registry
	//
	// data 长度必须为 RawEventSize 的整数倍 否则返回 ErrMisalignedBuffer
	// 未知的 record 类型会被静默忽略 以兼容固件新增的类型
	Decode(data []byte) error

	// LastTimestamp 返回最近一个已解码事件的时间戳
	//
	// 若开启了 time shifting 则为 shifted 时间参考系下的取值
	LastTimestamp() event.Timestamp

	// TimestampShift 返回 timestamp shift 的取值
	//
	// 只有当 shift 已经确定 (观察到参考 record 或被显式 Reset) 时
	// 第二个返回值才为 true 否则返回 false 且第一个返回值无意义
	TimestampShift() (event.Timestamp, bool)

	// RawEventSize 返回单个 raw record 的字节宽度 实例生命周期内恒定
	RawEventSize() int

	// ResetTimestamp 强制设置 LastTimestamp 的取值 成功返回 true
	//
	// 若开启了 time shifting 调用方需自行保证 ts 已处于 shifted 时间参考系
	ResetTimestamp(ts event.Timestamp) bool

	// ResetTimestampShift 强制设置 timestamp shift 的取值
	//
	// 若未开启 time shifting 则不做任何事并返回 false
	// 已发出的事件不会被追溯修正
	ResetTimestampShift(shift event.Timestamp) bool
}

// CreateFunc 根据 Registry 与 Options 创建对应格式的 Decoder
type CreateFunc func(reg *Registry, opts common.Options) (Decoder, error)

var decoderFactory = map[string]CreateFunc{}

// Register 注册 Decoder 工厂函数
func Register(format string, f CreateFunc) {
	decoderFactory[format] = f
}

// Get 获取 Decoder 工厂函数
func Get(format string) (CreateFunc, error) {
	f, ok := decoderFactory[format]
	if !ok {
		return nil, errors.Errorf("decoder factory (%s) not found", format)
	}
	return f, nil
}

// Formats 返回所有已注册的格式名称
func Formats() []string {
	formats := make([]string, 0, len(decoderFactory))
	for name := range decoderFactory {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}
