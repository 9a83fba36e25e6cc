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
	"github.com/evstreamd/evstreamd/event"
)

// CDSink 接收解码后的 CD 事件
//
// Emit 在 Decode 的调用线程上同步执行 要求足够轻量
// 若需要跨线程投递 Sink 自行负责排队 多个 Decoder 实例
// 共享同一 Sink 时 Sink 需自行保证并发安全
type CDSink interface {
	Emit(ev event.CD)
}

// TriggerSink 接收解码后的外部触发事件
type TriggerSink interface {
	Emit(ev event.ExtTrigger)
}

// CDSinkFunc 函数式 CDSink 适配器
type CDSinkFunc func(ev event.CD)

func (f CDSinkFunc) Emit(ev event.CD) {
	f(ev)
}

// TriggerSinkFunc 函数式 TriggerSink 适配器
type TriggerSinkFunc func(ev event.ExtTrigger)

func (f TriggerSinkFunc) Emit(ev event.ExtTrigger) {
	f(ev)
}

// Registry 事件类型到 Sink 的映射
//
// 事件类型集合固定且已知 这里直接使用按类型展开的字段分发
// 避免在每事件的热路径上引入动态派发
//
// 某类型未绑定 Sink 时 对应事件被直接丢弃 (best-effort 分发)
type Registry struct {
	cd      CDSink
	trigger TriggerSink
}

func NewRegistry() *Registry {
	return &Registry{}
}

// BindCD 绑定 CD 事件 Sink 返回 Registry 自身便于链式调用
func (r *Registry) BindCD(sink CDSink) *Registry {
	r.cd = sink
	return r
}

// BindTrigger 绑定外部触发事件 Sink
func (r *Registry) BindTrigger(sink TriggerSink) *Registry {
	r.trigger = sink
	return r
}

func (r *Registry) EmitCD(ev event.CD) {
	if r.cd != nil {
		r.cd.Emit(ev)
	}
}

func (r *Registry) EmitTrigger(ev event.ExtTrigger) {
	if r.trigger != nil {
		r.trigger.Emit(ev)
	}
}
