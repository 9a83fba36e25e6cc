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

package rawfile

import (
	"sync"

	"github.com/pkg/errors"
)

// OnChunk 收到一段 record 对齐的原始字节时的回调
//
// chunk 的所有权不转移 回调返回后底层会复用该缓冲区
// 需要跨调用持有数据时必须自行拷贝
type OnChunk func(chunk []byte)

// OnRestart 文件循环播放时每次重新打开文件的回调 pass 从 1 开始计数
type OnRestart func(pass int)

// Source 提供 record 对齐的原始字节流
type Source interface {
	// Name 引擎名称
	Name() string

	// Header 返回流的文件头描述
	Header() Header

	// SetOnChunk 设置数据回调 必须在 Start 之前调用
	SetOnChunk(onChunk OnChunk)

	// SetOnRestart 设置循环播放回调 必须在 Start 之前调用
	SetOnRestart(onRestart OnRestart)

	// SetOnExhausted 设置数据源读尽回调 必须在 Start 之前调用
	// loop 模式下数据源永不读尽 该回调不会触发
	SetOnExhausted(onExhausted func())

	// Start 以 recordSize 对齐开始推送数据 非阻塞
	Start(recordSize int) error

	// Close 停止推送并关闭底层资源
	Close() error
}

// CreateFunc 创建 Source 实例函数定义
type CreateFunc func(conf Config) (Source, error)

var (
	mut      sync.Mutex
	managers = map[string]CreateFunc{}
)

// Register 注册 Source 创建函数 重复注册直接 panic
func Register(engine string, f CreateFunc) {
	mut.Lock()
	defer mut.Unlock()

	if _, ok := managers[engine]; ok {
		panic("rawfile: duplicated engine registered " + engine)
	}
	managers[engine] = f
}

// New 根据配置创建并返回 Source 实例
func New(conf Config) (Source, error) {
	conf.setup()

	mut.Lock()
	f, ok := managers[conf.Engine]
	mut.Unlock()
	if !ok {
		return nil, errors.Errorf("rawfile: engine (%s) not found", conf.Engine)
	}
	return f(conf)
}
