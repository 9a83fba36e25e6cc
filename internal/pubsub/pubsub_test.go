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

package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPubSubFanout(t *testing.T) {
	bus := New()

	q1 := bus.Subscribe(10)
	q2 := bus.Subscribe(10)
	assert.Equal(t, 2, bus.Num())

	for i := 0; i < 5; i++ {
		bus.Publish(i)
	}

	for _, q := range []Queue{q1, q2} {
		for i := 0; i < 5; i++ {
			data, ok := q.PopTimeout(time.Second)
			assert.True(t, ok)
			assert.Equal(t, i, data)
		}
	}

	bus.Unsubscribe(q1)
	bus.Unsubscribe(q2)
	assert.Equal(t, 0, bus.Num())
}

func TestQueueDropWhenFull(t *testing.T) {
	bus := New()
	q := bus.Subscribe(2)
	defer bus.Unsubscribe(q)

	for i := 0; i < 10; i++ {
		bus.Publish(i)
	}

	var count int
	for {
		_, ok := q.PopTimeout(10 * time.Millisecond)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 2, count)
}

func TestQueueClosed(t *testing.T) {
	bus := New()
	q := bus.Subscribe(1)

	q.Close()
	q.Push("whatever") // 关闭后写入被忽略

	_, ok := q.PopTimeout(10 * time.Millisecond)
	assert.False(t, ok)
	bus.Unsubscribe(q)
}
