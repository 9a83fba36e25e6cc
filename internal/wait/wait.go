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

package wait

import (
	"context"

	"github.com/evstreamd/evstreamd/internal/rescue"
)

// Until 循环执行 f 直到 ctx 被取消 f panic 不会中断循环
func Until(ctx context.Context, f func()) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			defer rescue.HandleCrash()
			f()
		}()
	}
}
