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

package geometry

// Geometry 上报传感器像素阵列尺寸 实现方必须保证构造后取值恒定
type Geometry interface {
	// Width 传感器宽度 (像素)
	Width() int

	// Height 传感器高度 (像素)
	Height() int
}

// Fixed Geometry 的静态实现
type Fixed struct {
	width  int
	height int
}

func NewFixed(width, height int) Fixed {
	return Fixed{
		width:  width,
		height: height,
	}
}

func (g Fixed) Width() int {
	return g.width
}

func (g Fixed) Height() int {
	return g.height
}
