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

package eventstometrics

import (
	"github.com/evstreamd/evstreamd/internal/labels"
)

type Config struct {
	// RequireLabels 声明需要附加到指标上的标签
	// 支持 sensor.serial / sensor.format
	RequireLabels []string `config:"requireLabels" mapstructure:"requireLabels"`
}

func matchCommonLabels(required []string, serial, format string) labels.Labels {
	var lbs labels.Labels
	for _, label := range required {
		switch label {
		case "sensor.serial":
			lbs = append(lbs, labels.Label{Name: "serial", Value: serial})
		case "sensor.format":
			lbs = append(lbs, labels.Label{Name: "format", Value: format})
		}
	}
	return lbs
}
