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

package cmd

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/spf13/cobra"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/confengine"
	"github.com/evstreamd/evstreamd/controller"
	"github.com/evstreamd/evstreamd/internal/sigs"
)

type replayCmdConfig struct {
	File          string
	Compression   string
	Loop          bool
	TimeShift     bool
	Batch         int
	Console       bool
	EventsFile    string
	EventsSize    int
	EventsBackups int
}

func (c *replayCmdConfig) Yaml() []byte {
	text := `
controller:
  timeShift: {{ .TimeShift }}
  batch: {{ .Batch }}
processor:
pipeline:
metricsStorage:
server:
logger:
  stdout: true

rawfile:
  engine: file
  path: {{ .File }}
  compression: {{ .Compression }}
  loop: {{ .Loop }}

exporter:
  metrics:
  events:
    enabled: true
    console: {{ .Console }}
    filename: {{ .EventsFile }}
    maxSize: {{ .EventsSize }}
    maxBackups: {{ .EventsBackups }}
    maxAge: 7
`
	tpl, err := template.New("Config").Parse(text)
	if err != nil {
		return nil
	}

	var buf bytes.Buffer
	err = tpl.Execute(&buf, map[string]interface{}{
		"File":          c.File,
		"Compression":   c.Compression,
		"Loop":          c.Loop,
		"TimeShift":     c.TimeShift,
		"Batch":         c.Batch,
		"Console":       c.Console,
		"EventsFile":    c.EventsFile,
		"EventsSize":    c.EventsSize,
		"EventsBackups": c.EventsBackups,
	})
	if err != nil {
		return nil
	}
	return buf.Bytes()
}

var replayConfig replayCmdConfig

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a RAW recording and log decoded events",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := confengine.LoadContent(replayConfig.Yaml())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}

		ctr, err := controller.New(cfg, common.GetBuildInfo())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create controller: %v\n", err)
			os.Exit(1)
		}
		if err := ctr.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to start controller: %v\n", err)
			os.Exit(1)
		}

		<-sigs.Terminate()
		ctr.Stop()
	},
	Example: "# evstreamd replay --file recording.raw --time-shift --console",
}

func init() {
	replayCmd.Flags().StringVar(&replayConfig.File, "file", "", "Path to RAW recording file")
	replayCmd.Flags().StringVar(&replayConfig.Compression, "compression", "", "RAW file compression [snappy]. Defaults to none")
	replayCmd.Flags().BoolVar(&replayConfig.Loop, "loop", false, "Restart from the beginning when the recording is exhausted")
	replayCmd.Flags().BoolVar(&replayConfig.TimeShift, "time-shift", false, "Shift event timestamps to the stream origin")
	replayCmd.Flags().IntVar(&replayConfig.Batch, "batch", 2048, "Maximum events per record batch")
	replayCmd.Flags().BoolVar(&replayConfig.Console, "console", false, "Enable console logging")
	replayCmd.Flags().StringVar(&replayConfig.EventsFile, "events.file", "evstreamd.cdevents", "Path to events file")
	replayCmd.Flags().IntVar(&replayConfig.EventsSize, "events.size", 100, "Maximum size of events file in MB")
	replayCmd.Flags().IntVar(&replayConfig.EventsBackups, "events.backups", 10, "Maximum number of old events files to retain")
	replayCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(replayCmd)
}
