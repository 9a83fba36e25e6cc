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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/evstreamd/evstreamd/event"
	"github.com/evstreamd/evstreamd/eventio"
)

type statCmdConfig struct {
	File        string
	Compression string
	MaxDuration time.Duration
}

var statConfig statCmdConfig

var statCmd = &cobra.Command{
	Use:   "stat",
	Short: "Print statistics of a RAW recording",
	Run: func(cmd *cobra.Command, args []string) {
		it, err := eventio.NewIterator(eventio.Config{
			Path:        statConfig.File,
			Compression: statConfig.Compression,
			Mode:        eventio.ModeNEvents,
			NEvents:     65536,
			MaxDuration: event.Timestamp(statConfig.MaxDuration.Microseconds()),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open recording: %v\n", err)
			os.Exit(1)
		}
		defer it.Close()

		var total, on uint64
		var first, last event.Timestamp
		seen := false
		for {
			batch, err := it.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to iterate recording: %v\n", err)
				os.Exit(1)
			}

			for _, ev := range batch {
				if !seen {
					first = ev.Timestamp
					seen = true
				}
				last = ev.Timestamp
				total++
				if ev.Polarity == event.PolarityOn {
					on++
				}
			}
		}

		header := it.Header()
		geo := it.Geometry()
		fmt.Printf("format: %s\n", header.Format)
		fmt.Printf("serial: %s\n", header.Serial)
		fmt.Printf("geometry: %dx%d\n", geo.Width(), geo.Height())
		fmt.Printf("events: %d (on=%d off=%d)\n", total, on, total-on)

		if seen && last > first {
			span := float64(last-first) / 1e6
			fmt.Printf("duration: %.6fs\n", span)
			fmt.Printf("rate: %.0f events/s\n", float64(total)/span)
		}
	},
}

func init() {
	statCmd.Flags().StringVar(&statConfig.File, "file", "", "Path to RAW recording file")
	statCmd.Flags().StringVar(&statConfig.Compression, "compression", "", "RAW file compression [snappy]. Defaults to none")
	statCmd.Flags().DurationVar(&statConfig.MaxDuration, "max-duration", 0, "Only account for the leading part of the stream")
	statCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(statCmd)
}
