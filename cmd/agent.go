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
	"os"

	"github.com/spf13/cobra"

	"github.com/evstreamd/evstreamd/common"
	"github.com/evstreamd/evstreamd/confengine"
	"github.com/evstreamd/evstreamd/controller"
	"github.com/evstreamd/evstreamd/internal/sigs"
	"github.com/evstreamd/evstreamd/logger"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run evstreamd as a sensor stream agent",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := confengine.LoadConfigPath(configPath)
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

		terminate := sigs.Terminate()
		reload := sigs.Reload()
		for {
			select {
			case <-terminate:
				ctr.Stop()
				return

			case <-reload:
				cfg, err := confengine.LoadConfigPath(configPath)
				if err != nil {
					logger.Errorf("failed to load config: %v", err)
					continue
				}
				if err := ctr.Reload(cfg); err != nil {
					logger.Errorf("failed to reload controller: %v", err)
				}
			}
		}
	},
}

var configPath string

func init() {
	agentCmd.Flags().StringVar(&configPath, "config", "evstreamd.yaml", "Configuration file path")
	rootCmd.AddCommand(agentCmd)
}
