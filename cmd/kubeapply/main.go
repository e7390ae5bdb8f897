/*
Copyright 2023 The kubeapply authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpwusr/kubeapply/pkg/config"
)

var VERSION = "1.0.0-dev.0"

const PROJECT = "kubeapply"

var rootCmd = &cobra.Command{
	Use:           PROJECT,
	Version:       VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,
	Short:         "A command line utility to apply declarative resource documents over the Kubernetes REST API.",
	Long: `Kubeapply reconciles an ordered instruction list of resource documents
against a Kubernetes-compatible REST API using a bearer token.

Apply an instruction list:

- kubeapply apply <api-server> <token-file> <default-namespace> <instructions.json>

Inspect an instruction list without touching the cluster:

- kubeapply inspect <instructions.json>

Manage the policy tables (pluralization overrides, recreate-on-replace kinds):

- kubeapply config init
- kubeapply config view
`,
}

type rootFlags struct {
	timeout time.Duration
}

var (
	rootArgs = rootFlags{}
	logger   = stderrLogger{stderr: os.Stderr}
	cfg      = config.NewConfig()
)

func init() {
	rootCmd.PersistentFlags().DurationVar(&rootArgs.timeout, "timeout", time.Minute,
		"The length of time to wait before giving up on the current operation.")

	rootCmd.DisableAutoGenTag = true
	rootCmd.SetOut(os.Stdout)
}

func main() {
	loadConfig()
	if err := rootCmd.Execute(); err != nil {
		logger.Println(`✗`, err)
		os.Exit(1)
	}
}

func loadConfig() {
	if c, err := config.Read(""); err != nil {
		logger.Println(`✗`, fmt.Errorf("loading the config failed, error: %w", err))
	} else {
		cfg = c
	}
}
