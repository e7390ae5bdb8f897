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
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpwusr/kubeapply/pkg/instruction"
	"github.com/mpwusr/kubeapply/pkg/reconciler"
	"github.com/mpwusr/kubeapply/pkg/source"
)

var applyCmd = &cobra.Command{
	Use:   "apply <api-server> <token-file> <default-namespace> <instructions.json>",
	Short: "Apply reconciles the documents of the given instruction list against the resource API.",
	Args:  cobra.ExactArgs(4),
	RunE:  runApplyCmd,
}

type applyFlags struct {
	caFile        string
	insecure      bool
	abortOnError  bool
	pollInterval  time.Duration
	pollTimeout   time.Duration
	printResponse bool
}

var applyArgs applyFlags

func init() {
	applyCmd.Flags().StringVar(&applyArgs.caFile, "ca-file", "",
		"Path to the CA bundle that the API server certificate is verified against.")
	applyCmd.Flags().BoolVar(&applyArgs.insecure, "insecure-skip-tls-verify", false,
		"Skip server certificate verification (can't be used together with --ca-file).")
	applyCmd.Flags().BoolVar(&applyArgs.abortOnError, "abort-on-error", false,
		"Stop the run at the first document that fails instead of continuing.")
	applyCmd.Flags().DurationVar(&applyArgs.pollInterval, "poll-interval", 500*time.Millisecond,
		"Interval of the absence poll between deleting and recreating a resource.")
	applyCmd.Flags().DurationVar(&applyArgs.pollTimeout, "poll-timeout", 30*time.Second,
		"How long to poll for a deleted resource to be gone before recreating it.")
	applyCmd.Flags().BoolVar(&applyArgs.printResponse, "print-response", true,
		"Print the API response body of every exchange.")

	rootCmd.AddCommand(applyCmd)
}

func runApplyCmd(cmd *cobra.Command, args []string) error {
	server, tokenFile, namespace, instructionsFile := args[0], args[1], args[2], args[3]

	token, err := readToken(tokenFile)
	if err != nil {
		return err
	}

	httpClient, err := newHTTPClient(applyArgs.caFile, applyArgs.insecure)
	if err != nil {
		return err
	}

	instructions, err := instruction.Load(instructionsFile)
	if err != nil {
		return err
	}

	rec := reconciler.NewReconciler(httpClient, reconciler.Config{
		Server:           server,
		BearerToken:      token,
		DefaultNamespace: namespace,
	}, reconciler.Options{
		Plurals:       cfg.Plurals,
		RecreateKinds: cfg.RecreateKinds,
		PollInterval:  applyArgs.pollInterval,
		PollTimeout:   applyArgs.pollTimeout,
	})

	loader := &source.Loader{HTTPClient: httpClient}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	changeSet, err := rec.Run(ctx, loader, instructions, reconciler.RunOptions{
		AbortOnError: applyArgs.abortOnError,
		Observe: func(entry reconciler.ChangeSetEntry, err error) {
			logger.Println(entry.String())
			if applyArgs.printResponse && entry.Response != "" {
				cmd.Println(entry.Response)
			}
			if err != nil {
				logger.Println(`✗`, err)
			}
		},
	})
	if err != nil {
		return err
	}

	if failed := changeSet.Failed(); len(failed) > 0 {
		logger.Println(fmt.Sprintf("%v of %v document(s) failed", len(failed), len(changeSet.Entries)))
	}

	return nil
}
