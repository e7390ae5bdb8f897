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

	"github.com/spf13/cobra"

	"github.com/mpwusr/kubeapply/pkg/instruction"
	"github.com/mpwusr/kubeapply/pkg/objectutil"
	"github.com/mpwusr/kubeapply/pkg/source"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <instructions.json>",
	Short: "Inspect resolves the documents of the given instruction list without touching the cluster.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspectCmd,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	instructions, err := instruction.Load(args[0])
	if err != nil {
		return err
	}

	loader := &source.Loader{}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	var rows [][]string
	for _, ins := range instructions {
		action, err := ins.NormalizedAction()
		if err != nil {
			rows = append(rows, []string{ins.URI, ins.Action, "", err.Error()})
			continue
		}

		objects, err := loader.Load(ctx, ins.URI)
		if err != nil {
			rows = append(rows, []string{ins.URI, string(action), "", err.Error()})
			continue
		}

		for _, object := range objects {
			rows = append(rows, []string{ins.URI, string(action), objectutil.FmtUnstructured(object), ""})
		}
	}

	printTable(rootCmd.OutOrStdout(), []string{"uri", "action", "object", "error"}, rows)

	return nil
}
