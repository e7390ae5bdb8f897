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

package reconciler

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/mpwusr/kubeapply/pkg/instruction"
)

// DocumentResolver resolves an instruction locator to the documents it
// carries.
type DocumentResolver interface {
	Load(ctx context.Context, locator string) ([]*unstructured.Unstructured, error)
}

// RunOptions tunes the behavior of a Run.
type RunOptions struct {
	// AbortOnError stops the run at the first failed document instead of
	// continuing with the rest of the list.
	AbortOnError bool

	// Observe, when set, is called after every processed document with its
	// change set entry and error, in list order.
	Observe func(entry ChangeSetEntry, err error)
}

// Run drives the instruction list strictly in order, one exchange in flight
// at a time. Every processed document yields a change set entry; a document
// that fails is recorded and does not stop the run unless AbortOnError is
// set. The returned change set covers everything processed before the run
// ended.
func (r *Reconciler) Run(ctx context.Context, resolver DocumentResolver, instructions []instruction.Instruction, opts RunOptions) (*ChangeSet, error) {
	changeSet := NewChangeSet()

	record := func(entry ChangeSetEntry, err error) error {
		changeSet.Add(entry)
		if opts.Observe != nil {
			opts.Observe(entry, err)
		}
		if err != nil && opts.AbortOnError {
			return err
		}
		return nil
	}

	for _, ins := range instructions {
		action, err := ins.NormalizedAction()
		if err != nil {
			if err := record(ChangeSetEntry{Subject: ins.URI, Action: string(FailedAction)}, err); err != nil {
				return changeSet, err
			}
			continue
		}

		objects, err := resolver.Load(ctx, ins.URI)
		if err != nil {
			if err := record(ChangeSetEntry{Subject: ins.URI, Action: string(FailedAction)}, err); err != nil {
				return changeSet, err
			}
			continue
		}

		for _, object := range objects {
			entry, err := r.Reconcile(ctx, object, action, ins.ReplicaCount())
			if err := record(*entry, err); err != nil {
				return changeSet, err
			}
		}
	}

	return changeSet, nil
}
