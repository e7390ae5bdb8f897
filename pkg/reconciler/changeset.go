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

import "fmt"

// Action represents the action type performed by the reconciliation process.
type Action string

const (
	CreatedAction  Action = "created"
	ReplacedAction Action = "replaced"
	DeletedAction  Action = "deleted"
	ScaledAction   Action = "scaled"
	SkippedAction  Action = "skipped"
	FailedAction   Action = "failed"
)

// ChangeSet holds the outcome of the reconciliation of a document sequence.
type ChangeSet struct {
	Entries []ChangeSetEntry
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{Entries: []ChangeSetEntry{}}
}

func (c *ChangeSet) Add(e ChangeSetEntry) {
	c.Entries = append(c.Entries, e)
}

// Failed returns the entries that did not complete their protocol.
func (c *ChangeSet) Failed() []ChangeSetEntry {
	var failed []ChangeSetEntry
	for _, e := range c.Entries {
		if e.Action == string(FailedAction) {
			failed = append(failed, e)
		}
	}
	return failed
}

// ChangeSetEntry defines the result of an action performed on one document.
type ChangeSetEntry struct {
	// Subject represents the object ID in the format 'kind/namespace/name'.
	Subject string
	// Action represents the action type taken by the reconciler for this object.
	Action string
	// Status is the HTTP status code of the final exchange, zero when the
	// document never reached the server.
	Status int
	// Response holds the response body of the final exchange.
	Response string
}

func (e ChangeSetEntry) String() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s", e.Subject, e.Action)
	}
	return fmt.Sprintf("%s %s → %d", e.Subject, e.Action, e.Status)
}
