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

// Package instruction defines the instruction list that drives a run:
// an ordered sequence of {uri, action} pairs read once at startup.
package instruction

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Action is the operation requested for the documents of one instruction.
type Action string

const (
	ActionCreate  Action = "create"
	ActionReplace Action = "replace"
	ActionDelete  Action = "delete"
	ActionScale   Action = "scale"
)

// Instruction pairs a document locator with the action to perform on the
// documents it resolves to. The action is case-insensitive and defaults to
// create when absent. Replicas is only consulted by the scale action.
type Instruction struct {
	URI      string `json:"uri"`
	Action   string `json:"action,omitempty"`
	Replicas *int64 `json:"replicas,omitempty"`
}

// UnknownActionError reports an action string outside the supported set.
// The instruction carrying it is skipped, not fatal to the run.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q, must be one of create|replace|delete|scale", e.Action)
}

// NormalizedAction returns the action with the default and case folding
// applied, or an UnknownActionError.
func (in Instruction) NormalizedAction() (Action, error) {
	a := strings.ToLower(strings.TrimSpace(in.Action))
	if a == "" {
		return ActionCreate, nil
	}
	switch Action(a) {
	case ActionCreate, ActionReplace, ActionDelete, ActionScale:
		return Action(a), nil
	}
	return "", &UnknownActionError{Action: in.Action}
}

// ReplicaCount returns the scale target, defaulting to one replica.
func (in Instruction) ReplicaCount() int64 {
	if in.Replicas == nil {
		return 1
	}
	return *in.Replicas
}

// Load reads an ordered instruction list from a JSON file.
// A failure here is fatal for the whole run.
func Load(path string) ([]Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading instructions failed: %w", err)
	}

	var list []Instruction
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing instructions from %s failed: %w", path, err)
	}

	return list, nil
}
