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

package address

import "strings"

// defaultPlurals maps kinds whose REST collection segment is irregular or
// frequently used. Lookup is case-insensitive; anything absent falls back
// to lowercase(kind) + "s".
var defaultPlurals = map[string]string{
	"configmap":   "configmaps",
	"cronjob":     "cronjobs",
	"daemonset":   "daemonsets",
	"deployment":  "deployments",
	"endpoints":   "endpoints",
	"ingress":     "ingresses",
	"job":         "jobs",
	"namespace":   "namespaces",
	"pod":         "pods",
	"secret":      "secrets",
	"service":     "services",
	"statefulset": "statefulsets",
}

// PluralTable resolves a resource kind to its REST collection segment.
type PluralTable struct {
	entries map[string]string
}

// NewPluralTable returns a table with the built-in entries plus the given
// overrides. Override keys are kind names, matched case-insensitively.
func NewPluralTable(overrides map[string]string) *PluralTable {
	entries := make(map[string]string, len(defaultPlurals)+len(overrides))
	for k, v := range defaultPlurals {
		entries[k] = v
	}
	for k, v := range overrides {
		entries[strings.ToLower(k)] = v
	}
	return &PluralTable{entries: entries}
}

// Plural returns the collection segment for the given kind.
func (t *PluralTable) Plural(kind string) string {
	if t != nil {
		if p, ok := t.entries[strings.ToLower(kind)]; ok {
			return p
		}
	}
	if p, ok := defaultPlurals[strings.ToLower(kind)]; ok {
		return p
	}
	return strings.ToLower(kind) + "s"
}
