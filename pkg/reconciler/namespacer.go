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
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// clusterScopeKind marks the one kind treated as cluster-scoped: the
// namespace resource itself.
const clusterScopeKind = "Namespace"

// EffectiveNamespace yields the namespace a document of the given kind is
// dispatched to: empty for cluster-scoped kinds, the caller-supplied
// default for everything else. Documents are never trusted to self-declare
// their namespace.
func EffectiveNamespace(kind, defaultNamespace string) string {
	if strings.EqualFold(kind, clusterScopeKind) {
		return ""
	}
	return defaultNamespace
}

// forceNamespace overrides metadata.namespace in place before dispatch.
// An empty namespace removes the field, so a cluster-scoped document that
// self-declares one is not addressed through it.
func forceNamespace(obj *unstructured.Unstructured, namespace string) {
	obj.SetNamespace(namespace)
}
