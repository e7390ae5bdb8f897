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

// Package reconciler applies declarative resource documents against a
// generic REST resource API.
//
// The Reconciler performs the following actions, per document:
// - forces namespaced documents into the configured target namespace
// - creates resources, falling back to replace on an already-exists conflict
// - replaces resources in place, or recreates the kinds whose API forbids it
// - deletes resources, treating an already-gone resource as success
// - scales workloads through a strategic merge patch of spec.replicas
//
// Documents are processed strictly in source order with one exchange in
// flight; a document's failure is recorded in the change set and does not
// abort the documents after it.
package reconciler
