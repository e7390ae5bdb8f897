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

package objectutil

import (
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

const fmtSeparator = "/"

// FmtUnstructured returns the object ID in the format <kind>/<namespace>/<name>.
// The namespace segment is omitted for cluster-scoped objects.
func FmtUnstructured(obj *unstructured.Unstructured) string {
	var builder strings.Builder
	builder.WriteString(obj.GetKind() + fmtSeparator)
	if obj.GetNamespace() != "" {
		builder.WriteString(obj.GetNamespace() + fmtSeparator)
	}
	builder.WriteString(obj.GetName())
	return builder.String()
}
