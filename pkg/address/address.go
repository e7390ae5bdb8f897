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

// Package address computes the REST endpoints of Kubernetes-style resources
// from their apiVersion, kind, namespace and name.
package address

import (
	"fmt"
	"net/url"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Identity locates one resource instance within the API surface.
// Group is empty for the core group. Namespace is empty for cluster-scoped
// resources.
type Identity struct {
	Group     string
	Version   string
	Kind      string
	Namespace string
	Name      string
}

// String returns the identity in the format <kind>/<namespace>/<name>.
func (id Identity) String() string {
	var builder strings.Builder
	builder.WriteString(id.Kind + "/")
	if id.Namespace != "" {
		builder.WriteString(id.Namespace + "/")
	}
	builder.WriteString(id.Name)
	return builder.String()
}

// MissingFieldError reports a document without the fields required to
// address it. Fatal for that document only.
type MissingFieldError struct {
	Field   string
	Subject string
}

func (e *MissingFieldError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("required field %q is missing or blank", e.Field)
	}
	return fmt.Sprintf("required field %q is missing or blank in %s", e.Field, e.Subject)
}

// FromObject derives the identity of the given document. The group is
// parsed from apiVersion: "group/version" for named groups, a bare
// "version" for the core group.
func FromObject(obj *unstructured.Unstructured) (Identity, error) {
	kind := obj.GetKind()
	if strings.TrimSpace(kind) == "" {
		return Identity{}, &MissingFieldError{Field: "kind"}
	}

	apiVersion := obj.GetAPIVersion()
	if strings.TrimSpace(apiVersion) == "" {
		return Identity{}, &MissingFieldError{Field: "apiVersion", Subject: kind}
	}

	name := obj.GetName()
	if strings.TrimSpace(name) == "" {
		return Identity{}, &MissingFieldError{Field: "metadata.name", Subject: kind}
	}

	id := Identity{
		Kind:      kind,
		Namespace: obj.GetNamespace(),
		Name:      name,
	}
	if i := strings.Index(apiVersion, "/"); i >= 0 {
		id.Group = apiVersion[:i]
		id.Version = apiVersion[i+1:]
	} else {
		id.Version = apiVersion
	}

	return id, nil
}

// Addressor computes collection and item URLs for a given API server.
type Addressor struct {
	server  string
	plurals *PluralTable
}

// NewAddressor returns an Addressor for the given server URL.
// Trailing slashes are stripped. A nil plural table uses the defaults.
func NewAddressor(server string, plurals *PluralTable) *Addressor {
	return &Addressor{
		server:  strings.TrimRight(server, "/"),
		plurals: plurals,
	}
}

// CollectionURL returns the endpoint addressing all resources of the
// identity's kind: {server}/api/{version}/{plural} for the core group and
// {server}/apis/{group}/{version}/{plural} for named groups, with a
// /namespaces/{ns} segment inserted before the plural when the identity is
// namespaced.
func (a *Addressor) CollectionURL(id Identity) string {
	var builder strings.Builder
	builder.WriteString(a.server)
	if id.Group == "" {
		builder.WriteString("/api/" + id.Version)
	} else {
		builder.WriteString("/apis/" + id.Group + "/" + id.Version)
	}
	if id.Namespace != "" {
		builder.WriteString("/namespaces/" + url.PathEscape(id.Namespace))
	}
	builder.WriteString("/" + a.plurals.Plural(id.Kind))
	return builder.String()
}

// ItemURL returns the endpoint addressing the single resource instance.
func (a *Addressor) ItemURL(id Identity) string {
	return a.CollectionURL(id) + "/" + url.PathEscape(id.Name)
}
