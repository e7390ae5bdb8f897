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
	"testing"

	. "github.com/onsi/gomega"
)

func TestReadObjects(t *testing.T) {
	g := NewWithT(t)

	t.Run("reads multi-doc YAML and discards empty documents", func(t *testing.T) {
		yml := `
apiVersion: v1
kind: ConfigMap
metadata:
  name: first
---
# nothing here
---
apiVersion: v1
kind: Secret
metadata:
  name: second
  namespace: demo
`
		objects, err := ReadObjects(strings.NewReader(yml))
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(objects).To(HaveLen(2))
		g.Expect(objects[0].GetKind()).To(Equal("ConfigMap"))
		g.Expect(objects[1].GetName()).To(Equal("second"))
	})

	t.Run("reads a single JSON object", func(t *testing.T) {
		data := `{"apiVersion":"v1","kind":"Namespace","metadata":{"name":"demo"}}`

		objects, err := ReadObjects(strings.NewReader(data))
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(objects).To(HaveLen(1))
		g.Expect(objects[0].GetKind()).To(Equal("Namespace"))
	})

	t.Run("expands list objects", func(t *testing.T) {
		data := `{
  "apiVersion": "v1",
  "kind": "List",
  "items": [
    {"apiVersion": "v1", "kind": "ConfigMap", "metadata": {"name": "a"}},
    {"apiVersion": "v1", "kind": "ConfigMap", "metadata": {"name": "b"}}
  ]
}`
		objects, err := ReadObjects(strings.NewReader(data))
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(objects).To(HaveLen(2))
		g.Expect(objects[1].GetName()).To(Equal("b"))
	})

	t.Run("keeps documents with missing fields", func(t *testing.T) {
		yml := `
apiVersion: v1
kind: ConfigMap
`
		objects, err := ReadObjects(strings.NewReader(yml))
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(objects).To(HaveLen(1))
		g.Expect(objects[0].GetName()).To(BeEmpty())
	})

	t.Run("fails on malformed content", func(t *testing.T) {
		_, err := ReadObjects(strings.NewReader("{not yaml: [}"))
		g.Expect(err).To(HaveOccurred())
	})
}

func TestFmtUnstructured(t *testing.T) {
	g := NewWithT(t)

	objects, err := ReadObjects(strings.NewReader(`{"apiVersion":"v1","kind":"Pod","metadata":{"name":"web","namespace":"demo"}}`))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(FmtUnstructured(objects[0])).To(Equal("Pod/demo/web"))

	objects, err = ReadObjects(strings.NewReader(`{"apiVersion":"v1","kind":"Namespace","metadata":{"name":"demo"}}`))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(FmtUnstructured(objects[0])).To(Equal("Namespace/demo"))
}
