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

package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

const testManifest = `
apiVersion: v1
kind: ConfigMap
metadata:
  name: demo-config
---
apiVersion: v1
kind: Secret
metadata:
  name: demo-secret
`

func TestLoadFromPath(t *testing.T) {
	g := NewWithT(t)
	loader := &Loader{}

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	g.Expect(os.WriteFile(path, []byte(testManifest), 0644)).To(Succeed())

	t.Run("bare filesystem path", func(t *testing.T) {
		objects, err := loader.Load(context.Background(), path)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(objects).To(HaveLen(2))
	})

	t.Run("file URI", func(t *testing.T) {
		objects, err := loader.Load(context.Background(), "file://"+path)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(objects).To(HaveLen(2))
	})

	t.Run("same locator loads twice", func(t *testing.T) {
		_, err := loader.Load(context.Background(), path)
		g.Expect(err).NotTo(HaveOccurred())
		objects, err := loader.Load(context.Background(), path)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(objects).To(HaveLen(2))
	})
}

func TestLoadFromHTTP(t *testing.T) {
	g := NewWithT(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.yaml" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(testManifest))
	}))
	defer srv.Close()

	loader := &Loader{HTTPClient: srv.Client()}

	objects, err := loader.Load(context.Background(), srv.URL+"/manifest.yaml")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(objects).To(HaveLen(2))

	_, err = loader.Load(context.Background(), srv.URL+"/missing.yaml")
	var locErr *LocatorError
	g.Expect(errors.As(err, &locErr)).To(BeTrue())
}

func TestLoadErrors(t *testing.T) {
	g := NewWithT(t)
	loader := &Loader{}

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := loader.Load(context.Background(), "ftp://host/a.yaml")
		var locErr *LocatorError
		g.Expect(errors.As(err, &locErr)).To(BeTrue())
		g.Expect(locErr.Locator).To(Equal("ftp://host/a.yaml"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
		var locErr *LocatorError
		g.Expect(errors.As(err, &locErr)).To(BeTrue())
	})

	t.Run("malformed content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		g.Expect(os.WriteFile(path, []byte("{invalid: [yaml}"), 0644)).To(Succeed())

		_, err := loader.Load(context.Background(), path)
		var decErr *DecodeError
		g.Expect(errors.As(err, &decErr)).To(BeTrue())
	})
}
