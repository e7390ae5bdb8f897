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

package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

func TestReadDefaults(t *testing.T) {
	g := NewWithT(t)

	cfg, err := Read(filepath.Join(t.TempDir(), "missing"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Kind).To(Equal(KubeapplyConfigKind))
	g.Expect(cfg.RecreateKinds).To(Equal([]string{"Pod"}))
	g.Expect(cfg.Plurals).To(BeEmpty())
}

func TestReadWriteRoundTrip(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "config")

	cfg := NewConfig()
	cfg.Plurals = map[string]string{"Widget": "widgetinstances"}
	cfg.RecreateKinds = []string{"Pod", "Widget"}
	g.Expect(cfg.Write(path)).To(Succeed())

	got, err := Read(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got.Plurals).To(HaveKeyWithValue("Widget", "widgetinstances"))
	g.Expect(got.RecreateKinds).To(Equal([]string{"Pod", "Widget"}))
}

func TestReadAppliesRecreateDefault(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "config")
	data := `apiVersion: kubeapply.dev/v1
kind: Config
plurals:
  Widget: widgetinstances
`
	g.Expect(os.WriteFile(path, []byte(data), 0644)).To(Succeed())

	cfg, err := Read(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.RecreateKinds).To(Equal([]string{"Pod"}))
}
