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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

const (
	KubeapplyConfigKind       = "Config"
	KubeapplyConfigApiVersion = "kubeapply.dev/v1"
)

// Config holds the reconciliation policy tables. Extending either list is a
// data change, not a code change.
type Config struct {
	metav1.TypeMeta `json:",inline"`

	// Plurals overrides or extends the built-in kind to REST collection
	// segment table, e.g. "Widget: widgetinstances".
	Plurals map[string]string `json:"plurals,omitempty"`

	// RecreateKinds lists the kinds whose API forbids in-place replace.
	// A replace of such a kind is performed as delete followed by create.
	RecreateKinds []string `json:"recreateKinds,omitempty"`
}

// NewConfig returns a config with the default policy tables.
func NewConfig() *Config {
	return &Config{
		TypeMeta: metav1.TypeMeta{
			Kind:       KubeapplyConfigKind,
			APIVersion: KubeapplyConfigApiVersion,
		},
		RecreateKinds: defaultRecreateKinds(),
	}
}

func defaultRecreateKinds() []string {
	return []string{"Pod"}
}

// DefaultConfigPath returns '$HOME/.kubeapply/config'
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".kubeapply/config"), nil
}

// Read loads the config from the specified path,
// if the config file is not found, a default is returned.
func Read(configPath string) (*Config, error) {
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("$HOME dir can't be determined, error: %w", err)
		}
		configPath = p
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return NewConfig(), nil
	}

	cfgData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(cfgData, cfg); err != nil {
		return nil, err
	}

	if cfg.RecreateKinds == nil {
		cfg.RecreateKinds = defaultRecreateKinds()
	}

	return cfg, nil
}

// Write saves the config at the given path, if no path is specified
// it will create or override '$HOME/.kubeapply/config'.
func (c *Config) Write(configPath string) error {
	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	if err := os.MkdirAll(filepath.Dir(configPath), os.FileMode(0755)); err != nil {
		return err
	}

	cfgData, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, cfgData, os.FileMode(0666)); err != nil {
		return err
	}

	return nil
}
