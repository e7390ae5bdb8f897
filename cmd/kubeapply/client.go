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

package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"k8s.io/client-go/rest"
)

// newHTTPClient builds the trusted transport for the resource API.
// Trust comes from the given CA bundle file, or is disabled entirely with
// the insecure flag.
func newHTTPClient(caFile string, insecure bool) (*http.Client, error) {
	tlsConfig, err := rest.TLSConfigFor(&rest.Config{
		TLSClientConfig: rest.TLSClientConfig{
			CAFile:   caFile,
			Insecure: insecure,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("transport init failed: %w", err)
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: tlsConfig,
		},
	}, nil
}

// readToken loads the bearer token from a file, trimming surrounding
// whitespace and the trailing newline most token files carry.
func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading token failed: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", path)
	}

	return token, nil
}
