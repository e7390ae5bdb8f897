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
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mattn/go-shellwords"
)

var tmpDir string

func TestMain(m *testing.M) {
	var err error
	tmpDir, err = os.MkdirTemp("", "kubeapply")
	if err != nil {
		panic(err)
	}

	code := m.Run()

	os.RemoveAll(tmpDir)
	os.Exit(code)
}

type TestFile struct {
	Name string
	Body string
}

func makeTestDir(name string, files []TestFile) (string, error) {
	dir := filepath.Join(tmpDir, name)
	_ = os.RemoveAll(dir)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return dir, err
	}

	for _, file := range files {
		if err := os.WriteFile(filepath.Join(dir, file.Name), []byte(file.Body), 0644); err != nil {
			return dir, err
		}
	}
	return dir, nil
}

func executeCommand(cmd string) (string, error) {
	defer resetCmdArgs()
	args, err := shellwords.Parse(cmd)
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)

	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	logger.stderr = rootCmd.ErrOrStderr()

	_, err = rootCmd.ExecuteC()
	result := buf.String()

	return result, err
}

func resetCmdArgs() {
	rootArgs = rootFlags{timeout: time.Minute}
	applyArgs = applyFlags{
		pollInterval:  500 * time.Millisecond,
		pollTimeout:   30 * time.Second,
		printResponse: true,
	}
}

type recordedCall struct {
	Method string
	Path   string
	Body   string
}

// recordingAPI stands in for the resource API and answers from a scripted
// handler while keeping the exchange sequence.
type recordingAPI struct {
	mu      sync.Mutex
	calls   []recordedCall
	handler func(method, path string) (int, string)
}

func (a *recordingAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	a.mu.Lock()
	a.calls = append(a.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	a.mu.Unlock()

	status, response := http.StatusOK, `{}`
	if a.handler != nil {
		status, response = a.handler(r.Method, r.URL.Path)
	}
	w.WriteHeader(status)
	w.Write([]byte(response))
}

func (a *recordingAPI) Calls() []recordedCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	calls := make([]recordedCall, len(a.calls))
	copy(calls, a.calls)
	return calls
}

func writeTokenFile(dir string) (string, error) {
	path := filepath.Join(dir, "token")
	return path, os.WriteFile(path, []byte("test-token\n"), 0600)
}

func writeFile(path, body string) error {
	return os.WriteFile(path, []byte(body), 0644)
}
