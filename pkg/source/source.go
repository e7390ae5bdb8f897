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

// Package source resolves document locators to decoded manifests.
// A locator is a bare filesystem path, a file:// URI or an http(s):// URL.
// Loading is stateless, the same locator can be loaded any number of times.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/mpwusr/kubeapply/pkg/objectutil"
)

// LocatorError reports a locator that cannot be resolved to a byte stream:
// an unrecognized scheme, a missing file or a failed fetch.
type LocatorError struct {
	Locator string
	Err     error
}

func (e *LocatorError) Error() string {
	return fmt.Sprintf("unable to resolve locator %q: %v", e.Locator, e.Err)
}

func (e *LocatorError) Unwrap() error { return e.Err }

// DecodeError reports content that cannot be parsed as structured data.
type DecodeError struct {
	Locator string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding documents from %q failed: %v", e.Locator, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Loader resolves locators to streams and decodes them into documents.
// The zero value uses http.DefaultClient for remote locators.
type Loader struct {
	// HTTPClient fetches http(s) locators.
	HTTPClient *http.Client
}

// Load resolves the locator, decodes every document found in the stream and
// returns them in source order. Empty documents are discarded.
func (l *Loader) Load(ctx context.Context, locator string) ([]*unstructured.Unstructured, error) {
	stream, err := l.open(ctx, locator)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	objects, err := objectutil.ReadObjects(stream)
	if err != nil {
		return nil, &DecodeError{Locator: locator, Err: err}
	}

	return objects, nil
}

func (l *Loader) open(ctx context.Context, locator string) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(locator, "file://"):
		u, err := url.Parse(locator)
		if err != nil {
			return nil, &LocatorError{Locator: locator, Err: err}
		}
		f, err := os.Open(u.Path)
		if err != nil {
			return nil, &LocatorError{Locator: locator, Err: err}
		}
		return f, nil
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return l.fetch(ctx, locator)
	case strings.Contains(locator, "://"):
		return nil, &LocatorError{Locator: locator, Err: fmt.Errorf("unsupported scheme")}
	default:
		f, err := os.Open(locator)
		if err != nil {
			return nil, &LocatorError{Locator: locator, Err: err}
		}
		return f, nil
	}
}

func (l *Loader) fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, &LocatorError{Locator: locator, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &LocatorError{Locator: locator, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &LocatorError{Locator: locator, Err: fmt.Errorf("fetch returned status %d", resp.StatusCode)}
	}

	return resp.Body, nil
}
