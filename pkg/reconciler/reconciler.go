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

package reconciler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/mpwusr/kubeapply/pkg/address"
	"github.com/mpwusr/kubeapply/pkg/instruction"
	"github.com/mpwusr/kubeapply/pkg/objectutil"
)

// Config holds the run-wide settings of a Reconciler. It is read-only for
// the duration of a run.
type Config struct {
	// Server is the base URL of the resource API.
	Server string

	// BearerToken signs every request.
	BearerToken string

	// DefaultNamespace is forced onto every namespaced document.
	DefaultNamespace string
}

// Options holds the policy tables and tuning knobs of a Reconciler.
type Options struct {
	// Plurals extends the kind to collection segment table.
	Plurals map[string]string

	// RecreateKinds lists the kinds whose replace is performed as
	// delete followed by create, never as an in-place PUT.
	RecreateKinds []string

	// PollInterval and PollTimeout bound the absence poll between the
	// delete and the recreate of a RecreateKinds document.
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// DefaultOptions returns the options matching the built-in policy:
// pods are recreated on replace, termination is polled every 500ms for up
// to 30s.
func DefaultOptions() Options {
	return Options{
		RecreateKinds: []string{"Pod"},
		PollInterval:  500 * time.Millisecond,
		PollTimeout:   30 * time.Second,
	}
}

// Reconciler applies documents onto a resource API, one HTTP exchange at a
// time. It holds no state across documents.
type Reconciler struct {
	client       *http.Client
	config       Config
	addressor    *address.Addressor
	recreate     map[string]struct{}
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewReconciler creates a Reconciler that issues requests with the given
// client, which is expected to carry the TLS trust configuration.
func NewReconciler(client *http.Client, config Config, opts Options) *Reconciler {
	if client == nil {
		client = http.DefaultClient
	}
	config.BearerToken = strings.TrimSpace(config.BearerToken)

	recreate := make(map[string]struct{}, len(opts.RecreateKinds))
	for _, kind := range opts.RecreateKinds {
		recreate[strings.ToLower(kind)] = struct{}{}
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}

	return &Reconciler{
		client:       client,
		config:       config,
		addressor:    address.NewAddressor(config.Server, address.NewPluralTable(opts.Plurals)),
		recreate:     recreate,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

// Reconcile runs the protocol of the requested action for one document.
// The namespace policy is applied to the document in place before dispatch.
// The returned entry always describes the outcome; a non-nil error marks
// the document as failed without implicating the rest of the run.
func (r *Reconciler) Reconcile(ctx context.Context, object *unstructured.Unstructured, action instruction.Action, replicas int64) (*ChangeSetEntry, error) {
	forceNamespace(object, EffectiveNamespace(object.GetKind(), r.config.DefaultNamespace))

	id, err := address.FromObject(object)
	if err != nil {
		return &ChangeSetEntry{
			Subject: objectutil.FmtUnstructured(object),
			Action:  string(SkippedAction),
		}, err
	}

	switch action {
	case instruction.ActionCreate:
		return r.create(ctx, object, id)
	case instruction.ActionReplace:
		return r.Replace(ctx, object)
	case instruction.ActionDelete:
		return r.Delete(ctx, id)
	case instruction.ActionScale:
		return r.Scale(ctx, id, replicas)
	}

	return &ChangeSetEntry{
		Subject: id.String(),
		Action:  string(SkippedAction),
	}, &instruction.UnknownActionError{Action: string(action)}
}

// Apply runs the create protocol: POST to the collection URL, falling
// through to an in-place replace when the server reports the resource as
// already existing.
func (r *Reconciler) Apply(ctx context.Context, object *unstructured.Unstructured) (*ChangeSetEntry, error) {
	id, err := address.FromObject(object)
	if err != nil {
		return r.skippedEntry(object), err
	}
	return r.create(ctx, object, id)
}

// Replace runs the replace protocol. Kinds whose API forbids in-place
// replace are deleted first, polled for absence, then recreated through the
// full create protocol; everything else is a single PUT to the item URL.
func (r *Reconciler) Replace(ctx context.Context, object *unstructured.Unstructured) (*ChangeSetEntry, error) {
	id, err := address.FromObject(object)
	if err != nil {
		return r.skippedEntry(object), err
	}

	if _, recreate := r.recreate[strings.ToLower(id.Kind)]; !recreate {
		return r.put(ctx, object, id)
	}

	// Delete before create, or the name collides. A resource that is
	// already gone is not an error here.
	status, body, err := r.do(ctx, http.MethodDelete, r.addressor.ItemURL(id), "", nil)
	if err != nil {
		return r.failedEntry(id, 0, ""), err
	}
	if !isSuccess(status) && status != http.StatusNotFound {
		return r.failedEntry(id, status, body), &RemoteError{Subject: id.String(), Status: status, Body: body}
	}

	if err := r.waitForTermination(ctx, id); err != nil {
		return r.failedEntry(id, 0, ""), fmt.Errorf("%s wait for termination failed: %w", id, err)
	}

	return r.create(ctx, object, id)
}

// Delete removes the resource addressed by the identity. A 404 response is
// treated as success: the desired state is absence.
func (r *Reconciler) Delete(ctx context.Context, id address.Identity) (*ChangeSetEntry, error) {
	status, body, err := r.do(ctx, http.MethodDelete, r.addressor.ItemURL(id), "", nil)
	if err != nil {
		return r.failedEntry(id, 0, ""), err
	}

	if isSuccess(status) || status == http.StatusNotFound {
		return r.entry(id, DeletedAction, status, body), nil
	}

	return r.failedEntry(id, status, body), &RemoteError{Subject: id.String(), Status: status, Body: body}
}

// Scale patches the replica count of the resource addressed by the
// identity using a strategic merge patch.
func (r *Reconciler) Scale(ctx context.Context, id address.Identity, replicas int64) (*ChangeSetEntry, error) {
	patch := []byte(fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas))
	status, body, err := r.do(ctx, http.MethodPatch, r.addressor.ItemURL(id), string(types.StrategicMergePatchType), patch)
	if err != nil {
		return r.failedEntry(id, 0, ""), err
	}

	if isSuccess(status) {
		return r.entry(id, ScaledAction, status, body), nil
	}

	return r.failedEntry(id, status, body), &RemoteError{Subject: id.String(), Status: status, Body: body}
}

func (r *Reconciler) create(ctx context.Context, object *unstructured.Unstructured, id address.Identity) (*ChangeSetEntry, error) {
	payload, err := object.MarshalJSON()
	if err != nil {
		return r.skippedEntry(object), fmt.Errorf("%s encoding failed: %w", id, err)
	}

	status, body, err := r.do(ctx, http.MethodPost, r.addressor.CollectionURL(id), "application/json", payload)
	if err != nil {
		return r.failedEntry(id, 0, ""), err
	}

	switch {
	case isSuccess(status):
		return r.entry(id, CreatedAction, status, body), nil
	case status == http.StatusConflict:
		// conflict-driven idempotent upsert
		return r.put(ctx, object, id)
	}

	return r.failedEntry(id, status, body), &RemoteError{Subject: id.String(), Status: status, Body: body}
}

func (r *Reconciler) put(ctx context.Context, object *unstructured.Unstructured, id address.Identity) (*ChangeSetEntry, error) {
	payload, err := object.MarshalJSON()
	if err != nil {
		return r.skippedEntry(object), fmt.Errorf("%s encoding failed: %w", id, err)
	}

	status, body, err := r.do(ctx, http.MethodPut, r.addressor.ItemURL(id), "application/json", payload)
	if err != nil {
		return r.failedEntry(id, 0, ""), err
	}

	if isSuccess(status) {
		return r.entry(id, ReplacedAction, status, body), nil
	}

	return r.failedEntry(id, status, body), &RemoteError{Subject: id.String(), Status: status, Body: body}
}

// waitForTermination polls the item URL until the server reports it gone.
// This replaces the blind fixed pause between delete and recreate; a
// timeout surfaces as the document's failure.
func (r *Reconciler) waitForTermination(ctx context.Context, id address.Identity) error {
	return wait.PollImmediate(r.pollInterval, r.pollTimeout, func() (bool, error) {
		status, _, err := r.do(ctx, http.MethodGet, r.addressor.ItemURL(id), "", nil)
		if err != nil {
			return false, err
		}
		return status == http.StatusNotFound, nil
	})
}

// do issues one signed exchange and returns the status code and the fully
// drained response body.
func (r *Reconciler) do(ctx context.Context, method, url, contentType string, payload []byte) (int, string, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Authorization", "Bearer "+r.config.BearerToken)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}

	return resp.StatusCode, string(body), nil
}

func (r *Reconciler) entry(id address.Identity, action Action, status int, body string) *ChangeSetEntry {
	return &ChangeSetEntry{
		Subject:  id.String(),
		Action:   string(action),
		Status:   status,
		Response: body,
	}
}

func (r *Reconciler) failedEntry(id address.Identity, status int, body string) *ChangeSetEntry {
	return r.entry(id, FailedAction, status, body)
}

func (r *Reconciler) skippedEntry(object *unstructured.Unstructured) *ChangeSetEntry {
	return &ChangeSetEntry{
		Subject: objectutil.FmtUnstructured(object),
		Action:  string(SkippedAction),
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
