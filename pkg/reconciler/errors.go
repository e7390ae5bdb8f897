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

import "fmt"

// RemoteError reports a response status outside the success set of the
// protocol step that issued the request. It is recorded per document and
// never retried.
type RemoteError struct {
	Subject string
	Status  int
	Body    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: server returned status %d: %s", e.Subject, e.Status, e.Body)
}
