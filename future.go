/*
Copyright 2026 Gravitational, Inc.

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

package samlsp

import "context"

// ConfigFuture is the deferred-mode handle a GetConfigAsyncFunc
// returns: a ValidationConfig/state pair that is not necessarily
// available yet. Await blocks until the result is ready or ctx is
// cancelled.
type ConfigFuture interface {
	Await(ctx context.Context) (ValidationConfig, any, error)
}

// ConfigFutureFunc adapts a plain function into a ConfigFuture, for
// callers whose "deferred" computation is just a blocking call they'd
// rather express as a closure than a type.
type ConfigFutureFunc func(ctx context.Context) (ValidationConfig, any, error)

// Await implements ConfigFuture.
func (f ConfigFutureFunc) Await(ctx context.Context) (ValidationConfig, any, error) {
	return f(ctx)
}

// ResponseFuture is the handle ValidateMultiTenantAsync returns. It
// resolves exactly once, either with a Response and caller state, or
// with an error (including ctx.Err() if the await was cancelled while
// still in flight).
type ResponseFuture struct {
	done chan struct{}
	resp *Response
	state any
	err  error
}

func newResponseFuture() *ResponseFuture {
	return &ResponseFuture{done: make(chan struct{})}
}

func (f *ResponseFuture) resolve(resp *Response, state any, err error) {
	f.resp, f.state, f.err = resp, state, err
	close(f.done)
}

// Await blocks until the future resolves or ctx is cancelled,
// whichever comes first.
func (f *ResponseFuture) Await(ctx context.Context) (*Response, any, error) {
	select {
	case <-f.done:
		return f.resp, f.state, f.err
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}
