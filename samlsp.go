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

// Package samlsp is a minimal SAML 2.0 Service Provider library: it
// builds AuthnRequests for the HTTP-Redirect binding and validates
// signed Responses delivered over HTTP-POST, against a single
// Web-Browser-SSO profile with a fixed, unspecified NameID policy.
//
// It does not parse IdP metadata, publish SP metadata, support Single
// Logout or the artifact binding, decrypt assertions, or perform any
// network I/O. Replay defense and HTTP/session integration are the
// caller's responsibility. The underlying XML canonicalization and
// XML-DSig signature verification are delegated to
// github.com/russellhaering/goxmldsig through the internal
// sigverify adapter.
package samlsp
