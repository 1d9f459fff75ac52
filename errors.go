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

import (
	"fmt"
	"time"
)

// MalformedResponseError is returned when a SAML response cannot be
// decoded, parsed, or is missing a required element or attribute.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed SAML response: %s", e.Reason)
}

// ElementNotFoundError is returned by the validator when a required
// SAML element is missing from an otherwise well-formed assertion. It
// is a kind of malformed response: errors.As also matches it against a
// *MalformedResponseError target.
type ElementNotFoundError struct {
	Path string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element not found: %s", e.Path)
}

// As lets errors.As recover an ElementNotFoundError as a
// *MalformedResponseError.
func (e *ElementNotFoundError) As(target any) bool {
	if t, ok := target.(**MalformedResponseError); ok {
		*t = &MalformedResponseError{Reason: e.Error()}
		return true
	}
	return false
}

// IssuerMismatchError is returned when the assertion's Issuer does not
// byte-for-byte equal the caller's expected issuer.
type IssuerMismatchError struct {
	Received string
	Expected string
}

func (e *IssuerMismatchError) Error() string {
	return fmt.Sprintf("issuer mismatch: expected %q, got %q", e.Expected, e.Received)
}

// AudienceMismatchError is returned when the assertion's Audience does
// not byte-for-byte equal the caller's expected audience.
type AudienceMismatchError struct {
	Received string
	Expected string
}

func (e *AudienceMismatchError) Error() string {
	return fmt.Sprintf("audience mismatch: expected %q, got %q", e.Expected, e.Received)
}

// ResponseTooEarlyError is returned when now (adjusted for drift) is
// strictly before the assertion's NotBefore instant.
type ResponseTooEarlyError struct {
	Observed  time.Time
	NotBefore time.Time
}

func (e *ResponseTooEarlyError) Error() string {
	return fmt.Sprintf("response not yet valid: observed %s, not before %s",
		e.Observed.Format(time.RFC3339Nano), e.NotBefore.Format(time.RFC3339Nano))
}

// ResponseExpiredError is returned when now (adjusted for drift) is at
// or after the assertion's NotOnOrAfter instant.
type ResponseExpiredError struct {
	Observed     time.Time
	NotOnOrAfter time.Time
}

func (e *ResponseExpiredError) Error() string {
	return fmt.Sprintf("response expired: observed %s, not on or after %s",
		e.Observed.Format(time.RFC3339Nano), e.NotOnOrAfter.Format(time.RFC3339Nano))
}

// UnsupportedAlgorithmError is returned by the signature-verifier
// adapter when the signed element names a signature or digest
// algorithm the engine does not support.
type UnsupportedAlgorithmError struct {
	Algorithm string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf("unsupported signature algorithm: %s", e.Algorithm)
}

// SignatureMismatchError is returned by the signature-verifier adapter
// when no supplied trust anchor verifies the signed element.
type SignatureMismatchError struct{}

func (e *SignatureMismatchError) Error() string {
	return "signature verification failed: no trust anchor matched"
}
