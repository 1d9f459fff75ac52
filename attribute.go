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
	"crypto/x509"
	"time"

	"github.com/gravitational/samlsp/internal/sigverify"
	"github.com/jonboulle/clockwork"
)

// Attribute is a single SAML assertion attribute, in document order.
type Attribute struct {
	// Name is the required "Name" XML attribute.
	Name string
	// Values holds the text of every AttributeValue child, in document order.
	Values []string
	// Format is the optional "NameFormat" XML attribute.
	Format string
	// ExtraAttributes holds every XML attribute on <Attribute> other than
	// Name and NameFormat.
	ExtraAttributes map[string]string
}

// PrimaryValue returns the first element of Values, or "", false if
// Values is empty.
func (a Attribute) PrimaryValue() (string, bool) {
	if len(a.Values) == 0 {
		return "", false
	}
	return a.Values[0], true
}

// Response is the validated result of a SAML Response.
type Response struct {
	// Issuer equals both the assertion's Issuer and the caller's
	// expected issuer.
	Issuer string
	// NameID is the subject identifier.
	NameID string
	// Audience equals the caller's expected audience.
	Audience string
	// Attributes preserves document order.
	Attributes []Attribute
	// SessionNotOnOrAfter is the AuthnStatement's optional
	// SessionNotOnOrAfter instant.
	SessionNotOnOrAfter *time.Time
	// InResponseTo is the SubjectConfirmationData's optional
	// InResponseTo attribute.
	InResponseTo string
	// Certificate is the exact trust anchor that verified the
	// signature, identity-compared against the caller's supplied set.
	Certificate *x509.Certificate
}

// TimeDriftLimits bounds how far the assertion's validity window may
// be stretched to accommodate clock skew between SP and IdP. Both
// fields default to zero.
type TimeDriftLimits struct {
	// NotBeforeMaxDrift is added to "now" before comparing against
	// NotBefore: a response is accepted as long as
	// now + NotBeforeMaxDrift >= NotBefore.
	NotBeforeMaxDrift time.Duration
	// NotOnOrAfterMaxDrift is subtracted from "now" before comparing
	// against NotOnOrAfter: a response is accepted as long as
	// now - NotOnOrAfterMaxDrift < NotOnOrAfter.
	NotOnOrAfterMaxDrift time.Duration
}

// ValidationConfig carries everything the validator needs that isn't
// part of the wire data: trust anchors, the opaque signature-engine
// configuration, and drift tolerance.
type ValidationConfig struct {
	// Certificates is the set of trust anchors any one of which may
	// verify the signed element. Order is preserved but not
	// semantically meaningful beyond determinism of iteration.
	Certificates []*x509.Certificate
	// SignatureVerificationConfig is opaque to this package; it is
	// passed straight through to the signature-verifier adapter.
	SignatureVerificationConfig *sigverify.Config
	// AllowedTimeDrift bounds acceptable clock skew. Zero value means
	// no tolerance.
	AllowedTimeDrift TimeDriftLimits
	// Clock is the source of "current UTC instant". Defaults to the
	// real wall clock if nil.
	Clock clockwork.Clock
}

func (c ValidationConfig) clock() clockwork.Clock {
	if c.Clock != nil {
		return c.Clock
	}
	return clockwork.NewRealClock()
}
