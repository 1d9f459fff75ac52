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

// Package sigverify adapts github.com/russellhaering/goxmldsig into
// the narrow contract the response validator needs: given raw XML
// bytes and a set of candidate trust anchors, return the verified
// subtree and the exact anchor that verified it, or fail. It hides
// whether one or many anchors were supplied and never interprets the
// returned element itself.
package sigverify

import (
	"crypto/x509"
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
)

// Config carries signature-verification options opaque to callers
// above the adapter. The zero value is the adapter's default
// configuration.
type Config struct {
	// IDAttribute overrides the XML attribute name goxmldsig treats as
	// the signed element's identifier when resolving a signature's
	// Reference URI. Empty means goxmldsig's own default ("ID").
	IDAttribute string
}

// ErrMalformedXML is returned when the input cannot be parsed as XML
// at all.
type ErrMalformedXML struct {
	Cause error
}

func (e *ErrMalformedXML) Error() string {
	return fmt.Sprintf("malformed xml: %v", e.Cause)
}

func (e *ErrMalformedXML) Unwrap() error { return e.Cause }

// ErrUnsupportedAlgorithm is returned when the signed element names a
// signature or digest algorithm the engine refuses to process.
// Algorithm holds goxmldsig's own error text, not a bare algorithm
// URI: it does not export a typed error carrying the URI alone.
type ErrUnsupportedAlgorithm struct {
	Algorithm string
}

func (e *ErrUnsupportedAlgorithm) Error() string {
	return fmt.Sprintf("unsupported signature algorithm: %s", e.Algorithm)
}

// ErrSignatureMismatch is returned when none of the supplied trust
// anchors verify the signed element.
type ErrSignatureMismatch struct{}

func (e *ErrSignatureMismatch) Error() string {
	return "no supplied trust anchor verified the signature"
}

const (
	dsigNamespace  = "http://www.w3.org/2000/09/xmldsig#"
	assertionTag   = "Assertion"
	assertionSpace = "urn:oasis:names:tc:SAML:2.0:assertion"
)

// ExtractVerified parses xmlBytes, verifies its enveloped XML-DSig
// signature against one of anchors, and returns the verified subtree
// together with the anchor that verified it. Anchors are tried in the
// order given; the first to validate wins. cfg may be nil.
//
// The signed element is located by looking for a direct ds:Signature
// child: first on the document root (the whole Response is signed),
// falling back to a child saml:Assertion (only the Assertion is
// signed, the far more common profile in practice) when the root
// carries none. Either way, goxmldsig validates exactly the element
// that owns the Signature it finds, never a sibling or ancestor.
func ExtractVerified(xmlBytes []byte, anchors []*x509.Certificate, cfg *Config) (*etree.Element, *x509.Certificate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, nil, &ErrMalformedXML{Cause: err}
	}
	if doc.Root() == nil {
		return nil, nil, &ErrMalformedXML{Cause: errors.New("document has no root element")}
	}

	signed := signedElement(doc.Root())
	if signed == nil {
		return nil, nil, &ErrMalformedXML{Cause: errors.New("no ds:Signature found on root or a child Assertion")}
	}

	var idAttribute string
	if cfg != nil {
		idAttribute = cfg.IDAttribute
	}

	for _, anchor := range anchors {
		store := &dsig.MemoryX509CertificateStore{
			Roots: []*x509.Certificate{anchor},
		}
		ctx := dsig.NewDefaultValidationContext(store)
		if idAttribute != "" {
			ctx.IdAttribute = idAttribute
		}

		validated, err := ctx.Validate(signed)
		if err == nil {
			return validated, anchor, nil
		}

		if isUnsupportedAlgorithm(err) {
			return nil, nil, &ErrUnsupportedAlgorithm{Algorithm: err.Error()}
		}
		// Any other failure (signature mismatch, untrusted cert,
		// missing signature) just means this anchor did not verify;
		// keep trying the remaining anchors.
	}

	return nil, nil, &ErrSignatureMismatch{}
}

// isUnsupportedAlgorithm reports whether err is goxmldsig's rejection
// of a signature or digest algorithm it refuses to process. goxmldsig
// does not export a typed error for this (unlike, say,
// ErrMissingSignature it does export), so this sniffs the known
// "Unsupported ... algorithm" wording its validation context uses.
// Any other validation failure (bad signature, untrusted cert, no
// signature at all) falls through to the generic signature-mismatch
// path instead.
func isUnsupportedAlgorithm(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unsupported") &&
		strings.Contains(strings.ToLower(err.Error()), "algorithm")
}

// signedElement returns root if it has a direct ds:Signature child,
// else the direct child saml:Assertion that does, else nil.
func signedElement(root *etree.Element) *etree.Element {
	if hasSignatureChild(root) {
		return root
	}
	for _, child := range root.ChildElements() {
		if child.Tag == assertionTag && child.NamespaceURI() == assertionSpace && hasSignatureChild(child) {
			return child
		}
	}
	return nil
}

func hasSignatureChild(el *etree.Element) bool {
	for _, child := range el.ChildElements() {
		if child.Tag == "Signature" && child.NamespaceURI() == dsigNamespace {
			return true
		}
	}
	return false
}
