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
	"encoding/base64"
	"errors"
	"time"

	"github.com/beevik/etree"
	"github.com/gravitational/samlsp/internal/sigverify"
	"github.com/gravitational/samlsp/internal/xmlutil"
	"github.com/gravitational/samlsp/samltime"
	"github.com/gravitational/trace"
)

// wrapElementLookup turns an internal xmlutil lookup failure into the
// package's own ElementNotFoundError, preserving the path that failed
// to resolve instead of discarding it behind a generic message.
func wrapElementLookup(err error) error {
	var notFound *xmlutil.ErrElementNotFound
	if errors.As(err, &notFound) {
		return trace.Wrap(&ElementNotFoundError{Path: notFound.Path})
	}
	return trace.Wrap(&MalformedResponseError{Reason: err.Error()})
}

// Validate decodes, verifies, and validates a base64-encoded SAML
// Response, enforcing the Web-Browser-SSO profile invariants this
// package implements: signature, issuer, time window, audience, and
// subject confirmation. It reads "now" exactly once, via trust.clock().
func Validate(data string, trust ValidationConfig, expectedAudience, expectedIssuer string) (*Response, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, trace.Wrap(&MalformedResponseError{Reason: "invalid base64: " + err.Error()})
	}

	verified, anchor, err := sigverify.ExtractVerified(raw, trust.Certificates, trust.SignatureVerificationConfig)
	if err != nil {
		return nil, mapSignatureError(err)
	}

	assertion, err := locateAssertion(verified)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	now := trust.clock().Now().UTC()
	return validateAssertion(assertion, expectedAudience, expectedIssuer, trust.AllowedTimeDrift, now, anchor)
}

// locateAssertion requires the verified element to be exactly either a
// <samlp:Response> containing ./saml:Assertion, or a bare
// <saml:Assertion>. Any other tag is rejected so all subsequent reads
// are confined to the signed subtree.
func locateAssertion(verified *etree.Element) (*etree.Element, error) {
	switch {
	case verified.Tag == "Response" && verified.NamespaceURI() == NamespaceProtocol:
		assertion, err := xmlutil.FindOrRaise(verified, "./saml:Assertion")
		if err != nil {
			return nil, wrapElementLookup(err)
		}
		return assertion, nil
	case verified.Tag == "Assertion" && verified.NamespaceURI() == NamespaceAssertion:
		return verified, nil
	default:
		return nil, &MalformedResponseError{Reason: "signed element is neither samlp:Response nor saml:Assertion"}
	}
}

// validateAssertion runs steps 3-9 of the pipeline against a verified
// saml:Assertion element and the exact anchor that verified it.
func validateAssertion(
	assertion *etree.Element,
	expectedAudience, expectedIssuer string,
	drift TimeDriftLimits,
	now time.Time,
	anchor *x509.Certificate,
) (*Response, error) {
	issuerEl, err := xmlutil.FindOrRaise(assertion, "./saml:Issuer")
	if err != nil {
		return nil, wrapElementLookup(err)
	}
	issuer := issuerEl.Text()
	if issuer != expectedIssuer {
		return nil, trace.Wrap(&IssuerMismatchError{Received: issuer, Expected: expectedIssuer})
	}

	subject, err := xmlutil.FindOrRaise(assertion, "./saml:Subject")
	if err != nil {
		return nil, wrapElementLookup(err)
	}
	nameIDEl, err := xmlutil.FindOrRaise(subject, "./saml:NameID")
	if err != nil {
		return nil, wrapElementLookup(err)
	}
	nameID := nameIDEl.Text()

	subjectConfirmation, err := xmlutil.FindOrRaise(subject, "./saml:SubjectConfirmation")
	if err != nil {
		return nil, wrapElementLookup(err)
	}
	confirmationData, err := xmlutil.FindOrRaise(subjectConfirmation, "./saml:SubjectConfirmationData")
	if err != nil {
		return nil, wrapElementLookup(err)
	}
	inResponseTo := ""
	if attr := confirmationData.SelectAttr("InResponseTo"); attr != nil {
		inResponseTo = attr.Value
	}

	conditions, err := xmlutil.FindOrRaise(assertion, "./saml:Conditions")
	if err != nil {
		return nil, wrapElementLookup(err)
	}
	notBeforeAttr := conditions.SelectAttr("NotBefore")
	notOnOrAfterAttr := conditions.SelectAttr("NotOnOrAfter")
	if notBeforeAttr == nil || notOnOrAfterAttr == nil {
		return nil, trace.Wrap(&MalformedResponseError{Reason: "Conditions missing NotBefore or NotOnOrAfter"})
	}
	notBefore, err := samltime.Parse(notBeforeAttr.Value)
	if err != nil {
		return nil, trace.Wrap(&MalformedResponseError{Reason: "invalid NotBefore: " + err.Error()})
	}
	notOnOrAfter, err := samltime.Parse(notOnOrAfterAttr.Value)
	if err != nil {
		return nil, trace.Wrap(&MalformedResponseError{Reason: "invalid NotOnOrAfter: " + err.Error()})
	}

	if now.Add(drift.NotBeforeMaxDrift).Before(notBefore) {
		return nil, trace.Wrap(&ResponseTooEarlyError{Observed: now, NotBefore: notBefore})
	}
	if !now.Add(-drift.NotOnOrAfterMaxDrift).Before(notOnOrAfter) {
		return nil, trace.Wrap(&ResponseExpiredError{Observed: now, NotOnOrAfter: notOnOrAfter})
	}

	audienceRestriction, err := xmlutil.FindOrRaise(conditions, "./saml:AudienceRestriction")
	if err != nil {
		return nil, wrapElementLookup(err)
	}
	audienceEl, err := xmlutil.FindOrRaise(audienceRestriction, "./saml:Audience")
	if err != nil {
		return nil, wrapElementLookup(err)
	}
	audience := audienceEl.Text()
	if audience != expectedAudience {
		return nil, trace.Wrap(&AudienceMismatchError{Received: audience, Expected: expectedAudience})
	}

	authnStatement, err := xmlutil.FindOrRaise(assertion, "./saml:AuthnStatement")
	if err != nil {
		return nil, wrapElementLookup(err)
	}
	var sessionNotOnOrAfter *time.Time
	if attr := authnStatement.SelectAttr("SessionNotOnOrAfter"); attr != nil {
		t, err := samltime.Parse(attr.Value)
		if err != nil {
			return nil, trace.Wrap(&MalformedResponseError{Reason: "invalid SessionNotOnOrAfter: " + err.Error()})
		}
		sessionNotOnOrAfter = &t
	}

	attributes, err := collectAttributes(assertion)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	return &Response{
		Issuer:              issuer,
		NameID:              nameID,
		Audience:            audience,
		Attributes:          attributes,
		SessionNotOnOrAfter: sessionNotOnOrAfter,
		InResponseTo:        inResponseTo,
		Certificate:         anchor,
	}, nil
}

// collectAttributes reads ./saml:AttributeStatement if present,
// returning its ./saml:Attribute children in document order. Absence
// of AttributeStatement is not an error; an empty statement yields no
// attributes either.
func collectAttributes(assertion *etree.Element) ([]Attribute, error) {
	statement := xmlutil.FindOptional(assertion, "./saml:AttributeStatement")
	if statement == nil {
		return nil, nil
	}

	var attributes []Attribute
	for _, attrEl := range statement.ChildElements() {
		if attrEl.Tag != "Attribute" || attrEl.NamespaceURI() != NamespaceAssertion {
			continue
		}
		nameAttr := attrEl.SelectAttr("Name")
		if nameAttr == nil || nameAttr.Value == "" {
			return nil, &MalformedResponseError{Reason: "Attribute missing required Name"}
		}

		format := ""
		extra := map[string]string{}
		for _, a := range attrEl.Attr {
			switch a.Key {
			case "Name":
				// already captured
			case "NameFormat":
				format = a.Value
			default:
				extra[a.Key] = a.Value
			}
		}

		var values []string
		for _, valueEl := range attrEl.ChildElements() {
			if valueEl.Tag != "AttributeValue" || valueEl.NamespaceURI() != NamespaceAssertion {
				continue
			}
			values = append(values, valueEl.Text())
		}

		attributes = append(attributes, Attribute{
			Name:            nameAttr.Value,
			Values:          values,
			Format:          format,
			ExtraAttributes: extra,
		})
	}
	return attributes, nil
}

func mapSignatureError(err error) error {
	switch e := err.(type) {
	case *sigverify.ErrMalformedXML:
		return trace.Wrap(&MalformedResponseError{Reason: e.Error()})
	case *sigverify.ErrUnsupportedAlgorithm:
		return trace.Wrap(&UnsupportedAlgorithmError{Algorithm: e.Algorithm})
	case *sigverify.ErrSignatureMismatch:
		return trace.Wrap(&SignatureMismatchError{})
	default:
		return trace.Wrap(err)
	}
}
