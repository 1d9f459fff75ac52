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
	"context"
	"encoding/base64"

	"github.com/beevik/etree"
	"github.com/gravitational/samlsp/internal/xmlutil"
	"github.com/gravitational/trace"
)

// GetConfigFunc resolves the ValidationConfig to use for a given
// unverified issuer, returning arbitrary caller state that is
// propagated unchanged into the result. unverifiedIssuer has not been
// checked against any signature yet and must be used only to select
// trust configuration.
type GetConfigFunc func(unverifiedIssuer string) (ValidationConfig, any, error)

// ValidateMultiTenant peeks the unverified Issuer of data, resolves a
// ValidationConfig for it via getConfig, and delegates to Validate
// using that unverified issuer as the expected issuer. Because
// Validate re-checks the signed assertion's Issuer against that same
// value, an attacker who substitutes the unverified Issuer cannot
// cause the wrong trust anchor to be accepted: either the signature
// check fails (wrong anchor) or the issuer check fails.
//
// If getConfig itself fails, its error is returned unwrapped.
func ValidateMultiTenant(data string, getConfig GetConfigFunc, expectedAudience string) (*Response, any, error) {
	unverifiedIssuer, err := peekIssuer(data)
	if err != nil {
		return nil, nil, trace.Wrap(err)
	}

	cfg, state, err := getConfig(unverifiedIssuer)
	if err != nil {
		return nil, state, err
	}

	resp, err := Validate(data, cfg, expectedAudience, unverifiedIssuer)
	if err != nil {
		return nil, state, trace.Wrap(err)
	}
	return resp, state, nil
}

// peekIssuer decodes data and reads the Issuer of its (unverified)
// Assertion, accepting either a bare saml:Assertion root or a
// samlp:Response wrapping one. This read is untrusted: its only
// legitimate use is dispatching to the right ValidationConfig.
func peekIssuer(data string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", &MalformedResponseError{Reason: "invalid base64: " + err.Error()}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return "", &MalformedResponseError{Reason: "invalid xml: " + err.Error()}
	}
	root := doc.Root()
	if root == nil {
		return "", &MalformedResponseError{Reason: "empty document"}
	}

	var assertion *etree.Element
	switch {
	case root.Tag == "Response" && root.NamespaceURI() == NamespaceProtocol:
		assertion, err = xmlutil.FindOrRaise(root, "./saml:Assertion")
		if err != nil {
			return "", &MalformedResponseError{Reason: "Response has no Assertion"}
		}
	case root.Tag == "Assertion" && root.NamespaceURI() == NamespaceAssertion:
		assertion = root
	default:
		return "", &MalformedResponseError{Reason: "root element is neither samlp:Response nor saml:Assertion"}
	}

	issuerEl, err := xmlutil.FindOrRaise(assertion, "./saml:Issuer")
	if err != nil {
		return "", &MalformedResponseError{Reason: "Assertion has no Issuer"}
	}
	return issuerEl.Text(), nil
}

// GetConfigAsyncFunc is the deferred-mode counterpart of GetConfigFunc:
// instead of resolving immediately, it returns a handle that will
// later yield the config, or fail, or be cancelled.
type GetConfigAsyncFunc func(unverifiedIssuer string) ConfigFuture

// ValidateMultiTenantAsync is the deferred-mode counterpart of
// ValidateMultiTenant. It peeks the unverified issuer synchronously
// (cheap, CPU-only), then returns a ResponseFuture that resolves by:
// awaiting getConfig's handle; on success, running Validate; on
// failure, resolving with that same failure; on cancellation of ctx,
// cancelling the in-flight await.
func ValidateMultiTenantAsync(ctx context.Context, data string, getConfig GetConfigAsyncFunc, expectedAudience string) *ResponseFuture {
	future := newResponseFuture()

	unverifiedIssuer, err := peekIssuer(data)
	if err != nil {
		future.resolve(nil, nil, trace.Wrap(err))
		return future
	}

	configFuture := getConfig(unverifiedIssuer)
	go func() {
		cfg, state, err := configFuture.Await(ctx)
		if err != nil {
			future.resolve(nil, state, err)
			return
		}
		resp, err := Validate(data, cfg, expectedAudience, unverifiedIssuer)
		if err != nil {
			future.resolve(nil, state, trace.Wrap(err))
			return
		}
		future.resolve(resp, state, nil)
	}()

	return future
}
