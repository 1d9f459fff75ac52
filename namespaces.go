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

const (
	// NamespaceProtocol is the SAML 2.0 protocol XML namespace, prefix "samlp".
	NamespaceProtocol = "urn:oasis:names:tc:SAML:2.0:protocol"
	// NamespaceAssertion is the SAML 2.0 assertion XML namespace, prefix "saml".
	NamespaceAssertion = "urn:oasis:names:tc:SAML:2.0:assertion"

	// BindingHTTPRedirect is the HTTP-Redirect binding URI.
	BindingHTTPRedirect = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Redirect"
	// BindingHTTPPOST is the HTTP-POST binding URI.
	BindingHTTPPOST = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-POST"

	// NameIDFormatUnspecified is the only NameID policy this profile requests.
	NameIDFormatUnspecified = "urn:oasis:names:tc:SAML:1.1:nameid-format:unspecified"

	// samlVersion is the fixed AuthnRequest/Response protocol version.
	samlVersion = "2.0"
)
