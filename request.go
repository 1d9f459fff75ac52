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
	"bytes"
	"compress/flate"
	"crypto/rand"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/gravitational/samlsp/samltime"
	"github.com/gravitational/trace"
	"github.com/jonboulle/clockwork"
)

// requestIDEntropyBytes is 128 bits, the spec's minimum entropy floor
// for a generated AuthnRequest ID.
const requestIDEntropyBytes = 16

// RequestConfig configures BuildRedirectURL.
type RequestConfig struct {
	// SAMLEndpoint is the IdP's SSO endpoint. Expected to be
	// query-free; any existing query is replaced, not merged.
	SAMLEndpoint string
	// ExpectedAudience is this SP's entity ID, carried as the
	// AuthnRequest's Issuer.
	ExpectedAudience string
	// ACSURL is the AssertionConsumerServiceURL the IdP should POST
	// the response back to.
	ACSURL string
	// ForceReauthentication sets ForceAuthn="true" when true.
	ForceReauthentication bool
	// RequestID overrides the generated AuthnRequest ID. If empty, a
	// fresh ID with at least 128 bits of entropy is generated.
	RequestID string
	// RelayState, if non-empty, is appended as the RelayState query
	// parameter, unchanged.
	RelayState string
	// Clock is the source of "current UTC instant" used for
	// IssueInstant. Defaults to the real wall clock if nil.
	Clock clockwork.Clock
}

func (c RequestConfig) clock() clockwork.Clock {
	if c.Clock != nil {
		return c.Clock
	}
	return clockwork.NewRealClock()
}

// authnRequestXML is the <samlp:AuthnRequest> tree built by
// BuildRedirectURL. Field order is significant: encoding/xml emits
// attributes and children in declaration order, which is what makes
// BuildRedirectURL's output byte-identical for identical inputs.
type authnRequestXML struct {
	XMLName                     xml.Name        `xml:"samlp:AuthnRequest"`
	XMLNSSAMLP                  string          `xml:"xmlns:samlp,attr"`
	XMLNSSAML                   string          `xml:"xmlns:saml,attr"`
	ID                          string          `xml:"ID,attr"`
	Version                     string          `xml:"Version,attr"`
	IssueInstant                string          `xml:"IssueInstant,attr"`
	ProtocolBinding             string          `xml:"ProtocolBinding,attr"`
	AssertionConsumerServiceURL string          `xml:"AssertionConsumerServiceURL,attr"`
	ForceAuthn                  string          `xml:"ForceAuthn,attr,omitempty"`
	Issuer                      issuerXML       `xml:"saml:Issuer"`
	NameIDPolicy                nameIDPolicyXML `xml:"samlp:NameIDPolicy"`
}

type issuerXML struct {
	Value string `xml:",chardata"`
}

type nameIDPolicyXML struct {
	Format string `xml:"Format,attr"`
}

// BuildRedirectURL composes an AuthnRequest, serializes it, compresses
// it with raw DEFLATE, base64url-encodes the result, and returns the
// full HTTP-Redirect binding URL (cfg.SAMLEndpoint with its query
// replaced by SAMLRequest and, if set, RelayState).
func BuildRedirectURL(cfg RequestConfig) (string, error) {
	requestID := cfg.RequestID
	if requestID == "" {
		var err error
		requestID, err = generateRequestID()
		if err != nil {
			return "", trace.Wrap(err, "generate AuthnRequest ID")
		}
	}

	forceAuthn := ""
	if cfg.ForceReauthentication {
		forceAuthn = "true"
	}

	req := authnRequestXML{
		XMLNSSAMLP:                  NamespaceProtocol,
		XMLNSSAML:                   NamespaceAssertion,
		ID:                          requestID,
		Version:                     samlVersion,
		IssueInstant:                samltime.Format(cfg.clock().Now()),
		ProtocolBinding:             BindingHTTPPOST,
		AssertionConsumerServiceURL: cfg.ACSURL,
		ForceAuthn:                  forceAuthn,
		Issuer:                      issuerXML{Value: cfg.ExpectedAudience},
		NameIDPolicy:                nameIDPolicyXML{Format: NameIDFormatUnspecified},
	}

	data, err := xml.Marshal(req)
	if err != nil {
		return "", trace.Wrap(err, "marshal AuthnRequest")
	}

	compressed, err := deflateRaw(data)
	if err != nil {
		return "", trace.Wrap(err, "compress AuthnRequest")
	}

	encoded := base64.URLEncoding.EncodeToString(compressed)

	endpoint, err := url.Parse(cfg.SAMLEndpoint)
	if err != nil {
		return "", trace.Wrap(err, "parse SAML endpoint")
	}
	if endpoint.Path == "" {
		endpoint.Path = "/"
	}

	rawQuery := "SAMLRequest=" + url.QueryEscape(encoded)
	if cfg.RelayState != "" {
		rawQuery += "&RelayState=" + url.QueryEscape(cfg.RelayState)
	}
	endpoint.RawQuery = rawQuery

	return endpoint.String(), nil
}

func deflateRaw(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func generateRequestID() (string, error) {
	buf := make([]byte, requestIDEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	// XML NCName IDs may not start with a digit; "_" is a safe,
	// conventional prefix (mirrors dexidp/dex's "_" + uuidv4()). The
	// unpadded encoding keeps "=" out of the ID.
	return "_" + base64.RawURLEncoding.EncodeToString(buf), nil
}
