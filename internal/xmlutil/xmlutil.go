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

// Package xmlutil provides namespace-aware child lookup over
// beevik/etree trees, scoped to the fixed SAML protocol/assertion
// namespace map this module needs. It is not a general XPath engine.
package xmlutil

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

const (
	protocolNS  = "urn:oasis:names:tc:SAML:2.0:protocol"
	assertionNS = "urn:oasis:names:tc:SAML:2.0:assertion"
)

// namespaces maps the fixed prefixes this module understands to their
// namespace URIs. Only "samlp" and "saml" are recognized; paths using
// any other prefix are a programmer error, not a runtime condition.
var namespaces = map[string]string{
	"samlp": protocolNS,
	"saml":  assertionNS,
}

// ErrElementNotFound is returned by FindOrRaise when path has no
// match under the given element.
type ErrElementNotFound struct {
	Path string
}

func (e *ErrElementNotFound) Error() string {
	return fmt.Sprintf("element not found: %s", e.Path)
}

// FindOrRaise resolves path against el using the fixed samlp/saml
// namespace map. path is a sequence of "./ns:Local/ns:Local" steps.
// At each step it takes the first matching child in document order,
// so several matches are not an error. It returns the matching
// descendant or ErrElementNotFound.
func FindOrRaise(el *etree.Element, path string) (*etree.Element, error) {
	found := FindOptional(el, path)
	if found == nil {
		return nil, &ErrElementNotFound{Path: path}
	}
	return found, nil
}

// FindOptional resolves path the same way as FindOrRaise but returns
// nil instead of an error when there is no match.
func FindOptional(el *etree.Element, path string) *etree.Element {
	steps, ok := parsePath(path)
	if !ok {
		return nil
	}
	cur := el
	for _, step := range steps {
		cur = findChild(cur, step)
		if cur == nil {
			return nil
		}
	}
	return cur
}

type step struct {
	namespaceURI string
	local        string
}

func parsePath(path string) ([]step, bool) {
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, "/")
	steps := make([]step, 0, len(parts))
	for _, part := range parts {
		prefix, local, ok := strings.Cut(part, ":")
		if !ok {
			return nil, false
		}
		ns, ok := namespaces[prefix]
		if !ok {
			return nil, false
		}
		steps = append(steps, step{namespaceURI: ns, local: local})
	}
	return steps, true
}

func findChild(el *etree.Element, s step) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == s.local && child.NamespaceURI() == s.namespaceURI {
			return child
		}
	}
	return nil
}
