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

// Package samltime encodes and decodes SAML dateTime values.
package samltime

import (
	"fmt"
	"strings"
	"time"
)

const (
	// integerLayout is format (1): YYYY-MM-DDThh:mm:ssZ.
	integerLayout = "2006-01-02T15:04:05Z"
	// fractionalLayout is format (2): YYYY-MM-DDThh:mm:ss.ffffffZ.
	// time.Parse truncates any precision beyond what the layout's
	// fractional-second placeholder specifies, which combined with
	// a 9-digit placeholder and our own microsecond truncation below
	// gives us truncation (never rounding) all the way down.
	fractionalLayout = "2006-01-02T15:04:05.999999999Z"
)

// Parse decodes a SAML dateTime in either the integer-second form
// "YYYY-MM-DDThh:mm:ssZ" or the fractional-second form
// "YYYY-MM-DDThh:mm:ss.ffffffZ", chosen by presence of '.'. The
// result is UTC, truncated to microsecond precision (sub-microsecond
// digits, if present, are dropped, never rounded).
func Parse(s string) (time.Time, error) {
	layout := integerLayout
	if strings.Contains(s, ".") {
		layout = fractionalLayout
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse SAML dateTime %q: %w", s, err)
	}
	return t.UTC().Truncate(time.Microsecond), nil
}

// Format encodes t in the integer-second form "YYYY-MM-DDThh:mm:ssZ".
func Format(t time.Time) string {
	return t.UTC().Format(integerLayout)
}
