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

package samltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseIntegerSeconds(t *testing.T) {
	got, err := Parse("2020-01-16T14:32:31Z")
	require.NoError(t, err)
	want := time.Date(2020, 1, 16, 14, 32, 31, 0, time.UTC)
	require.True(t, want.Equal(got))
}

func TestParseFractionalSeconds(t *testing.T) {
	got, err := Parse("2013-03-18T08:48:15.128Z")
	require.NoError(t, err)
	want := time.Date(2013, 3, 18, 8, 48, 15, 128_000_000, time.UTC)
	require.True(t, want.Equal(got))
}

func TestParseTruncatesSubMicrosecondDigits(t *testing.T) {
	// 9 fractional digits: nanosecond precision in the wire value,
	// must be truncated (not rounded) down to microseconds.
	got, err := Parse("2013-03-18T08:48:15.128999999Z")
	require.NoError(t, err)
	want := time.Date(2013, 3, 18, 8, 48, 15, 128_999_000, time.UTC)
	require.True(t, want.Equal(got))
}

// TestAzureADMicrosecondPrecision pins the exact scenario S5 from the
// spec: a NotOnOrAfter of 08:48:15.128Z must compare strictly greater
// than 08:48:15.127000Z and not greater than 08:48:15.128000Z.
func TestAzureADMicrosecondPrecision(t *testing.T) {
	deadline, err := Parse("2013-03-18T08:48:15.128Z")
	require.NoError(t, err)

	before, err := Parse("2013-03-18T08:48:15.127000Z")
	require.NoError(t, err)
	require.True(t, before.Before(deadline))

	atDeadline, err := Parse("2013-03-18T08:48:15.128000Z")
	require.NoError(t, err)
	require.True(t, atDeadline.Equal(deadline))
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("not-a-time")
	require.Error(t, err)
}

func TestFormatRoundTrip(t *testing.T) {
	want := time.Date(2020, 9, 14, 14, 20, 11, 0, time.UTC)
	require.Equal(t, "2020-09-14T14:20:11Z", Format(want))

	got, err := Parse(Format(want))
	require.NoError(t, err)
	require.True(t, want.Equal(got))
}

func TestFormatTruncatesFractionalInput(t *testing.T) {
	withFraction := time.Date(2020, 9, 14, 14, 20, 11, 500_000_000, time.UTC)
	require.Equal(t, "2020-09-14T14:20:11Z", Format(withFraction))
}
