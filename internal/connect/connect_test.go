// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package connect

import (
	"testing"

	"github.com/blang/semver"
	"github.com/stretchr/testify/require"
)

func v(literal string) semver.Version {
	return semver.MustParse(literal)
}

func TestCompatibleMatchesSameMajor(t *testing.T) {
	served := []AnnouncedVersion{
		{Version: v("1.4.0")},
		{Version: v("2.0.0"), Current: true},
	}

	got, err := Compatible(v("1.2.0"), served)
	require.NoError(t, err)
	require.Equal(t, v("1.4.0"), got.Version)
}

func TestCompatibleRejectsMajorMismatch(t *testing.T) {
	served := []AnnouncedVersion{{Version: v("2.0.0")}}
	_, err := Compatible(v("1.2.0"), served)
	require.Error(t, err)
}

func TestCompatibleRejectsClientAheadOnMinor(t *testing.T) {
	// The client was built against record fields no served schema has.
	served := []AnnouncedVersion{{Version: v("1.4.0")}}
	_, err := Compatible(v("1.5.0"), served)
	require.Error(t, err)
}
