// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package connect

import (
	"fmt"
	"time"

	"github.com/blang/semver"
)

/*
	The client connects to the server.
	The client periodically sends a heartbeat to the server to signal it
	is still alive.
	The server notifies the clients of a change.
	The client fetches the change through a different interface.
	The client notifies the the server 5/10 connections have been updated.
	The client notifies the server all active connections are on v X.

	Each heartbeat from the client announces the schema version it is
	running: a semver.Version built from the record catalog's highest
	compatibility-relevant change. The server's heartbeat response
	announces the 5 most recent versions it still serves.

	Upon startup, a client should choose a UUID to send with each request.
	No "connect" message should be sent, if the server doesn't know the UUID,
	it assumes it is effectively "new".

	The client and server should send a "disconnect" message when they want
	to go away, though it is not required.
*/

// NotifyToServer is the client-to-server heartbeat payload.
type NotifyToServer struct {
	Disconnect   bool
	NextAnnounce *time.Time

	SchemaVersion semver.Version
}

// NotifyToClient is the server-to-client heartbeat response payload.
type NotifyToClient struct {
	Disconnect   bool
	NextAnnounce *time.Time

	Stack []AnnouncedVersion
}

// AnnouncedVersion is one schema version the server still serves.
type AnnouncedVersion struct {
	Version   semver.Version
	Current   bool
	Scheduled *time.Time
}

// Notify is the heartbeat transport between a client and the server it
// is connected to.
type Notify interface {
	Subscribe(toServer chan NotifyToServer, toClient chan NotifyToClient) error
}

// Compatible reports whether a client on clientVersion can talk to a
// server serving any of serverVersions: the major version must match
// exactly (a breaking schema change), and the client's minor version
// must not be ahead of every server version (a client built against
// record fields the server has never heard of).
func Compatible(clientVersion semver.Version, serverVersions []AnnouncedVersion) (AnnouncedVersion, error) {
	for _, sv := range serverVersions {
		if sv.Version.Major == clientVersion.Major && clientVersion.Minor <= sv.Version.Minor {
			return sv, nil
		}
	}
	return AnnouncedVersion{}, fmt.Errorf("connect: no server version compatible with client schema v%s", clientVersion)
}
