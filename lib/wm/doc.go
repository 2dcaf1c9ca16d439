// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package wm talks to the i3 window manager over its IPC socket.
//
// Everything above this package depends on the [Conn] interface rather
// than on i3 directly: [Client] implements it on top of
// go.i3wm.org/i3/v4, and package wmtest provides an in-memory fake
// for tests. The i3 tree types are re-exported as aliases so callers
// never import the binding themselves.
//
// Commands are built as strings by the helpers in commands.go
// ([FocusWorkspace], [Exec], [Kill], ...) and sent with [Conn.Run].
// The helpers quote every user-supplied value; never concatenate raw
// workspace names or shell commands into an i3 command.
package wm
