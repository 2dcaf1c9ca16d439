// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor holds the check result types and the checklist output
// of "i3minator doctor". Checks build [Result] values with [Pass],
// [Fail], [FailWithFix], [Warn] or [Skip]; [ExecuteFixes] applies the
// fixable ones under --fix and [PrintChecklist] renders the outcome.
package doctor
