// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import "context"

// Status is the outcome of a single health check.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusWarn  Status = "warn"
	StatusSkip  Status = "skip"
	StatusFixed Status = "fixed"
)

// FixAction repairs a failed check.
type FixAction func(ctx context.Context) error

// Result is the outcome of one check.
type Result struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	FixHint string `json:"fix_hint,omitempty"`
	fix     FixAction
}

// HasFix reports whether this result carries a fix action.
func (r *Result) HasFix() bool {
	return r.fix != nil
}

// Pass reports a check that found nothing wrong.
func Pass(name, message string) Result { return Result{Name: name, Status: StatusPass, Message: message} }

// Fail reports a problem the user has to repair. hint may be empty.
func Fail(name, message, hint string) Result {
	return Result{Name: name, Status: StatusFail, Message: message, FixHint: hint}
}

// FailWithFix reports a problem that "doctor --fix" repairs by calling
// fix. hint describes the repair for --dry-run.
func FailWithFix(name, message, hint string, fix FixAction) Result {
	result := Fail(name, message, hint)
	result.fix = fix
	return result
}

// Warn reports a problem that does not fail the command.
func Warn(name, message string) Result { return Result{Name: name, Status: StatusWarn, Message: message} }

// Skip reports a check that could not run.
func Skip(name, message string) Result { return Result{Name: name, Status: StatusSkip, Message: message} }

// Outcome summarizes a fix pass.
type Outcome struct {
	FixedCount int
}

// JSONOutput is what "doctor --json" prints.
type JSONOutput struct {
	Checks []Result `json:"checks"`
	OK     bool     `json:"ok"`
	DryRun bool     `json:"dry_run,omitempty"`
}

// BuildJSON assembles the JSON output. OK is false when any check
// still fails.
func BuildJSON(results []Result, dryRun bool) JSONOutput {
	output := JSONOutput{Checks: results, OK: true, DryRun: dryRun}
	for _, result := range results {
		if result.Status == StatusFail {
			output.OK = false
		}
	}
	return output
}
