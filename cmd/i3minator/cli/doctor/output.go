// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"fmt"
	"io"
	"strings"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
)

// PrintChecklist prints check results as a human-readable checklist
// and returns an ExitError when a check still fails.
func PrintChecklist(w io.Writer, results []Result, fixMode, dryRun bool, outcome Outcome) error {
	anyFailed := false
	fixableCount := 0

	for _, result := range results {
		prefix := strings.ToUpper(string(result.Status))
		fmt.Fprintf(w, "[%-5s]  %-24s  %s\n", prefix, result.Name, result.Message)

		if result.Status != StatusFail {
			continue
		}
		anyFailed = true
		if result.HasFix() {
			fixableCount++
			if dryRun {
				fmt.Fprintf(w, "         %-24s  would fix: %s\n", "", result.FixHint)
			}
		} else if result.FixHint != "" {
			fmt.Fprintf(w, "         %-24s  hint: %s\n", "", result.FixHint)
		}
	}

	fmt.Fprintln(w)

	if anyFailed {
		switch {
		case dryRun && fixableCount > 0:
			fmt.Fprintf(w, "%d issue(s) would be repaired. Run without --dry-run to apply.\n", fixableCount)
		case !fixMode && fixableCount > 0:
			fmt.Fprintf(w, "Run with --fix to repair %d issue(s).\n", fixableCount)
		default:
			fmt.Fprintln(w, "Some checks failed.")
		}
		return &cli.ExitError{Code: 1}
	}

	if outcome.FixedCount > 0 {
		fmt.Fprintf(w, "%d issue(s) repaired.\n", outcome.FixedCount)
		return nil
	}
	fmt.Fprintln(w, "All checks passed.")
	return nil
}
