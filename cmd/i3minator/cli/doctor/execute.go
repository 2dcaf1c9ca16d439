// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"fmt"
)

// ExecuteFixes runs the fix action of each fixable failure, updating
// results in place. In dry-run mode nothing is executed.
func ExecuteFixes(ctx context.Context, results []Result, dryRun bool) Outcome {
	var outcome Outcome
	if dryRun {
		return outcome
	}
	for i := range results {
		if results[i].Status != StatusFail || results[i].fix == nil {
			continue
		}
		if err := results[i].fix(ctx); err != nil {
			results[i].Message = fmt.Sprintf("%s (fix failed: %v)", results[i].Message, err)
			continue
		}
		results[i].Status = StatusFixed
		outcome.FixedCount++
	}
	return outcome
}
