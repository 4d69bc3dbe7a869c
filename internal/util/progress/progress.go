// Package progress wraps the terminal progress bar so callers can treat it as
// optional.
package progress

import (
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// Add advances the bar by n. A nil bar is a no-op, so unbounded runs skip the
// bar entirely.
func Add(bar *progressbar.ProgressBar, n int) {
	if bar == nil || n == 0 {
		return
	}

	if err := bar.Add(n); err != nil {
		slog.Warn("failed to update progress bar", slog.Any("error", err))
	}
}
