package outwriter

import (
	"os"

	"github.com/huangsam/changetree/internal/contract"
	"github.com/huangsam/changetree/schema"
	"golang.org/x/term"
)

const (
	defaultTermWidth  = 80 // Conservative default for narrow terminals and CI
	fixedColumnsWidth = 50 // Kind + Count + Share + Label with borders/padding
	minPathWidth      = 15
	maxPathWidth      = 70
	minBarWidth       = 10
	maxBarWidth       = 40
)

// terminalWidth returns the width override, the detected terminal width, or a default.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return defaultTermWidth
	}
	return detectedWidth
}

// ResolveBarWidth returns the indicator width for table output. An explicit
// bar width wins; otherwise a third of the space left by the fixed columns is used.
func ResolveBarWidth(cfg *contract.Config) int {
	if cfg.BarWidth > 0 {
		return min(cfg.BarWidth, schema.ReferenceIndicatorWidth)
	}
	available := terminalWidth(cfg) - fixedColumnsWidth
	return min(max(available/3, minBarWidth), maxBarWidth)
}

// GetMaxTablePathWidth calculates the maximum width for paths in table output
// based on terminal width and the indicator column.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	available := terminalWidth(cfg) - fixedColumnsWidth - ResolveBarWidth(cfg)
	return min(max(available, minPathWidth), maxPathWidth)
}
