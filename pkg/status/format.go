package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 35 // Base width for filename
	outcomeWidth = 12 // Width for the outcome word
)

// 🎯 FormatFileLine formats a single file outcome for display
func FormatFileLine(path string, outcome Outcome) string {
	// Determine prefix symbol
	var prefix string
	switch outcome {
	case OutcomeCopied:
		prefix = color.GreenString("✓")
	case OutcomeOverwritten:
		prefix = color.YellowString("⟳")
	case OutcomeSkipped:
		prefix = color.HiBlackString("-")
	case OutcomeFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("?")
	}

	// Format parts with padding
	namePart := fmt.Sprintf("%-*s", nameWidth, path)
	outcomePart := fmt.Sprintf("%-*s", outcomeWidth, outcome.String())

	// Build final string with indentation
	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		outcomePart,
	)
}
