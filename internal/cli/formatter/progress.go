package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/diarycard/internal/flow"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a flow progress bar like [████░░░░] 45%.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	empty := width - filled

	bar := StyleHeader.Render(strings.Repeat(filledBlock, filled)) + StyleDim.Render(strings.Repeat(emptyBlock, empty))
	return fmt.Sprintf("[%s] %3.0f%%", bar, pct*100)
}

// RenderStepHeader renders the title block shown above every step view:
// icon, title, "Step n of N", the progress bar and the step description.
func RenderStepHeader(step flow.Step, pos, total int, pct float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n", step.Icon, StyleHeader.Render(step.Title), Dim(fmt.Sprintf("Step %d of %d", pos+1, total)))
	b.WriteString(RenderProgress(pct, 24))
	b.WriteString("\n")
	if step.Description != "" {
		b.WriteString(Dim(step.Description))
		b.WriteString("\n")
	}
	return b.String()
}
