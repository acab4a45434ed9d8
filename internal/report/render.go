package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true)
	fixStyle   = lipgloss.NewStyle().Faint(true).PaddingLeft(4)
	nameStyle  = lipgloss.NewStyle().Width(20)
)

func symbol(s Status) string {
	switch s {
	case Pass:
		return "✓"
	case Warn:
		return "!"
	default:
		return "✗"
	}
}

// Render formats the report. styled=false produces plain text for pipes
// and logs; styled=true adds color for interactive terminals.
func Render(r Report, styled bool) string {
	var b strings.Builder

	title := "mblaunch readiness report"
	if styled {
		title = titleStyle.Render(title)
	}
	b.WriteString(title)
	b.WriteString("\n")

	for _, check := range r.Checks {
		mark := symbol(check.Status)
		name := check.Name
		if styled {
			switch check.Status {
			case Pass:
				mark = passStyle.Render(mark)
			case Warn:
				mark = warnStyle.Render(mark)
			default:
				mark = failStyle.Render(mark)
			}
			name = nameStyle.Render(name)
		} else {
			name = fmt.Sprintf("%-20s", name)
		}
		fmt.Fprintf(&b, "%s %s %s\n", mark, name, check.Message)
		if check.Fix != "" && check.Status != Pass {
			fix := "fix: " + check.Fix
			if styled {
				fix = fixStyle.Render(fix)
			} else {
				fix = "    " + fix
			}
			b.WriteString(fix)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(Remediation(r.Verdict))
	b.WriteString("\n")
	return b.String()
}
