package command

import (
	"fmt"
	"io"
	"strings"

	"libraryconsole/internal/console/panel"

	"github.com/fatih/color"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
)

// printView renders a panel list the way the web console does: one line per
// entity, or the inline error in place of the list.
func printView(w io.Writer, v panel.View) {
	headerColor.Fprintf(w, "📚 %s (%d)\n", v.Title, len(v.Rows))
	fmt.Fprintln(w, strings.Repeat("─", 57))

	if v.Error != "" {
		errorColor.Fprintln(w, v.Error)
		return
	}
	if len(v.Rows) == 0 {
		fmt.Fprintf(w, "No %s found\n", strings.ToLower(v.Title))
		return
	}
	for _, row := range v.Rows {
		fmt.Fprintln(w, row.Summary)
	}
}

func printAlert(w io.Writer, alert string) {
	if alert == "" {
		return
	}
	errorColor.Fprintf(w, "❌ %s\n", alert)
}

func printSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✅ "+format+"\n", args...)
}
