package command

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"libraryconsole/internal/console/panel"
)

// promptConfirmer asks on out and reads a y/N answer from in.
func promptConfirmer(in io.Reader, out io.Writer) panel.Confirmer {
	return panel.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}

var alwaysConfirm = panel.ConfirmFunc(func(string) bool { return true })
