package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/koeppern/gtd-system-sub000/internal/core"
)

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

// promptConfirm asks on out and reads the answer from in. Without a
// terminal there is nobody to ask and the answer is no.
func promptConfirm(in io.Reader, out io.Writer, interactive bool) core.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(message string) bool {
		if !interactive {
			fmt.Fprintf(out, "%s Not a terminal, use --force to confirm.\n", message)
			return false
		}
		fmt.Fprintf(out, "%s [y/N] ", message)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		return response == "y" || response == "yes"
	}
}
