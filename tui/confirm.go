package tui

import (
	"bufio"
	"io"
	"os"
	"strings"

	fmt "github.com/jhunt/go-ansi"
)

func Confirm(prompt string) bool {
	return confirm(bufio.NewReader(os.Stdin), os.Stdout, prompt)
}

func confirm(in *bufio.Reader, out io.Writer, prompt string) bool {
	for {
		fmt.Fprintf(out, "@Y{%s [y/n]} ", prompt)
		v, err := in.ReadString('\n')
		if err != nil && (err != io.EOF || v == "") {
			fmt.Fprintf(os.Stderr, "failed: @R{%s}\n", err)
			return false
		}

		switch strings.TrimSpace(v) {
		case "Y", "y", "yes":
			return true
		case "N", "n", "no":
			return false
		}
	}
}
