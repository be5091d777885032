package workspace

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm prints message and waits for an explicit affirmation on in.
// Only "y" or "yes" (case-insensitive) affirm; anything else, including
// EOF, declines. A decline is not an error.
func Confirm(in io.Reader, out io.Writer, message string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s? [y/N] ", message); err != nil {
		return false, err
	}

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
