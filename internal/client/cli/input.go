package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	return readLine(reader)
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password without
// echo when stdin is a terminal. Piped input is read as a plain line from
// reader.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(reader *bufio.Reader, w io.Writer) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := GetSimpleText(reader, "Enter password:", w)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered (i.e., the user presses Enter twice). The trailing newline
// on each line is trimmed and the collected text is joined with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetNumber reads an integer; an empty answer yields def.
func GetNumber(reader *bufio.Reader, prompt string, def int, w io.Writer) (int, error) {
	s, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return n, nil
}
