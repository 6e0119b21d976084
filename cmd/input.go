package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// readPassword is a seam so tests can substitute terminal input.
var readPassword = term.ReadPassword

// getPassword prompts on stderr and reads a password without echoing it.
func getPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	data, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(data), nil
}
