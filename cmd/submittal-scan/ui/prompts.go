package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Prompt asks the user for input with a prompt message.
func Prompt(message string) (string, error) {
	fmt.Fprintf(os.Stdout, "%s: ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// PromptInt asks the user for an integer input.
func PromptInt(message string) (int, error) {
	input, err := Prompt(message)
	if err != nil {
		return 0, err
	}

	var value int
	if _, err := fmt.Sscanf(input, "%d", &value); err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}
	return value, nil
}
