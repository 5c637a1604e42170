package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks line-oriented questions on a reader/writer pair.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewPrompter creates a prompter reading answers from in and writing
// questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Text asks for a string. An empty answer returns defaultValue.
func (p *Prompter) Text(question, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", question, defaultValue)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}

	input, err := p.readLine()
	if err != nil {
		return "", err
	}
	if input == "" {
		return defaultValue, nil
	}
	return input, nil
}

// Confirm asks a yes/no question. An empty answer returns defaultYes.
// Unrecognized answers are asked again.
func (p *Prompter) Confirm(question string, defaultYes bool) (bool, error) {
	choices := "y/N"
	if defaultYes {
		choices = "Y/n"
	}

	for {
		fmt.Fprintf(p.out, "%s [%s]: ", question, choices)

		input, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(input) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// readLine returns the next trimmed line. EOF after a partial line is not an
// error; EOF with nothing read is.
func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
