package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Questions asked for settings that are still missing.
const (
	DatasetQuestion  = "Enter the root directory of the dataset:"
	DevkitQuestion   = "Enter the path to your VOCdevkit directory:"
	PreSplitQuestion = "Is your data already split into training/validation/test sets? y/n"
)

// Prompter asks the operator questions one line at a time.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// Ask writes the question and returns the trimmed answer line.
func (p *Prompter) Ask(question string) (string, error) {
	if _, err := fmt.Fprintln(p.w, question); err != nil {
		return "", err
	}
	line, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("no answer to %q: %w", question, err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Any answer starting with y is a yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Ask(question)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(answer), "y"), nil
}

// Complete asks for the dataset root, the devkit root and whether the
// data is pre-split, in that order, skipping whatever is already set.
func (c *Config) Complete(p *Prompter) error {
	var err error
	for c.Dataset == "" {
		if c.Dataset, err = p.Ask(DatasetQuestion); err != nil {
			return err
		}
	}
	for c.Devkit == "" {
		if c.Devkit, err = p.Ask(DevkitQuestion); err != nil {
			return err
		}
	}
	if c.PreSplit == nil {
		yes, err := p.Confirm(PreSplitQuestion)
		if err != nil {
			return err
		}
		c.PreSplit = &yes
	}
	return nil
}
