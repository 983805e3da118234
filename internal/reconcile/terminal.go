package reconcile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Terminal asks conflicts on a line-oriented terminal.
type Terminal struct {
	out     io.Writer
	scanner *bufio.Scanner
}

// NewTerminal reads answers from in and writes prompts to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{out: out, scanner: bufio.NewScanner(in)}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Reconcile prints the conflict and reads the decision, then asks whether
// the chosen name should be trusted. Unrecognized answers are asked again.
func (t *Terminal) Reconcile(ctx context.Context, req Request) (Response, error) {
	fmt.Fprintf(t.out, "\nPlayer name conflict (similarity %.2f)\n", req.Ratio)
	fmt.Fprintf(t.out, "  recognized: %s\n", req.Candidate)
	fmt.Fprintf(t.out, "  known:      %s\n", req.Known)

	var decision Decision
	for decision == 0 {
		answer, err := t.ask(ctx, "[n] use recognized name  [k] keep known name  [d] discard: ")
		if err != nil {
			return Response{}, err
		}
		switch answer {
		case "n", "new":
			decision = KeepCandidate
		case "k", "keep":
			decision = KeepKnown
		case "d", "discard":
			decision = Discard
		}
	}
	if decision == Discard {
		return Response{Decision: Discard}, nil
	}

	chosen := req.Candidate
	if decision == KeepKnown {
		chosen = req.Known
	}
	answer, err := t.ask(ctx, fmt.Sprintf("Trust %q from now on? [y/N]: ", chosen))
	if err != nil {
		return Response{}, err
	}
	return Response{Decision: decision, Trust: answer == "y" || answer == "yes"}, nil
}

func (t *Terminal) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(t.out, prompt)
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", errors.New("read answer: input closed")
	}
	return strings.ToLower(strings.TrimSpace(t.scanner.Text())), nil
}
