package recognition

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"time"
)

// ErrParse marks recognizer output that could not be decoded.
var ErrParse = errors.New("unparseable recognizer output")

// Token is one detected text fragment.
type Token struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Box        []int   `json:"box,omitempty"`
}

// Recognizer extracts text tokens from an image.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]Token, error)
}

// Warmer is implemented by recognizers that need a one-time initialization.
type Warmer interface {
	Warmup(ctx context.Context) error
}

// ExecRecognizer pipes a PNG to a command and reads JSON tokens from its
// stdout, either as one array or as one object per line.
type ExecRecognizer struct {
	command []string
	warmup  []string
	timeout time.Duration
	exec    Executor
}

// NewExecRecognizer builds a recognizer. warmup may be empty.
func NewExecRecognizer(command, warmup []string, timeout time.Duration, opts ...Option) (*ExecRecognizer, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, errors.New("recognition command required")
	}
	o := applyOptions(opts)
	return &ExecRecognizer{
		command: append([]string(nil), command...),
		warmup:  append([]string(nil), warmup...),
		timeout: timeout,
		exec:    o.exec,
	}, nil
}

// Warmup runs the warmup command, if any.
func (r *ExecRecognizer) Warmup(ctx context.Context) error {
	if len(r.warmup) == 0 {
		return nil
	}
	if _, err := r.exec.Run(ctx, r.warmup[0], r.warmup[1:], nil); err != nil {
		return fmt.Errorf("recognizer warmup: %w", err)
	}
	return nil
}

// Recognize runs the recognizer on img.
func (r *ExecRecognizer) Recognize(ctx context.Context, img image.Image) ([]Token, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	out, err := r.exec.Run(ctx, r.command[0], r.command[1:], buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	return ParseTokens(out)
}

// ParseTokens decodes recognizer output. Empty output is zero tokens.
func ParseTokens(data []byte) ([]Token, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var tokens []Token
		if err := json.Unmarshal(data, &tokens); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return tokens, nil
	}

	var tokens []Token
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var tok Token
		if err := json.Unmarshal(text, &tok); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, line, err)
		}
		tokens = append(tokens, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return tokens, nil
}
