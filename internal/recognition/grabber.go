package recognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"
	"time"

	"warscout/internal/config"
)

// Grabber captures one screen rectangle.
type Grabber interface {
	Grab(ctx context.Context, rect config.Rect) (image.Image, error)
}

// ExecGrabber runs a capture command that writes a PNG or JPEG to stdout.
// Arguments may contain {x} {y} {w} {h} placeholders and {geometry}, which
// expands to "X,Y WxH".
type ExecGrabber struct {
	command []string
	timeout time.Duration
	exec    Executor
}

// NewExecGrabber builds a grabber for command.
func NewExecGrabber(command []string, timeout time.Duration, opts ...Option) (*ExecGrabber, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, errors.New("capture command required")
	}
	o := applyOptions(opts)
	return &ExecGrabber{
		command: append([]string(nil), command...),
		timeout: timeout,
		exec:    o.exec,
	}, nil
}

// Grab runs the capture command for rect and decodes its output.
func (g *ExecGrabber) Grab(ctx context.Context, rect config.Rect) (image.Image, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	args := expandRect(g.command[1:], rect)
	out, err := g.exec.Run(ctx, g.command[0], args, nil)
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", rect, err)
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode capture %s: %w", rect, err)
	}
	return img, nil
}

func expandRect(args []string, rect config.Rect) []string {
	replacer := strings.NewReplacer(
		"{x}", strconv.Itoa(rect.X),
		"{y}", strconv.Itoa(rect.Y),
		"{w}", strconv.Itoa(rect.Width),
		"{h}", strconv.Itoa(rect.Height),
		"{geometry}", fmt.Sprintf("%d,%d %dx%d", rect.X, rect.Y, rect.Width, rect.Height),
	)
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = replacer.Replace(arg)
	}
	return out
}
