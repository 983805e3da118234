package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"warscout/internal/monitor"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// statusPrinter writes one line per change of monitor state. A report that
// stays on screen is announced once, not on every tick.
type statusPrinter struct {
	out      io.Writer
	colorize bool
	last     string
}

func (p *statusPrinter) print(status monitor.Status) {
	key := fmt.Sprintf("%s|%s|%s", status.State, status.Message, status.Hash)
	if key == p.last {
		return
	}
	p.last = key
	if line := monitorStatusLine(status, p.colorize); line != "" {
		fmt.Fprintln(p.out, line)
	}
}

func monitorStatusLine(status monitor.Status, colorize bool) string {
	label := status.At.Local().Format("15:04:05")
	switch {
	case status.State == monitor.Recognized:
		msg := fmt.Sprintf("%s  %s", status.Player, strings.Join(status.Generals, " | "))
		if !status.Created {
			return renderStatusLine(label, statusInfo, "seen again: "+msg, colorize)
		}
		return renderStatusLine(label, statusOK, "recorded: "+msg, colorize)
	case status.State == monitor.Blocked:
		return renderStatusLine(label, statusWarn, status.Message, colorize)
	case status.Err != nil:
		return renderStatusLine(label, statusError, fmt.Sprintf("%s: %v", status.Message, status.Err), colorize)
	case status.Message != "":
		return renderStatusLine(label, statusInfo, status.Message, colorize)
	default:
		return ""
	}
}
