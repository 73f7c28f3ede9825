// Package console renders conversations for terminal use: a colorized sink
// for streamed model output and a memory dump.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/hupe1980/thinkact/core"
)

var (
	streamColor = color.New(color.FgGreen)
	roleColors  = map[core.Role]*color.Color{
		core.RoleSystem:    color.New(color.FgHiBlack),
		core.RoleUser:      color.New(color.FgCyan),
		core.RoleAssistant: color.New(color.FgGreen),
		core.RoleTool:      color.New(color.FgYellow),
	}
)

// StreamWriter colors everything written to it before forwarding to W.
type StreamWriter struct {
	W io.Writer
}

// NewStreamWriter returns a StreamWriter over w.
func NewStreamWriter(w io.Writer) *StreamWriter { return &StreamWriter{W: w} }

// Write implements io.Writer. It reports len(p) on success so callers see a
// complete write even though color codes add bytes.
func (s *StreamWriter) Write(p []byte) (int, error) {
	if _, err := streamColor.Fprint(s.W, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// RenderMessage formats one message as "role: content". Tool calls and tool
// results name the function involved.
func RenderMessage(m core.Message) string {
	c, ok := roleColors[m.Role]
	if !ok {
		c = color.New(color.Reset)
	}

	var body strings.Builder
	switch {
	case m.HasToolCall():
		if m.Content != "" {
			body.WriteString(m.Content)
			body.WriteString(" ")
		}
		fmt.Fprintf(&body, "%s %s(%s)", color.HiBlackString("call"), m.ToolCall.Name, m.ToolCall.Arguments)
	case m.Role == core.RoleTool:
		fmt.Fprintf(&body, "%s %s", color.HiBlackString(m.ToolName+" =>"), m.Content)
	default:
		body.WriteString(m.Content)
	}

	return c.Sprintf("%s:", m.Role) + " " + body.String()
}

// RenderMemory formats a full memory dump, one message per line.
func RenderMemory(msgs []core.Message) string {
	var sb strings.Builder
	sb.WriteString(color.CyanString("Memory (%d messages)\n", len(msgs)))
	for i, m := range msgs {
		fmt.Fprintf(&sb, "%s %s\n", color.HiBlackString("%3d", i), RenderMessage(m))
	}
	return sb.String()
}

// Error formats err for the terminal.
func Error(err error) string {
	return color.RedString("error: %v", err)
}
