// Package ui renders evaluation results, lint results and history in
// terminal (rich), text (plain) or JSON format.
package ui

import (
	"io"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/ui/json"
	"github.com/arthur-debert/cirules/pkg/ui/terminal"
	"github.com/arthur-debert/cirules/pkg/ui/text"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderResult renders *types.Evaluation, lint.Result, *store.Record,
	// []*store.Record or any other value
	RenderResult(result interface{}) error

	// RenderError renders an error, one line per joined error in text formats
	RenderError(err error) error

	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format on output. FormatAuto is
// resolved with DetectFormat.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	if format == FormatAuto {
		format = DetectFormat(output)
	}
	switch format {
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", format)
	}
}
