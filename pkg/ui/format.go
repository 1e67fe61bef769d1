package ui

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format names an output format. The zero value is FormatAuto.
type Format string

const (
	FormatAuto     Format = ""
	FormatTerminal Format = "term"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

var aliases = map[string]Format{
	"auto":     FormatAuto,
	"term":     FormatTerminal,
	"terminal": FormatTerminal,
	"text":     FormatText,
	"plain":    FormatText,
	"json":     FormatJSON,
}

// Formats lists the values accepted by --format, for help and completion
func Formats() []string {
	return []string{"auto", string(FormatTerminal), string(FormatText), string(FormatJSON)}
}

func (f Format) String() string {
	if f == FormatAuto {
		return "auto"
	}
	return string(f)
}

// ParseFormat accepts any of Formats and the aliases "terminal" and
// "plain", case insensitively. An empty string is auto.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatAuto, nil
	}
	if f, ok := aliases[strings.ToLower(s)]; ok {
		return f, nil
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s).
		WithDetail("format", s).
		WithDetail("accepted", Formats())
}

// DetectFormat resolves auto for output. Anything but a colour capable
// terminal gets plain text. NO_COLOR wins over CLICOLOR_FORCE, which wins
// over terminal detection.
func DetectFormat(output io.Writer) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		return FormatTerminal
	}

	file, ok := output.(*os.File)
	if !ok || (!isatty.IsTerminal(file.Fd()) && !isatty.IsCygwinTerminal(file.Fd())) {
		return FormatText
	}
	if termenv.NewOutput(file).EnvColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
