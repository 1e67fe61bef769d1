package style

import (
	"github.com/arthur-debert/cirules/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

var palette = DefaultPalette

// Report styles
var (
	TitleStyle    = lipgloss.NewStyle().Foreground(palette.Heading).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(palette.Heading).Underline(true)
	NormalStyle   = lipgloss.NewStyle().Foreground(palette.Text)
	MutedStyle    = lipgloss.NewStyle().Foreground(palette.Muted)

	SuccessStyle = lipgloss.NewStyle().Foreground(palette.Included).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(palette.Failed).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(palette.Warning).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(palette.Note)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Border).
			Padding(0, 1)

	JobNameStyle = lipgloss.NewStyle().Foreground(palette.Job).Bold(true)
	StageStyle   = lipgloss.NewStyle().Foreground(palette.Stage).Italic(true)
	CodeStyle    = lipgloss.NewStyle().Foreground(palette.Job)
)

// Indicators
var (
	SuccessIndicator = SuccessStyle.Render("✓")
	ErrorIndicator   = ErrorStyle.Render("✗")
	WarningIndicator = WarningStyle.Render("!")
	InfoIndicator    = InfoStyle.Render("•")
	SkippedIndicator = MutedStyle.Render("○")
)

var whenStyles = map[types.When]lipgloss.Style{
	types.WhenOnSuccess: lipgloss.NewStyle().Foreground(palette.Included),
	types.WhenOnFailure: lipgloss.NewStyle().Foreground(palette.Failed),
	types.WhenAlways:    lipgloss.NewStyle().Foreground(palette.Always),
	types.WhenManual:    lipgloss.NewStyle().Foreground(palette.Manual).Bold(true),
	types.WhenDelayed:   lipgloss.NewStyle().Foreground(palette.Delayed).Bold(true),
	types.WhenNever:     MutedStyle,
}

// WhenStyle returns the style a job's when value is rendered with
func WhenStyle(w types.When) lipgloss.Style {
	if s, ok := whenStyles[w]; ok {
		return s
	}
	return NormalStyle
}

// RenderWhen renders w with its style
func RenderWhen(w types.When) string {
	return WhenStyle(w).Render(string(w))
}

// Indent pads every line of s by two spaces per level
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}

func Bold(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}
