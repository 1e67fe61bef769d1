package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colours of every element of an evaluation report. Each
// colour adapts to light and dark terminal backgrounds.
type Palette struct {
	Heading lipgloss.AdaptiveColor
	Text    lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor

	Job   lipgloss.AdaptiveColor
	Stage lipgloss.AdaptiveColor

	// Outcomes
	Included lipgloss.AdaptiveColor
	Failed   lipgloss.AdaptiveColor
	Warning  lipgloss.AdaptiveColor
	Note     lipgloss.AdaptiveColor

	// Run policies that need a human or a timer
	Manual  lipgloss.AdaptiveColor
	Delayed lipgloss.AdaptiveColor
	Always  lipgloss.AdaptiveColor
}

// DefaultPalette is used by every style of the package
var DefaultPalette = Palette{
	Heading: lipgloss.AdaptiveColor{Light: "#212529", Dark: "#F8F9FA"},
	Text:    lipgloss.AdaptiveColor{Light: "#495057", Dark: "#E9ECEF"},
	Muted:   lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#ADB5BD"},
	Border:  lipgloss.AdaptiveColor{Light: "#DEE2E6", Dark: "#3B3C4F"},

	Job:   lipgloss.AdaptiveColor{Light: "#007ACC", Dark: "#3D9EFF"},
	Stage: lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#A0A8B0"},

	Included: lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"},
	Failed:   lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"},
	Warning:  lipgloss.AdaptiveColor{Light: "#B58105", Dark: "#FFD54F"},
	Note:     lipgloss.AdaptiveColor{Light: "#17A2B8", Dark: "#4DD0E1"},

	Manual:  lipgloss.AdaptiveColor{Light: "#8B5CF6", Dark: "#A78BFA"},
	Delayed: lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"},
	Always:  lipgloss.AdaptiveColor{Light: "#0EA5E9", Dark: "#38BDF8"},
}
