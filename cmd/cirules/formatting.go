package cirules

import (
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/cirules/pkg/style"
	"github.com/arthur-debert/cirules/pkg/ui"
	"github.com/spf13/cobra"
)

// styledHelp reports whether help text may carry ANSI styling. It follows
// the same rules as --format auto.
func styledHelp() bool {
	return ui.DetectFormat(os.Stdout) == ui.FormatTerminal
}

func formatBold(s string) string {
	if !styledHelp() {
		return s
	}
	return style.Bold(s)
}

// initTemplateFormatting adds the helpers used by the usage template
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     strings.ToUpper,
		"boldUpper": func(s string) string { return formatBold(strings.ToUpper(s)) },
	})
}
