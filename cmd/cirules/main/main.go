package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/cirules/cmd/cirules"
	"github.com/arthur-debert/cirules/pkg/errors"
	"github.com/arthur-debert/cirules/pkg/style"
)

func main() {
	rootCmd := cirules.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !cirules.IsReported(err) {
			for _, msg := range errors.Messages(err) {
				fmt.Fprintln(os.Stderr, style.ErrorStyle.Render("Error: "+msg))
			}
		}
		os.Exit(1)
	}
}
