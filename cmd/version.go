package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/developerkunal/versioner/internal/resolver"
)

// Version is set by GoReleaser at build time. Do not update manually.
var Version = "dev"

// GetVersion returns the current version, preferring build-time version,
// then falling back to .version file, then "dev"
func GetVersion() string {
	if Version != "dev" {
		return Version
	}

	if content, err := resolver.ReadVersion(".version"); err == nil {
		if v := strings.TrimSpace(content); v != "" {
			return "v" + v
		}
	}

	return "dev"
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the versioner version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "versioner version:", GetVersion())
		},
	}
}
