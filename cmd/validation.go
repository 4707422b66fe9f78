package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/developerkunal/versioner/internal/config"
)

// validateFlags rejects flag combinations that cannot work together.
func validateFlags(cmd *cobra.Command, f *flags) error {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if f.configFile != "" && f.noConfig {
		return errors.New("--config flag cannot be used with --no-config")
	}
	if f.noPrompt && changed("ui") {
		return errors.New("--ui flag cannot be used with --no-prompt")
	}
	if f.noPrompt && changed("max-attempts") {
		return errors.New("--max-attempts flag cannot be used with --no-prompt")
	}
	if f.maxAttempts < 0 {
		return errors.New("--max-attempts must be 0 or more")
	}
	return nil
}

// validateMerged checks flags against the effective config, so values from the
// rc file or environment are taken into account.
func validateMerged(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags().Lookup("max-attempts")
	if cfg.UI == config.UITUI && fl != nil && fl.Changed {
		return errors.New("--max-attempts flag only applies to the line prompt")
	}
	return nil
}
