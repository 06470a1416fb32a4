package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"studydesk/internal/skills"
)

func newExtractCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Print the canonical skills found in a text file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config()
			if err != nil {
				return err
			}
			vocab, err := skills.LoadVocabulary(cfg.Skills.VocabularyFile)
			if err != nil {
				return err
			}

			var text []byte
			if len(args) == 1 {
				text, err = os.ReadFile(args[0])
			} else {
				text, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading text: %w", err)
			}

			for _, name := range skills.Extract(string(text), vocab) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().String("vocabulary", "", "YAML vocabulary file replacing the built-in one")
	o.v.BindPFlag("skills.vocabulary-file", cmd.Flags().Lookup("vocabulary"))
	return cmd
}
