package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/mapping"
)

var templateOutput string

var templateCommand = &cobra.Command{
	Use:   "template",
	Short: "Generate a CSV import template",
	Long:  `Writes a CSV template whose headers map to every tracked field at full confidence, with one example row.`,
	RunE:  runTemplateCmd,
}

func init() {
	templateCommand.Flags().StringVarP(&templateOutput, "output", "o", "", "Write the template to this path (default: stdout)")
	rootCmd.AddCommand(templateCommand)
}

func runTemplateCmd(_ *cobra.Command, _ []string) error {
	content := mapping.GenerateTemplate()

	if templateOutput == "" {
		_, err := os.Stdout.WriteString(content)
		return err
	}
	if err := os.WriteFile(templateOutput, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", templateOutput, err)
	}
	return nil
}
