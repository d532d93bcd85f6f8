package cmd

import (
	"github.com/spf13/cobra"

	"modject/internal/formatting"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var (
		file         string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a manifest",
		Long: `Validate a manifest and the dependency graph it describes.

The manifest is checked against its schema, its entry points are
registered with an orchestrator (which enforces layering) and the
dependency tree is built (which detects cycles and slots contributed
twice). Every problem found is reported. Dependencies that no entry
point contributes are listed as warnings.

Examples:
  modject check -f app.yaml
  modject check -f app.yaml -o json`,
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatting.ParseFormat(outputFormat)
			if err != nil {
				return err
			}

			a, err := opts.application(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Shutdown(cmd.Context()) }()

			report, err := a.Check(file)
			if err != nil {
				return err
			}

			formatter := formatting.NewFactory().CreateFormatter(formatting.Options{
				Format: format,
				Output: cmd.OutOrStdout(),
			})
			if err := formatter.FormatCheck(report); err != nil {
				return err
			}

			if !report.OK() {
				return &ManifestInvalidError{File: file, Issues: len(report.Issues)}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "manifest to check")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagFilename("file", "yaml", "yml")

	return cmd
}
