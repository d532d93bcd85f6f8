package cmd

import (
	"slices"

	"github.com/spf13/cobra"

	"modject/internal/app"
	"modject/internal/formatting"
	"modject/internal/manifest"
)

func newPlanCmd(opts *rootOptions) *cobra.Command {
	var (
		file         string
		outputFormat string
		stop         bool
	)

	cmd := &cobra.Command{
		Use:   "plan [entry points...]",
		Short: "Show the order in which entry points start or stop",
		Long: `Dry-run a start or stop request against a manifest and print the
order in which entry points would be activated or deactivated, with the
slots each one contributes or withdraws.

Without entry point names every entry point is requested. With --stop
every entry point that can start is started first, then the stop
request is planned; consumers are always stopped before the entry
points providing their slots.

Examples:
  modject plan -f app.yaml
  modject plan -f app.yaml api
  modject plan -f app.yaml --stop database -o yaml`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return entryPointCompletion(file, args), cobra.ShellCompDirectiveNoFileComp
		},
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

			var plan *app.Plan
			if stop {
				plan, err = a.PlanStop(file, args)
			} else {
				plan, err = a.PlanStart(file, args)
			}
			if err != nil {
				return err
			}

			formatter := formatting.NewFactory().CreateFormatter(formatting.Options{
				Format: format,
				Output: cmd.OutOrStdout(),
			})
			if err := formatter.FormatPlan(plan); err != nil {
				return err
			}

			if plan.Failed() {
				return &PlanFailedError{Action: plan.Action, Reason: plan.Error}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "manifest to plan")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&stop, "stop", false, "plan a stop request instead of a start request")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagFilename("file", "yaml", "yml")

	return cmd
}

// entryPointCompletion offers the entry point names of the manifest that are
// not already on the command line.
func entryPointCompletion(file string, args []string) []string {
	if file == "" {
		return nil
	}
	m, err := manifest.ParseFile(file)
	if err != nil {
		return nil
	}

	var names []string
	for _, ep := range m.EntryPoints {
		if !slices.Contains(args, ep.Name) {
			names = append(names, ep.Name)
		}
	}
	return names
}
