package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"modject/internal/app"
	"modject/internal/config"
	"modject/internal/manifest"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeInvalidManifest indicates the manifest failed validation.
	ExitCodeInvalidManifest = 2
	// ExitCodePlanFailed indicates the planned pass could not complete.
	ExitCodePlanFailed = 3
)

// rootCmd represents the base command for the modject application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = newRootCmd()

// rootOptions carries the configuration shared by every subcommand.
type rootOptions struct {
	configFile string
	viper      *viper.Viper
	settings   config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{viper: viper.New()}

	cmd := &cobra.Command{
		Use:   "modject",
		Short: "Plan and check dependency-ordered entry point lifecycles",
		Long: `modject inspects applications assembled from entry points that
contribute and depend on named slots. It validates manifests describing
those entry points and shows the order in which they would be started
or stopped.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "",
		"config file (default: ~/.config/modject/config.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")
	flags.Bool("trace", false, "print orchestration spans to stderr")

	// Bind flags to viper
	_ = opts.viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = opts.viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = opts.viper.BindPFlag("tracing.enabled", flags.Lookup("trace"))

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newPlanCmd(opts))
	return cmd
}

func (o *rootOptions) load() error {
	settings, err := config.Load(o.viper, o.configFile)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	o.settings = settings
	return nil
}

// application bootstraps logging and tracing for a command. Logs and spans
// go to the command's error stream so that stdout only carries results.
func (o *rootOptions) application(cmd *cobra.Command) (*app.Application, error) {
	cfg := app.NewConfig(o.settings, cmd.ErrOrStderr())
	cfg.TraceOutput = cmd.ErrOrStderr()
	return app.NewApplication(cfg)
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It executes the root command and exits with a code describing the failure.
// This function is called by main.main().
func Execute() {
	// SetVersionTemplate defines a custom template for displaying the version.
	// This is used when the --version flag is invoked.
	rootCmd.SetVersionTemplate(`{{printf "modject version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var invalid *ManifestInvalidError
	if errors.As(err, &invalid) {
		return ExitCodeInvalidManifest
	}

	var issues manifest.IssueCollection
	if errors.As(err, &issues) {
		return ExitCodeInvalidManifest
	}

	var planFailed *PlanFailedError
	if errors.As(err, &planFailed) {
		return ExitCodePlanFailed
	}

	// Default to general error
	return ExitCodeError
}
