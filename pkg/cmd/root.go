package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siyuan-infoblox/imports-order/pkg/config"
	"github.com/siyuan-infoblox/imports-order/pkg/errors"
	"github.com/siyuan-infoblox/imports-order/pkg/linter"
	"github.com/siyuan-infoblox/imports-order/pkg/report"
	"github.com/siyuan-infoblox/imports-order/pkg/version"
)

const (
	UseDescription   = "iord [flags] PATH..."
	ShortDescription = "Import order checker - keeps TypeScript and JavaScript import groups in order"
	LongDescription  = `iord is a command-line tool that checks the order of import declarations
in TypeScript and JavaScript sources.

Imports are classified into categories by the rules of a profile, and each
profile lists its categories in the order they must appear, for example:
1. Framework packages (@angular/*, vue, react)
2. Third-party packages
3. Internal alias paths (@/..., ~/...)
4. Relative imports

Profiles are picked per file from its imports unless --profile names one.
Run "iord init" to write the built-in profiles to .iord.yaml and edit them.

PATH can be a file, a directory or a glob pattern (src/**/*.ts). Directories
are searched recursively, skipping node_modules, dist, build, coverage and
hidden directories. The exit status is non-zero when violations or errors
were found.`
)

// options holds the flag values shared by the commands
type options struct {
	v *viper.Viper

	configPath  string
	inPlace     bool
	diff        bool
	logFile     string
	verbose     bool
	showVersion bool

	profile       string
	format        string
	parallel      int
	caseSensitive bool
	noColor       bool
}

func newRootCmd() *cobra.Command {
	o := &options{v: newViper()}

	cmd := &cobra.Command{
		Use:          UseDescription,
		Short:        ShortDescription,
		Long:         LongDescription,
		Args:         o.validateArgs,
		RunE:         o.run,
		SilenceUsage: true,
	}
	o.configureFlags(cmd)

	cmd.AddCommand(
		newInitCmd(o),
		newProfilesCmd(o),
		newWatchCmd(o),
		newVersionCmd(),
	)
	return cmd
}

func (o *options) configureFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&o.configPath, configFlagName, "", "Path to the config file (default: nearest "+configFileName+")")
	flags.BoolVar(&o.inPlace, inPlaceFlagName, false, "Rewrite files with violations instead of only reporting them")
	flags.BoolVar(&o.diff, diffFlagName, false, "Print a unified diff of the fix for files with violations")
	flags.BoolVar(&o.verbose, verboseFlagName, false, "Log at debug level")

	flags.StringVar(&o.profile, profileFlagName, o.v.GetString(profileConfigKey), `Profile to check with, or "auto" to pick one per file`)
	bindFlagToConfig(o.v, flags.Lookup(profileFlagName), profileConfigKey)

	flags.StringVar(&o.format, formatFlagName, o.v.GetString(formatConfigKey), "Output format: text or json")
	bindFlagToConfig(o.v, flags.Lookup(formatFlagName), formatConfigKey)

	flags.IntVar(&o.parallel, parallelFlagName, o.v.GetInt(parallelConfigKey), "Number of files checked at once")
	bindFlagToConfig(o.v, flags.Lookup(parallelFlagName), parallelConfigKey)

	flags.BoolVar(&o.caseSensitive, caseSensitiveFlagName, o.v.GetBool(caseSensitiveConfigKey), "Compare specifiers case-sensitively in alphabetized categories")
	bindFlagToConfig(o.v, flags.Lookup(caseSensitiveFlagName), caseSensitiveConfigKey)

	flags.BoolVar(&o.noColor, noColorFlagName, o.v.GetBool(noColorConfigKey), "Disable coloured output")
	bindFlagToConfig(o.v, flags.Lookup(noColorFlagName), noColorConfigKey)

	flags.StringVar(&o.logFile, logFileFlagName, o.v.GetString(logFilenameKey), "Path to the log file")
	bindFlagToConfig(o.v, flags.Lookup(logFileFlagName), logFilenameKey)

	cmd.Flags().BoolVarP(&o.showVersion, versionFlagName, "v", false, "Show version information")
}

func (o *options) validateArgs(cmd *cobra.Command, args []string) error {
	// If version flag is set, we don't need path arguments
	if o.showVersion {
		return nil
	}
	return cobra.MinimumNArgs(1)(cmd, args)
}

// setup reads the configuration, configures logging and compiles the profiles
func (o *options) setup(paths []string) (*config.Set, *slog.Logger, error) {
	configFile, err := readConfig(o.v, o.configPath, paths)
	if err != nil {
		return nil, nil, err
	}

	logger := configureLogger(o.v, o.v.GetString(logFilenameKey), o.verbose)
	if configFile != "" {
		logger.Debug("Loaded config file", "path", configFile)
	}

	set, err := config.Load(o.v)
	if err != nil {
		return nil, logger, err
	}
	return set, logger, nil
}

func (o *options) linterConfig(set *config.Set, logger *slog.Logger) linter.Config {
	return linter.Config{
		Profiles: set,
		InPlace:  o.inPlace,
		Diff:     o.diff,
		Parallel: o.v.GetInt(parallelConfigKey),
		Logger:   logger,
	}
}

func (o *options) reportOptions(cmd *cobra.Command) (report.Options, error) {
	format, err := report.ParseFormat(o.v.GetString(formatConfigKey))
	if err != nil {
		return report.Options{}, err
	}

	color := false
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		color = isTTY(f) && !o.v.GetBool(noColorConfigKey) && os.Getenv("NO_COLOR") == ""
	}
	return report.Options{Format: format, Color: color}, nil
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	// Handle version flag
	if o.showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		return nil
	}

	set, logger, err := o.setup(args)
	if err != nil {
		return err
	}
	opts, err := o.reportOptions(cmd)
	if err != nil {
		return err
	}

	results, err := linter.New(o.linterConfig(set, logger)).Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), results, opts); err != nil {
		return err
	}
	return o.finish(cmd, args, results, opts)
}

// finish prints the run summary and turns findings into the exit status
func (o *options) finish(cmd *cobra.Command, args []string, results []linter.FileResult, opts report.Options) error {
	summary := report.Summarize(results)

	if opts.Format == report.FormatText {
		if summary.Files == 0 {
			cmd.PrintErrf(errors.InfoMsgNoSourceFilesFound+"\n", strings.Join(args, " "))
		}
		for _, r := range results {
			if r.Fixed {
				cmd.PrintErrf(errors.InfoMsgProcessedFiles+"\n", r.Path)
			}
		}

		msg := fmt.Sprintf(errors.InfoMsgProcessedCount, summary.Files)
		if summary.Violations > 0 {
			msg += fmt.Sprintf(errors.InfoMsgViolationCount, summary.Violations)
		}
		if summary.Errors > 0 {
			msg += fmt.Sprintf(errors.InfoMsgErrorCount, summary.Errors)
		}
		cmd.PrintErrln(msg)
	}

	if summary.Errors > 0 {
		return fmt.Errorf(errors.ErrMsgFilesFailedToProcess, summary.Errors)
	}
	if remaining := unresolved(results); remaining > 0 {
		return fmt.Errorf(errors.ErrMsgViolationsFound, remaining)
	}
	return nil
}

// unresolved counts violations in files that were not rewritten
func unresolved(results []linter.FileResult) int {
	n := 0
	for _, r := range results {
		if !r.Fixed {
			n += len(r.Violations)
		}
	}
	return n
}

// Execute runs the command line. buildVersion is the module version reported
// by the Go toolchain and is used when no version was injected at link time.
func Execute(buildVersion string) error {
	if version.Version == "dev" && buildVersion != "" && buildVersion != "(devel)" {
		version.Version = buildVersion
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}
