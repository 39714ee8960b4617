package cmd

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/quantmind-br/freshen/internal/config"
	"github.com/quantmind-br/freshen/internal/core"
	"github.com/quantmind-br/freshen/internal/ui"
	"github.com/quantmind-br/freshen/internal/updater"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ExitStale is returned by `check --exit-code` when a newer version exists
const ExitStale = 1

// updateFlags holds the effective update settings: config values overridden by flags
type updateFlags struct {
	url        string
	pattern    string
	current    string
	target     string
	entry      string
	lenient    bool
	timeout    time.Duration
	noProgress bool
}

// env carries what every subcommand needs to build an Updater
type env struct {
	cfg   *config.Config
	log   *zerolog.Logger
	flags *updateFlags
	opts  []updater.Option
}

func (e *env) updater() (*updater.Updater, error) {
	opts := updater.Options{
		BaseURL:         e.flags.url,
		Pattern:         e.flags.pattern,
		CurrentVersion:  e.flags.current,
		OverwriteTarget: e.flags.target,
		EntryPoint:      e.flags.entry,
		Lenient:         e.flags.lenient,
		Timeout:         e.flags.timeout,
	}
	if e.cfg.Network.Progress && !e.flags.noProgress {
		opts.Progress = os.Stderr
	}

	return updater.New(opts, e.log, e.opts...)
}

// NewRootCmd creates the root command. extra is applied to every Updater the
// subcommands build.
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string, extra ...updater.Option) *cobra.Command {
	flags := &updateFlags{}
	e := &env{cfg: cfg, log: log, flags: flags, opts: extra}

	cmd := &cobra.Command{
		Use:           "freshen",
		Short:         "Keep an application up to date",
		Long:          `Discover new releases on an HTML listing page, download and unpack them, then replace the installed application and restart it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.url, "url", cfg.Update.ListingURL, "listing page that links to release archives")
	pf.StringVar(&flags.pattern, "pattern", cfg.Update.Pattern, "regular expression matching archive names; group 1 is the version")
	pf.StringVar(&flags.current, "current", cfg.Update.CurrentVersion, "version currently installed")
	pf.StringVar(&flags.target, "target", cfg.Update.OverwriteTarget, "installed file or directory to overwrite")
	pf.StringVar(&flags.entry, "entry", cfg.Update.EntryPoint, "executable to restart, relative to the target's parent directory")
	pf.BoolVar(&flags.lenient, "lenient", !cfg.Update.Strict, "treat a listing without matches as up to date")
	pf.DurationVar(&flags.timeout, "timeout", cfg.Network.Timeout, "cap on each HTTP request including the download (0 for none)")
	pf.BoolVar(&flags.noProgress, "no-progress", false, "do not render a download progress bar")

	// Add subcommands
	cmd.AddCommand(newCheckCmd(e))
	cmd.AddCommand(newListCmd(e))
	cmd.AddCommand(newApplyCmd(e, ui.ConfirmPrompt))
	cmd.AddCommand(NewCompletionCmd(log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}

// staleError signals a successful check that found an update
type staleError struct{}

func (staleError) Error() string { return "a newer version is available" }

// Silent reports whether err only carries an exit status and should not be printed
func Silent(err error) bool {
	return errors.As(err, new(staleError))
}

// ExitCode maps a command error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return core.ExitSuccess
	case Silent(err):
		return ExitStale
	case errors.Is(err, context.Canceled), errors.Is(err, ui.ErrCancelled):
		return core.ExitInterrupted
	default:
		return core.ExitCode(err)
	}
}
