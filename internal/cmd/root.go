// Package cmd implements the wework CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dvcrn/wework-cli/internal/api"
	"github.com/dvcrn/wework-cli/internal/auth/wework"
	"github.com/dvcrn/wework-cli/internal/buildinfo"
	"github.com/dvcrn/wework-cli/internal/config"
	"github.com/dvcrn/wework-cli/internal/logging"
	"github.com/dvcrn/wework-cli/internal/tui"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// annotationSkipConfig marks commands that must run without reading the config file.
const annotationSkipConfig = "wework/skip-config"

// app carries the state shared by every command of one invocation.
type app struct {
	configPath string
	username   string
	password   string
	debug      bool
	noSpinner  bool

	cfg       *config.Config
	in        *os.File
	out       io.Writer
	errOut    io.Writer
	now       func() time.Time
	lookupEnv func(string) (string, bool)

	// connect signs in and returns a members API client.
	connect func(ctx context.Context) (*api.Client, error)
}

func newApp() *app {
	a := &app{
		in:        os.Stdin,
		out:       os.Stdout,
		errOut:    os.Stderr,
		now:       time.Now,
		lookupEnv: os.LookupEnv,
	}
	a.connect = a.login
	return a
}

// NewRootCommand creates the root cobra command for the wework CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newApp())
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wework",
		Short: "WeWork desk booking from the command line",
		Long: `wework signs in to the WeWork members site with your username and password
and lets you search locations, book desks and export your bookings as a calendar.

Credentials are read from --username/--password, WEWORK_USERNAME/WEWORK_PASSWORD
or an interactive prompt. They are never stored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to config file (default ~/.wework/config.yaml)")
	flags.StringVarP(&a.username, "username", "u", "", "WeWork username (or WEWORK_USERNAME)")
	flags.StringVarP(&a.password, "password", "p", "", "WeWork password (or WEWORK_PASSWORD)")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&a.noSpinner, "no-spinner", false, "Disable the progress spinner")

	cmd.AddCommand(
		newLocationsCommand(a),
		newDesksCommand(a),
		newQuoteCommand(a),
		newBookCommand(a),
		newBookingsCommand(a),
		newCalendarCommand(a),
		newMeCommand(a),
		newInfoCommand(a),
		newInitConfigCommand(a),
		newVersionCommand(a),
	)
	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		return 1
	}
	return 0
}

// reportError prints err for a human. Login failures get the friendly
// message followed by the provider response, if one was captured.
func reportError(w io.Writer, err error) {
	if authErr, ok := errors.AsType[*wework.AuthenticationError](err); ok {
		log.WithError(err).Debug("login failed")
		_, _ = fmt.Fprintln(w, tui.Error(wework.GetUserFriendlyMessage(authErr)))
		if authErr.Body != "" {
			if authErr.StatusCode != 0 {
				_, _ = fmt.Fprintf(w, "Provider response (status %d): %s\n", authErr.StatusCode, authErr.Body)
			} else {
				_, _ = fmt.Fprintf(w, "Provider response: %s\n", authErr.Body)
			}
		}
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		_, _ = fmt.Fprintln(w, tui.Error(wework.GetUserFriendlyMessage(err)))
		return
	}
	_, _ = fmt.Fprintln(w, tui.Error(err.Error()))
}

// setup loads the configuration, applies environment and flag overrides and
// configures logging before any command runs.
func (a *app) setup(cmd *cobra.Command) error {
	var cfg *config.Config
	if cmd.Annotations[annotationSkipConfig] == "true" {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	} else {
		path, explicit := a.resolveConfigPath(cmd)
		loaded, err := config.LoadConfigOptional(path, !explicit)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	cfg.ApplyEnv(a.lookupEnv)
	if a.debug {
		cfg.Debug = true
	}
	if a.noSpinner {
		cfg.NoSpinner = true
	}
	a.cfg = cfg

	if err := logging.ConfigureLogOutput(cfg); err != nil {
		return err
	}
	log.Debug(buildinfo.Summary())
	return nil
}

// resolveConfigPath returns the config file to read and whether the user
// asked for it explicitly. Only an explicit file must exist.
func (a *app) resolveConfigPath(cmd *cobra.Command) (string, bool) {
	if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
		return a.configPath, true
	}
	if v, ok := a.lookupEnv("WEWORK_CONFIG"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	return config.DefaultConfigPath(), false
}

func (a *app) spinnerEnabled() bool {
	f, ok := a.errOut.(*os.File)
	return ok && a.cfg != nil && tui.SpinnerEnabled(a.cfg.NoSpinner, f)
}

// spin runs task behind a spinner on stderr when one can be drawn.
func (a *app) spin(ctx context.Context, message string, task func(context.Context) error) error {
	return tui.Spin(ctx, a.errOut, a.spinnerEnabled(), message, task)
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}
