package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sorenmh/homeservices-admin/internal/adminctl/output"
	"github.com/sorenmh/homeservices-admin/internal/adminctl/prompt"
	"github.com/sorenmh/homeservices-admin/internal/gateway"
	"github.com/sorenmh/homeservices-admin/internal/journal"
	"github.com/sorenmh/homeservices-admin/internal/mutation"
	"github.com/sorenmh/homeservices-admin/internal/shared/config"
)

// ErrReported means the failure was already printed
var ErrReported = errors.New("error already reported")

// app is the state shared by all commands of one invocation
type app struct {
	cfg      *config.Config
	settings config.Settings

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	format   string
	yes      bool
	printer  *output.Printer
	prompter *prompt.Prompter
	logger   *slog.Logger

	api     *gateway.API
	journal *journal.Store
}

const rootLong = `adminctl is the operator console of the home-services marketplace.

It allows you to:
  - Manage service categories, service areas and subscription plans
  - Register users and technicians, browse franchises and reviews
  - Work through guest bookings and contact enquiries
  - Publish mobile app versions
  - Review the local journal of changes you made

Configuration:
  Environment variables:
    HSADMIN_URL         - backend API base URL (required)
    HSADMIN_TOKEN       - backend API bearer token (required)
    HSADMIN_PAGE_SIZE   - rows per page in list views

  Config file (~/.homeservices-admin/config.yaml):
    url: https://api.example.com
    token: eyJhbGciOi...
    pageSize: 10

  CLI flags override environment variables and config file.

Example usage:
  adminctl category list --search plumb
  adminctl plan create --name Gold --original-price 1000 --price 800 --gst-percentage 18
  adminctl appversion create --name "Customer App" --version 1.0.0 --production-url https://a.com
  adminctl booking complete 65f1c2`

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{cfg: config.New(), in: in, out: out, errOut: errOut}
}

// newRootCmd builds the command tree around a
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "adminctl",
		Short:         "Operator console for the home-services marketplace",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	a.cfg.AddFlags(rootCmd)
	rootCmd.PersistentFlags().StringVarP(&a.format, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "answer yes to every confirmation")

	rootCmd.AddCommand(
		newCategoryCmd(a),
		newAreaCmd(a),
		newPlanCmd(a),
		newUserCmd(a),
		newTechnicianCmd(a),
		newFranchiseCmd(a),
		newReviewCmd(a),
		newBookingCmd(a),
		newAppVersionCmd(a),
		newContactCmd(a),
		newHistoryCmd(a),
		newConfigureCmd(a),
		newCompletionCmd(),
		newCLIVersionCmd(),
	)

	return rootCmd
}

// Execute runs adminctl against the process's stdio and arguments
func Execute(ctx context.Context) error {
	return run(ctx, nil, os.Stdin, os.Stdout, os.Stderr)
}

// run executes one invocation. Nil args means os.Args.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	a := newApp(in, out, errOut)
	defer a.close()

	root := newRootCmd(a)
	if args != nil {
		root.SetArgs(args)
	}
	return root.ExecuteContext(ctx)
}

func (a *app) init() error {
	if err := a.cfg.Load(); err != nil {
		return err
	}
	a.settings = a.cfg.Settings()

	format, err := output.ParseFormat(a.format)
	if err != nil {
		return err
	}

	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: a.settings.Level()}))
	a.printer = output.New(a.out, a.errOut, format)
	a.prompter = prompt.New(a.in, a.errOut)

	if f := a.cfg.FileUsed(); f != "" {
		a.logger.Debug("loaded config", "file", f)
	}
	return nil
}

func (a *app) close() {
	if a.journal != nil {
		a.journal.Close()
		a.journal = nil
	}
}

// backend returns the API, failing when the backend is not configured
func (a *app) backend() (*gateway.API, error) {
	if a.api != nil {
		return a.api, nil
	}
	if err := a.settings.Validate(); err != nil {
		return nil, err
	}
	client := gateway.NewClient(a.settings.URL, a.settings.Token,
		gateway.WithTimeout(a.settings.Timeout),
		gateway.WithLogger(a.logger.With("component", "gateway")),
	)
	a.api = gateway.NewAPI(client)
	return a.api, nil
}

// confirmer answers confirmations, honouring --yes
func (a *app) confirmer() mutation.Confirmer {
	if a.yes {
		return prompt.AutoConfirm{}
	}
	return a.prompter
}

// openJournal opens the journal, creating its directory on first use
func (a *app) openJournal() (*journal.Store, error) {
	if a.journal != nil {
		return a.journal, nil
	}
	if err := os.MkdirAll(filepath.Dir(a.settings.Journal), 0o700); err != nil {
		return nil, err
	}
	store, err := journal.New(a.settings.Journal)
	if err != nil {
		return nil, err
	}
	a.journal = store
	return store, nil
}

// mutations returns a coordinator wired to the prompt, the printer and the journal.
// A journal that cannot be opened is reported and skipped.
func (a *app) mutations() *mutation.Coordinator {
	opts := []mutation.Option{
		mutation.WithConfirmer(a.confirmer()),
		mutation.WithNotifier(a.printer),
		mutation.WithLogger(a.logger.With("component", "mutation")),
	}
	if store, err := a.openJournal(); err != nil {
		a.logger.Warn("journal unavailable, changes will not be recorded", "path", a.settings.Journal, "error", err)
	} else {
		opts = append(opts, mutation.WithRecorder(store))
	}
	return mutation.New(opts...)
}

// finish turns an outcome into the command's result
func finish(out mutation.Outcome) error {
	if out.Err != nil {
		return ErrReported
	}
	return nil
}
