// Package cli implements the forumctl command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kochabx/apiclient/config"
	"github.com/kochabx/apiclient/core/util"
	"github.com/kochabx/apiclient/dispatcher"
	"github.com/kochabx/apiclient/forum"
	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/metrics"
	"github.com/kochabx/apiclient/notify"
	"github.com/kochabx/apiclient/router"
	"github.com/kochabx/apiclient/session"
)

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	config  string
	server  string
	token   string
	debug   bool
	metrics bool
}

// app holds what every subcommand needs, built once flags are parsed
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	session   *session.Memory
	dispatch  *dispatcher.Dispatcher
	client    *forum.Client
	prom      *metrics.Prometheus
	printJSON func(v any) error
}

func (a *app) close() {
	a.dispatch.Close()
	_ = a.logger.Close()
}

type appKey struct{}

// appFrom returns the app set up by the root pre-run hook
func appFrom(cmd *cobra.Command) *app {
	a, err := util.CtxValue[*app](cmd.Context(), appKey{})
	if err != nil {
		panic(err)
	}
	return a
}

func NewRootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:          "forumctl",
		Short:        "Command line client for the Q&A forum API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			defer a.close()
			if flags.metrics {
				return printMetrics(cmd, a.prom)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "config file (default ./apiclient.yaml when present)")
	pf.StringVar(&flags.server, "server", "", "API base URL, overrides server_url")
	pf.StringVar(&flags.token, "token", "", "bearer token from a previous login")
	pf.BoolVar(&flags.debug, "debug", false, "log every exchange")
	pf.BoolVar(&flags.metrics, "metrics", false, "print dispatch metrics to stderr on exit")

	cmd.AddCommand(loginCmd(), registerCmd(), questionsCmd(), answersCmd())
	return cmd
}

func newApp(cmd *cobra.Command, flags globalFlags) (*app, error) {
	opts := []config.Option{config.WithWatch(false)}
	if flags.config != "" {
		opts = append(opts, config.WithFile(flags.config, false))
	} else {
		opts = append(opts, config.WithFile("apiclient.yaml", true))
	}
	cfg := config.New(opts...)
	if flags.server != "" {
		cfg.GetViper().Set("server_url", flags.server)
	}
	if flags.debug {
		cfg.GetViper().Set("log.level", "debug")
	}
	if err := cfg.Load(); err != nil {
		return nil, err
	}
	settings := cfg.Snapshot()

	logger, err := settings.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	if !flags.debug && settings.Log.File == "" && logger.GetLevel() < zerolog.WarnLevel {
		// stderr carries notifications; info logs only with --debug
		logger.Logger = logger.Level(zerolog.WarnLevel)
	}
	log.SetGlobalLogger(logger)

	prom := metrics.New()
	collector, err := metrics.NewDispatchCollector(prom)
	if err != nil {
		return nil, err
	}

	sess := session.NewMemory()
	if flags.token != "" {
		sess.Set(flags.token, "")
	}

	navigator := router.NavigatorFunc(func(path string) {
		logger.Warn().Str("view", path).Msg("session expired, log in again")
	})

	d, err := dispatcher.New(cfg.ServerURL,
		dispatcher.WithSession(sess),
		dispatcher.WithNavigator(navigator),
		dispatcher.WithNotifier(notify.NewWriter(cmd.ErrOrStderr())),
		dispatcher.WithLogger(logger.Component("dispatcher")),
		dispatcher.WithObserver(collector),
		dispatcher.WithTimeout(settings.Timeout),
		dispatcher.WithConcurrency(settings.Concurrency),
		dispatcher.WithLoginView(settings.LoginView),
	)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	return &app{
		cfg:      cfg,
		logger:   logger,
		session:  sess,
		dispatch: d,
		client: forum.New(d, sess,
			forum.WithLoginPath(settings.LoginPath),
			forum.WithLogger(logger.Component("forum")),
		),
		prom: prom,
		printJSON: func(v any) error {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}, nil
}

func printMetrics(cmd *cobra.Command, p *metrics.Prometheus) error {
	samples, err := p.Gather()
	if err != nil {
		return err
	}
	for _, key := range slices.Sorted(maps.Keys(samples)) {
		v := samples[key]
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %g\n", key, v)
	}
	return nil
}
