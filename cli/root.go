// Package cli wires configuration, sources, the cache and the HTTP server
// into the catalog-browser command line.
package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"catalog-browser/catalog"
	"catalog-browser/config"
	"catalog-browser/server"
	"catalog-browser/services"
	"catalog-browser/storage"
	"catalog-browser/utils"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
	out    io.Writer
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	var source, logLevel string

	root := &cobra.Command{
		Use:   "catalog-browser",
		Short: "Browse and filter a product catalog",
		Long: strings.TrimSpace(dedent.Dedent(`
			catalog-browser loads a product table (CSV, TSV, Excel, SQLite, Postgres or
			a remote CSV), assigns each product a category from its name and lets you
			filter it by price, availability, condition and category.

			Configuration comes from the environment (and a .env file); --source
			overrides CATALOG_SOURCE for any command.
		`)),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if source != "" {
				cfg.CatalogSource = source
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			a.cfg = cfg
			a.out = cmd.OutOrStdout()
			a.logger = utils.NewLoggerWith(utils.LoggerOptions{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Out:    cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&source, "source", "s", "", "catalog file or URI (overrides CATALOG_SOURCE)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	root.AddCommand(
		newServeCommand(a),
		newFilterCommand(a),
		newSummaryCommand(a),
		newSnapshotCommand(a),
	)
	return root
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// openCatalog builds the source, normalizer and cache described by the
// configuration. The returned func releases the Redis connection, if any.
func (a *app) openCatalog(ctx context.Context) (*catalog.Cache, func(), error) {
	delimiter, err := a.cfg.Delimiter()
	if err != nil {
		return nil, nil, err
	}
	overrides, err := config.LoadFieldTerms(a.cfg.FieldsFile)
	if err != nil {
		return nil, nil, err
	}

	src, err := storage.Open(a.cfg.CatalogSource, storage.Options{
		Delimiter:   delimiter,
		Table:       a.cfg.CatalogTable,
		Sheet:       a.cfg.CatalogSheet,
		HTTPTimeout: a.cfg.HTTPTimeout,
		Retry: &utils.RetryConfig{
			MaxAttempts: a.cfg.MaxRetries,
			BaseDelay:   500 * time.Millisecond,
			Logger:      a.logger,
		},
		Logger: a.logger,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var opts []catalog.Option
	if a.cfg.RedisAddr != "" {
		client, err := catalog.NewRedisClient(ctx, a.cfg.RedisAddr)
		if err != nil {
			a.logger.Warn("[cli] Shared cache disabled: %v", err)
		} else {
			opts = append(opts, catalog.WithStore(catalog.NewRedisStore(client, a.cfg.RedisTTL)))
			cleanup = func() { _ = client.Close() }
		}
	}

	normalizer := services.NewNormalizer(a.logger, services.DefaultFieldTerms().WithOverrides(overrides))
	return catalog.NewCache(src, normalizer, a.logger, opts...), cleanup, nil
}

func (a *app) serverOptions() server.Options {
	return server.Options{
		Addr:           a.cfg.AppAddr,
		RequestTimeout: a.cfg.AppRequestTimeout,
		RateLimit:      a.cfg.AppRateLimit,
	}
}

func (a *app) newHTTPHandler(cache server.Catalog, opts server.Options) (http.Handler, error) {
	views, err := server.NewEngine()
	if err != nil {
		return nil, err
	}
	h := server.NewHandler(cache, services.NewInsightService(a.logger), views, a.logger)
	return server.NewRouter(opts, h, a.logger), nil
}
