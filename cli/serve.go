package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"catalog-browser/catalog"
	"catalog-browser/server"
	"catalog-browser/storage"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog browser over HTTP",
		Long: "Loads the catalog once, failing before the listener starts if a required\n" +
			"column is missing, then serves the filterable product page and JSON API.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if addr != "" {
				a.cfg.AppAddr = addr
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Watch = watch
			}

			cache, cleanup, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ds, err := cache.Get(ctx)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			a.logger.Info("[serve] Catalog ready: %d products (%d rows dropped)", ds.Len(), ds.Dropped())

			if a.cfg.Watch {
				stop, err := a.watch(ctx, cache)
				if err != nil {
					return err
				}
				defer stop()
			}

			opts := a.serverOptions()
			handler, err := a.newHTTPHandler(cache, opts)
			if err != nil {
				return err
			}
			return server.New(opts, handler, a.logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides APP_ADDR)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload when the source file changes (overrides CATALOG_WATCH)")
	return cmd
}

// watch invalidates cache whenever the local source file changes.
func (a *app) watch(ctx context.Context, cache *catalog.Cache) (func(), error) {
	path, ok := storage.LocalPath(a.cfg.CatalogSource)
	if !ok {
		a.logger.Warn("[serve] Watching is only supported for local files, ignoring for %s", a.cfg.CatalogSource)
		return func() {}, nil
	}

	w, err := catalog.NewWatcher(path, func() {
		if err := cache.Invalidate(context.Background()); err != nil {
			a.logger.Warn("[serve] Invalidate after change: %v", err)
		}
	}, a.logger, 0)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w.Stop, nil
}
