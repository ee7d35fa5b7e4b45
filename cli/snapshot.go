package cli

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/spf13/cobra"

	"catalog-browser/server"
	"catalog-browser/snapshot"
)

func newSnapshotCommand(a *app) *cobra.Command {
	var flags filterFlags
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save a PNG of the filtered catalog page",
		Long: "Serves the catalog on a loopback port, opens it in headless Chrome with the\n" +
			"given filters applied and saves a full-page screenshot.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if output == "" {
				output = a.cfg.SnapshotPath
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
			if _, err := flags.criteria(ds); err != nil {
				return err
			}

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return err
			}
			opts := server.Options{RequestTimeout: a.cfg.AppRequestTimeout}
			handler, err := a.newHTTPHandler(cache, opts)
			if err != nil {
				_ = ln.Close()
				return err
			}

			srvCtx, stop := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() { done <- server.New(opts, handler, a.logger).Serve(srvCtx, ln) }()
			defer func() {
				stop()
				<-done
			}()

			pageURL := "http://" + ln.Addr().String() + "/?" + flags.query().Encode()
			return snapshot.New(a.cfg.ChromeBin, a.logger, a.cfg.MaxRetries).Capture(ctx, pageURL, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG path (default SNAPSHOT_PATH)")
	return cmd
}

// query encodes the flags the way the sidebar form submits them.
func (f *filterFlags) query() url.Values {
	q := url.Values{"apply": {"1"}}
	if f.minPrice != "" {
		q.Set("min_price", f.minPrice)
	}
	if f.maxPrice != "" {
		q.Set("max_price", f.maxPrice)
	}
	q["availability"] = f.availability
	q["condition"] = f.condition
	q["category"] = f.category
	return q
}
