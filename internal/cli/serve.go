package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/png2svg/pkg/observability"
	"github.com/matzehuels/png2svg/pkg/pipeline"
	"github.com/matzehuels/png2svg/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr           string
	maxUploadBytes int64
	maxPixels      int64
	noCache        bool
}

// serveCommand creates the serve command, which exposes conversion over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the converter over HTTP",
		Long: `Start an HTTP server that converts uploaded images.

  POST /v1/convert   image bytes in the body, SVG document in the response
  GET  /v1/stats     conversion and cache counters
  GET  /healthz      liveness and build information`,
		Example: `  png2svg serve --addr :9000
  curl --data-binary @sprite.png localhost:9000/v1/convert > sprite.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := server.Config{
				Addr:           c.config.Serve.Addr,
				MaxUploadBytes: c.config.Serve.MaxUploadBytes,
				Options:        c.config.pipelineOptions(),
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = opts.addr
			}
			if cmd.Flags().Changed("max-upload") {
				cfg.MaxUploadBytes = opts.maxUploadBytes
			}
			if cmd.Flags().Changed("max-pixels") {
				cfg.Options.MaxPixels = opts.maxPixels
			}
			if err := cfg.Options.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, store, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			counters := observability.NewCounters()
			observability.SetConvertHooks(counters)
			observability.SetCacheHooks(counters)
			observability.SetHTTPHooks(counters)
			defer observability.Reset()

			return server.New(runner, counters, c.Logger, cfg).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().Int64Var(&opts.maxUploadBytes, "max-upload", server.DefaultMaxUploadBytes, "maximum request body size in bytes")
	cmd.Flags().Int64Var(&opts.maxPixels, "max-pixels", pipeline.DefaultMaxPixels, "reject images with more pixels than this")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the conversion cache")
	return cmd
}
