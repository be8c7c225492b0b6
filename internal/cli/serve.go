package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rshade/regenesis/internal/config"
	"github.com/rshade/regenesis/internal/engine/batch"
	"github.com/rshade/regenesis/internal/server"
)

type serveParams struct {
	addr        string
	origins     []string
	concurrency int
}

// NewServeCmd creates the "serve" command that runs the HTTP API.
func NewServeCmd() *cobra.Command {
	var params serveParams

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the assessment engine as a JSON API under /api/v1.

Reference data is loaded once at startup; the server refuses to start when it
cannot be loaded. POST /api/v1/reference/reload re-reads the files without a
restart. Stop the server with Ctrl+C; in-flight requests are allowed to finish.`,
		Example: `  # Listen on the configured address (default :8080)
  regenesis serve

  # Listen on port 9000 and only allow the local front end
  regenesis serve --addr :9000 --allowed-origins http://localhost:5173`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeServe(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.addr, "addr", "", "Listen address (default from configuration)")
	cmd.Flags().StringSliceVar(&params.origins, "allowed-origins", nil,
		"CORS origins allowed to call the API (default from configuration, * allows all)")
	cmd.Flags().IntVar(&params.concurrency, "concurrency", batch.DefaultConcurrency,
		"Number of concurrent assessments per batch request")

	return cmd
}

func executeServe(cmd *cobra.Command, params serveParams) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.GetGlobalConfig()
	srvCfg := server.Config{
		Addr:             cfg.Server.Addr,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		BatchConcurrency: params.concurrency,
	}
	if params.addr != "" {
		srvCfg.Addr = params.addr
	}
	if len(params.origins) > 0 {
		srvCfg.AllowedOrigins = params.origins
	}

	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	e, err := newEngine(ctx, engineOptions{narrator: true})
	if err != nil {
		return err
	}

	cmd.PrintErrf("Serving on %s (Ctrl+C to stop)\n", srvCfg.Addr)
	return server.New(e, srvCfg, logger).Run(ctx)
}
