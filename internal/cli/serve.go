package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"studydesk/internal/handlers"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the deadline monitor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, o)
		},
	}

	cmd.Flags().String("addr", ":8080", "address to listen on")
	cmd.Flags().String("static", "", "directory to serve static files from (optional)")
	cmd.Flags().String("tls-cert", "", "path to TLS certificate file (optional)")
	cmd.Flags().String("tls-key", "", "path to TLS key file (optional)")
	cmd.Flags().String("storage", "file", "storage backend to use: memory, file, sqlite or mongo")

	o.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	o.v.BindPFlag("server.static-dir", cmd.Flags().Lookup("static"))
	o.v.BindPFlag("server.tls-cert", cmd.Flags().Lookup("tls-cert"))
	o.v.BindPFlag("server.tls-key", cmd.Flags().Lookup("tls-key"))
	o.v.BindPFlag("storage.type", cmd.Flags().Lookup("storage"))
	return cmd
}

func serve(cmd *cobra.Command, o *options) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := o.load()
	if err != nil {
		return err
	}
	defer logger.Sync()

	c, err := newComponents(cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer c.Close()

	h := handlers.New(c.service, logger.Named("http"))
	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: h.NewRouter(handlers.RouterOptions{
			Gatherer:  c.registry,
			StaticDir: cfg.Server.StaticDir,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	useTLS := cfg.Server.TLSCert != "" && cfg.Server.TLSKey != ""

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.monitor.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting studydesk",
			zap.String("version", version),
			zap.String("addr", srv.Addr),
			zap.Bool("tls", useTLS))
		var err error
		if useTLS {
			err = srv.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("studydesk stopped")
	return err
}
