package cli

import (
	"time"

	"readmeai/config"
	"readmeai/platform/shutdown"
	"readmeai/scanner"
	"readmeai/web"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"
)

func newServeCommand(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve analyses over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg())
		},
	}
}

func runServe(cfg *config.Config) error {
	if n, err := scanner.CleanScratch(cfg.ScratchDir); err != nil {
		logger.LogErr(err, "failed to clean scratch directories")
	} else if n > 0 {
		logger.Info("Removed stale scratch directories", "count", n)
	}

	h, err := web.NewHandlers(cfg)
	if err != nil {
		return err
	}

	s := rweb.NewServer(rweb.ServerOptions{
		Address: cfg.Addr,
		Verbose: cfg.Debug,
	})
	s.Use(rweb.RequestInfo)
	h.SetupRoutes(s)

	done := make(chan struct{})
	shutdown.InitShutdownService(done)
	shutdown.RegisterHook(func(time.Duration) error {
		return h.Close()
	})
	shutdown.RegisterHook(func(time.Duration) error {
		_, err := scanner.CleanScratch(cfg.ScratchDir)
		return err
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting readmeai server", "addr", cfg.Addr)
		errCh <- s.Run()
	}()

	select {
	case err := <-errCh:
		return serr.Wrap(err, "server stopped")
	case <-done:
		logger.Info("Server shut down")
		return nil
	}
}
