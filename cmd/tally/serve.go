package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/tally/internal/certs"
	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/server"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP processing service",
		RunE:  runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().Int("max-concurrent", 0, "maximum concurrent processing runs")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")

	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.max_concurrent", cmd.Flags().Lookup("max-concurrent"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	serverConfig, err := config.LoadServerConfig()
	if err != nil {
		return err
	}

	processor, err := newProcessor("")
	if err != nil {
		return err
	}

	opts := []server.Option{server.WithLogger(slog.Default())}
	if serverConfig.TLS {
		cert, err := certs.NewStore(serverConfig.CertDir).Certificate()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		opts = append(opts, server.WithTLSCertificate(cert))
	}

	srv, err := server.New(processor, *serverConfig, opts...)
	if err != nil {
		return err
	}

	ctx, stop := cli.NewInterruptHandler(cmd.ErrOrStderr()).HandleInterrupts(cmd.Context())
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}
