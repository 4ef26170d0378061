package app

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/daymark/internal/server"
)

var serveFlagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve exposes the journal over a JSON HTTP API: entry writes with
emotion derivation, daily and weekly summaries, and week re-analysis.
Requests carry their user identity in the X-User-ID header; requests
without one act as the local CLI user.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlagAddr, "addr", "", "Listen address (default from config, :8080)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	addr := env.cfg.Server.Addr
	if serveFlagAddr != "" {
		addr = serveFlagAddr
	}

	srv := server.New(server.Config{
		Addr:        addr,
		Service:     env.service,
		Obs:         env.obs,
		Deriver:     env.deriver,
		DefaultUser: env.userID,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("daymark api listening on %s\n", addr)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}
