package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"foodgram/cmd/config"
	migration "foodgram/cmd/database/migrate"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Migrate the schema before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := migration.Migrate(db); err != nil {
			return err
		}
	}

	store, err := config.NewStorage(ctx)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	app, err := config.NewApp(db, store, mailing.NewMailer(mailing.LoadMailConfig()))
	if err != nil {
		return err
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		zap.L().Info("shutting down")
		_ = app.Shutdown()
	}()

	addr := ":" + utils.GetConfig("APP_PORT")
	zap.L().Info("starting server", zap.String("addr", addr))
	return app.Listen(addr)
}
