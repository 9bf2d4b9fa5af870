package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-matcher/internal/logger"
	"github.com/spigell/cv-matcher/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload, score and match HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8152)")
	serveCmd.Flags().String("upload-dir", "", "directory for uploaded files (default uploads)")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("upload-dir", serveCmd.Flags().Lookup("upload-dir"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-matcher", zap.String("version", version))

	svc, err := bootstrap(ctx, config, logger)
	if err != nil {
		logger.Fatal("initializing the matcher", zap.Error(err))
	}
	defer svc.Close()

	srv := server.New(svc.engine, svc.assessor, server.Config{UploadDir: config.UploadDir}, logger.Named("http"))
	if err := srv.ListenAndServe(ctx, config.Listen); err != nil {
		logger.Error("http server stopped", zap.Error(err))
	}
}
