package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Capi12YT/demo-avoris/mongoinit/config"
	constant "github.com/Capi12YT/demo-avoris/mongoinit/constants"
	"github.com/Capi12YT/demo-avoris/mongoinit/log"
	"github.com/Capi12YT/demo-avoris/mongoinit/mongo"
	"github.com/Capi12YT/demo-avoris/mongoinit/opentelemetry/metrics"
	"github.com/Capi12YT/demo-avoris/mongoinit/provision"
	libZap "github.com/Capi12YT/demo-avoris/mongoinit/zap"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

// These variables are set with -ldflags at build time.
var (
	Version     = "devel"
	GitRevision = "devel"
)

const closeTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var uri string

	cmd := &cobra.Command{
		Use:   "mongo-init",
		Short: "Provision the application MongoDB database",
		Long: "mongo-init runs once against a fresh MongoDB server. It selects the application database,\n" +
			"creates the application user with readWrite on it, creates the searches collection and a\n" +
			"unique index on searchId. Running it again fails because the user already exists.",
		Args:          cobra.NoArgs,
		Version:       strings.Join([]string{Version, GitRevision}, "\t"),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if uri != "" {
				cfg.URI = uri
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&uri, "uri", "", "MongoDB connection URI, overrides MONGO_INIT_URI")

	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	environment, err := libZap.ParseEnvironment(cfg.EnvName)
	if err != nil {
		return err
	}

	logger, err := libZap.New(libZap.Config{
		Environment: environment,
		Level:       cfg.LogLevel,
		ServiceName: constant.TelemetryLibraryName,
	})
	if err != nil {
		return err
	}

	defer func() { _ = logger.Sync(context.Background()) }()

	factory, err := metrics.NewFactory(otel.GetMeterProvider().Meter(constant.TelemetryLibraryName), logger)
	if err != nil {
		return err
	}

	uri, err := cfg.MongoURI()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.NewClient(ctx, mongo.Config{
		URI:                    uri,
		Database:               cfg.Database,
		ServerSelectionTimeout: cfg.ServerSelectionTimeout,
		TLS:                    cfg.TLS(),
		Logger:                 logger,
		MetricsFactory:         factory,
	})
	if err != nil {
		log.SafeError(ctx, logger, "failed to connect to mongo", err, environment.IsProduction())

		return err
	}

	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), closeTimeout)
		defer closeCancel()

		if err := client.Close(closeCtx); err != nil {
			logger.Log(closeCtx, log.LevelWarn, "failed to close mongo client", log.Err(err))
		}
	}()

	provisioner, err := provision.NewProvisioner(client,
		provision.WithLogger(logger),
		provision.WithMetrics(factory),
		provision.WithProduction(environment.IsProduction()),
	)
	if err != nil {
		return err
	}

	_, err = provisioner.Run(ctx, cfg.Plan())

	return err
}
