package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"ai-language-tutor-service/internal/app"
	"ai-language-tutor-service/internal/config"
	apihttp "ai-language-tutor-service/internal/http"
	"ai-language-tutor-service/internal/observability"
	"ai-language-tutor-service/internal/observability/metrics"
	"ai-language-tutor-service/internal/service/prompt"
	"ai-language-tutor-service/internal/service/quiz"
	"ai-language-tutor-service/internal/transport/telegram"
)

// healthService is the name reported by the gRPC health server besides "".
const healthService = "ai.language.tutor.TutorService"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tutor",
		Short:         "AI language tutor chat service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newQuizCmd())
	root.AddCommand(newCatalogCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP, gRPC health, metrics and Telegram surfaces",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func newQuizCmd() *cobra.Command {
	quizCmd := &cobra.Command{Use: "quiz", Short: "Quiz tooling"}

	quizCmd.AddCommand(&cobra.Command{
		Use:   "parse <file>",
		Short: "Parse model output into quiz questions and print them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read quiz text: %w", err)
			}
			res := quiz.Parse(string(data))
			out := cmd.OutOrStdout()
			if len(res.Questions) == 0 {
				_, _ = fmt.Fprintln(out, "no questions")
			} else {
				_, _ = fmt.Fprintln(out, quiz.Format(res.Questions))
			}
			_, _ = fmt.Fprintf(out, "\nparsed=%d skipped=%d\n", len(res.Questions), res.Skipped)
			return nil
		},
	})
	return quizCmd
}

func newCatalogCmd() *cobra.Command {
	var path string

	catalogCmd := &cobra.Command{Use: "catalog", Short: "Language catalog commands"}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the learnable languages and their voices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := prompt.DefaultCatalog()
			if path != "" {
				loaded, err := prompt.LoadCatalog(path)
				if err != nil {
					return err
				}
				catalog = loaded
			}
			for _, l := range catalog.Languages {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", l.Name, l.Code, l.Locale, catalog.VoiceFor(l.Name))
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&path, "file", "", "YAML catalog to load instead of the built-in one")

	catalogCmd.AddCommand(listCmd)
	return catalogCmd
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := application.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Shutdown completed with errors")
		}
	}()

	metricsServer := observability.NewServer(cfg.Service.MetricsAddr, application.Ready)
	metricsServer.Start()

	lis, err := net.Listen("tcp", ":"+cfg.Service.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen for grpc: %w", err)
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(observability.UnaryServerInterceptor(metrics.DefaultMetrics)),
		grpc.StreamInterceptor(observability.StreamServerInterceptor(metrics.DefaultMetrics)),
	)

	// gRPC health for orchestrator probes
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthService, grpc_health_v1.HealthCheckResponse_SERVING)

	// Enable gRPC reflection for debugging tools like grpcurl
	reflection.Register(grpcServer)

	go func() {
		log.Info().Str("port", cfg.Service.GRPCPort).Msg("gRPC health server started")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("gRPC serve failed")
		}
	}()

	httpServer := &http.Server{
		Addr: ":" + cfg.Service.HTTPPort,
		Handler: apihttp.NewRouter(apihttp.Deps{
			Handler:  application.Router,
			Sessions: application.Sessions,
			Journal:  application.Journal,
			Ready:    application.Ready,
			// base64 grows audio by a third; leave room for the JSON envelope
			MaxBodyBytes: cfg.Voice.MaxAudioBytes*4/3 + 64<<10,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Service.HTTPPort).Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	telegramDone := make(chan struct{})
	if cfg.Telegram.Token != "" {
		tg, err := telegram.New(telegram.Config{
			Token:         cfg.Telegram.Token,
			PollTimeout:   time.Duration(cfg.Telegram.PollTimeout) * time.Second,
			Debug:         cfg.Telegram.Debug,
			MaxAudioBytes: cfg.Voice.MaxAudioBytes,
		}, application.Router)
		if err != nil {
			grpcServer.Stop()
			return err
		}
		go func() {
			defer close(telegramDone)
			if err := tg.Run(ctx); err != nil {
				log.Error().Err(err).Msg("Telegram transport stopped")
			}
		}()
	} else {
		log.Info().Msg("TELEGRAM_BOT_TOKEN not set, Telegram transport disabled")
		close(telegramDone)
	}

	if err := application.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(healthService, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	<-telegramDone
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Metrics server shutdown failed")
	}
	grpcServer.GracefulStop()
	return nil
}
