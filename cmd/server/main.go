package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v82"
	otellib "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/angel-coaching/site-api/cmd/server/internal/routes"
	"github.com/angel-coaching/site-api/cmd/server/internal/routes/forms"
	"github.com/angel-coaching/site-api/cmd/server/internal/routes/webhooks"
	"github.com/angel-coaching/site-api/internal/config"
	"github.com/angel-coaching/site-api/internal/forward"
	"github.com/angel-coaching/site-api/internal/logger"
	"github.com/angel-coaching/site-api/internal/mail"
	"github.com/angel-coaching/site-api/internal/otel"
)

const name string = "github.com/angel-coaching/site-api/server"

var tracer = otellib.Tracer(name)

type server struct {
	router       *echo.Echo
	config       *config.Config
	otelShutdown func(context.Context) error
}

func initServer(ctx context.Context) (*server, error) {
	server := new(server)

	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize server config: %w", err)
	}
	server.config = cfg

	shutdownOTel, err := otel.SetupOTelSDK(ctx, cfg.Logging.UseOTLP)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OTEL SDK: %w", err)
	}
	defer func() {
		// Something failed to initialize, make sure everything gets flushed to the server
		if server.otelShutdown == nil {
			otelShutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				time.Second*time.Duration(cfg.GracefulShutdownSecs),
			)
			defer cancel()

			if err = shutdownOTel(otelShutdownCtx); err != nil {
				logger.Logger.Error("failed to flush otel data", "error", err)
			}
		}
	}()

	_, span := tracer.Start(ctx, "initServer")
	defer span.End()

	logger.LogLevel.Set(slog.Level(cfg.Logging.App.Level))

	// The secret key is only needed if outbound Stripe API calls are ever
	// made; webhook verification works without it.
	if cfg.Stripe.SecretKey != "" {
		stripe.Key = cfg.Stripe.SecretKey
	}

	span.AddEvent("initialized logging")

	e, err := routes.BuildEcho(logger.Logger, cfg.StaticDir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build router")
		return nil, fmt.Errorf("failed to build router: %w", err)
	}
	server.router = e

	span.AddEvent("built router")

	forwarder := forward.NewHTTPForwarder(&http.Client{Timeout: 30 * time.Second})
	sender := mail.NewResendSender(cfg.Email.APIKey)

	formsHandler := forms.NewHandler(cfg, forwarder, sender)
	formsHandler.AddRoutes(e)

	webhooksHandler := webhooks.CreateHandler(cfg)
	webhooksHandler.AddRoutes(e)

	span.AddEvent("registered routes")

	server.otelShutdown = shutdownOTel

	span.SetStatus(codes.Ok, "")
	span.RecordError(nil)
	return server, nil
}

func (s *server) Start() error {
	logger.Logger.Info("Starting services...")

	err := s.router.Start(s.config.ListenAddress)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *server) Shutdown() error {
	var errs error

	ctx, cancelTimeout := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(s.config.GracefulShutdownSecs),
	)
	defer cancelTimeout()

	if err := s.router.Shutdown(ctx); err != nil {
		errs = errors.Join(errs, err)
	}

	if s.otelShutdown != nil {
		errs = errors.Join(errs, s.otelShutdown(ctx))
	}

	return errs
}

func main() {
	ctx, cancelSignal := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)

	logger.InitSlog()

	server, err := initServer(ctx)
	if err != nil {
		logger.Logger.Error(err.Error())
		cancelSignal()
		os.Exit(1)
	}

	errch := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Got shutdown signal!")
		errch <- server.Shutdown()
		close(errch)
	}()

	if err := server.Start(); err != nil {
		logger.Logger.Error(err.Error())
		cancelSignal()
		os.Exit(1)
	}

	if err := <-errch; err != nil {
		logger.Logger.Error("Error shutting down server", "error", err)
	}

	cancelSignal()
}
