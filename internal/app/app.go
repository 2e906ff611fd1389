package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/driano7/XocoCafe-sub000/internal/dal/postgres"
	"github.com/driano7/XocoCafe-sub000/internal/dal/rabbitmq"
	outboxrepo "github.com/driano7/XocoCafe-sub000/internal/dal/repositories/outbox/postgres"
	recordrepo "github.com/driano7/XocoCafe-sub000/internal/dal/repositories/record/postgres"
	"github.com/driano7/XocoCafe-sub000/internal/fieldcrypt"
	"github.com/driano7/XocoCafe-sub000/internal/otel"
	"github.com/driano7/XocoCafe-sub000/internal/service/services/ticketsvc"
	grpctransport "github.com/driano7/XocoCafe-sub000/internal/transport/grpc"
	httptransport "github.com/driano7/XocoCafe-sub000/internal/transport/http"
	outboxworker "github.com/driano7/XocoCafe-sub000/internal/worker/outbox"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	ticketSvc      *ticketsvc.TicketService
	httpTransport  *httptransport.HTTPTransport
	grpcTransport  *grpctransport.GRPCTransport
	outboxWorker   *outboxworker.Worker
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitMqClient := rabbitmq.MustNewClient()
	rabbitMqClient.MustDeclareTopology()

	recordRepository := recordrepo.NewRecordRepository(postgresClient.Pool())
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient.Pool())

	encryptionKey := os.Getenv("FIELD_ENCRYPTION_KEY")
	if encryptionKey == "" {
		slog.Warn("FIELD_ENCRYPTION_KEY is not set, customer names will be null")
	}

	ticketSvc := ticketsvc.MustNewTicketService(
		ticketsvc.WithRecordStore(recordRepository),
		ticketsvc.WithOutboxRepository(outboxRepository),
		ticketsvc.WithDecrypter(fieldcrypt.New(encryptionKey, viper.GetInt("fieldcrypt.iterations"))),
	)

	httpTransport := httptransport.NewHTTPTransport(ticketSvc, postgresClient)
	httpTransport.RegisterRoutes()

	grpcTransport := grpctransport.NewGRPCTransport(ticketSvc)

	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	return &App{
		ticketSvc:      ticketSvc,
		httpTransport:  httpTransport,
		grpcTransport:  grpcTransport,
		outboxWorker:   outboxWorker,
		rabbitMqClient: rabbitMqClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.httpTransport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		if err := a.grpcTransport.Run(); err != nil {
			slog.Error("gRPC server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown stops the transports first, then the worker, and closes
// the broker, database and tracer last.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpTransport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.grpcTransport.Shutdown(ctx); err != nil {
		slog.Error("gRPC server shutdown error", "error", err)
	} else {
		slog.Info("gRPC server stopped gracefully")
	}

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(ctx); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	select {
	case <-ctx.Done():
		slog.Warn("Shutdown timeout exceeded")
	default:
		slog.Info("Application shutdown complete")
	}
}
