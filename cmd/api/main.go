package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/medbook/appointment-flow/internal/appointments"
	"github.com/medbook/appointment-flow/internal/awsclients"
	"github.com/medbook/appointment-flow/internal/handlers"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterAppointmentRoutes(r, cfg)

	return r
}

func newLogger() *zap.Logger {
	if os.Getenv("APP_ENV") == "development" {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("failed to build logger: %v", err)
		}
		return l
	}
	l, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return l
}

func main() {
	// .env is only present on developer machines
	_ = godotenv.Load()

	logger := newLogger()
	defer logger.Sync()

	clients, err := awsclients.New(context.Background())
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}

	store := appointments.NewStore(clients.DynamoDB, os.Getenv("APPOINTMENTS_TABLE"))
	publisher := awsclients.NewPublisher(clients.SNS, os.Getenv("APPOINTMENTS_TOPIC_ARN"))
	service := appointments.NewService(store, publisher, logger)
	metrics := awsclients.NewMetrics(clients.CloudWatch, "AppointmentFlow", logger)

	cfg := handlers.HandlerConfig{
		Service: service,
		Metrics: metrics,
		Logger:  logger,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		logger.Info("running local server", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
