package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/medbook/appointment-flow/internal/appointments"
	"github.com/medbook/appointment-flow/internal/awsclients"
)

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

	var deadLetter *awsclients.DeadLetter
	if url := os.Getenv("COMPLETIONS_DLQ_URL"); url != "" {
		deadLetter = awsclients.NewDeadLetter(clients.SQS, url)
	}

	processor := NewProcessor(service, deadLetter, metrics, logger)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"insuredId":"00012","scheduleId":16}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{
					MessageId: "local-message-1",
					Body:      testBody,
				},
			},
		}
		resp, err := processor.Handle(context.Background(), event)
		if err != nil {
			logger.Fatal("local handler error", zap.Error(err))
		}
		logger.Info("local run finished", zap.Int("failures", len(resp.BatchItemFailures)))
		return
	}

	lambda.Start(processor.Handle)
}
