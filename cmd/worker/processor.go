package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/medbook/appointment-flow/internal/appointments"
	"github.com/medbook/appointment-flow/internal/awsclients"
)

// itemResult classifies what should happen to one queue record.
type itemResult int

const (
	// itemOK acks the record: the transition applied or was already applied.
	itemOK itemResult = iota
	// itemRetry reports the record as a batch item failure so the queue
	// redelivers only this record.
	itemRetry
	// itemDead acks the record after forwarding it to the dead-letter
	// queue: redelivery cannot fix a malformed payload.
	itemDead
)

// Processor handles confirmation messages and drives appointment status
// transitions.
type Processor struct {
	service    *appointments.Service
	deadLetter *awsclients.DeadLetter
	metrics    *awsclients.Metrics
	logger     *zap.Logger
}

// NewProcessor creates a worker processor with its dependencies injected.
func NewProcessor(service *appointments.Service, deadLetter *awsclients.DeadLetter, metrics *awsclients.Metrics, logger *zap.Logger) *Processor {
	return &Processor{
		service:    service,
		deadLetter: deadLetter,
		metrics:    metrics,
		logger:     logger,
	}
}

// Handle processes an SQS batch. One record's failure never stops the
// rest: each record gets its own outcome and only retryable failures are
// reported back for redelivery.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	p.logger.Info("processing confirmation batch", zap.Int("records", len(ev.Records)))

	var resp events.SQSEventResponse
	for _, rec := range ev.Records {
		if p.processRecord(ctx, rec) == itemRetry {
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: rec.MessageId,
			})
		}
	}
	return resp, nil
}

func (p *Processor) processRecord(ctx context.Context, rec events.SQSMessage) itemResult {
	msg, err := decodeConfirmation(rec.Body)
	if err != nil {
		p.logger.Error("malformed confirmation message",
			zap.String("messageId", rec.MessageId),
			zap.Error(err),
		)
		p.metrics.Count(ctx, "ConfirmationMalformed", nil)
		if dlErr := p.deadLetter.Forward(ctx, rec.Body, "malformed_confirmation"); dlErr != nil {
			p.logger.Error("dead-letter forward failed",
				zap.String("messageId", rec.MessageId),
				zap.Error(dlErr),
			)
		}
		return itemDead
	}

	var (
		appt    *appointments.Appointment
		outcome appointments.Outcome
	)
	if msg.Status == string(appointments.StatusFailed) {
		appt, outcome, err = p.service.Fail(ctx, msg.InsuredID, msg.ScheduleID)
	} else {
		appt, outcome, err = p.service.Complete(ctx, msg.InsuredID, msg.ScheduleID)
	}
	if err != nil {
		p.logger.Error("confirmation processing failed",
			zap.String("messageId", rec.MessageId),
			zap.String("insuredId", msg.InsuredID),
			zap.Int("scheduleId", msg.ScheduleID),
			zap.Error(err),
		)
		p.metrics.Count(ctx, "ConfirmationError", nil)
		return itemRetry
	}

	switch outcome {
	case appointments.OutcomeNotFound:
		// The create write may not be visible yet under weak consistency;
		// let the queue redeliver.
		p.logger.Warn("appointment not found, leaving for redelivery",
			zap.String("messageId", rec.MessageId),
			zap.String("insuredId", msg.InsuredID),
			zap.Int("scheduleId", msg.ScheduleID),
		)
		return itemRetry
	case appointments.OutcomeNoop:
		p.logger.Info("confirmation already applied",
			zap.String("insuredId", msg.InsuredID),
			zap.Int("scheduleId", msg.ScheduleID),
			zap.String("status", string(appt.Status)),
		)
		return itemOK
	default:
		p.logger.Info("appointment confirmed",
			zap.String("insuredId", msg.InsuredID),
			zap.Int("scheduleId", msg.ScheduleID),
			zap.String("status", string(appt.Status)),
		)
		if appt.Status == appointments.StatusFailed {
			p.metrics.Count(ctx, "AppointmentFailed", nil)
		} else {
			p.metrics.Count(ctx, "AppointmentCompleted", nil)
		}
		return itemOK
	}
}
