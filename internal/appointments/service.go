package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbook/appointment-flow/internal/validation"
)

// ErrEventPublish marks a failed publish after the appointment was already
// persisted. The record exists; callers decide how to report the degraded
// result. Reconciliation (re-publish) is not handled here.
var ErrEventPublish = errors.New("appointment event publish failed")

// EventPublisher announces created appointments to downstream consumers.
// Implemented by awsclients.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, payload []byte, attributes map[string]string) (string, error)
}

// Service is the appointment workflow: create (validate, persist, publish),
// query by insured id, and the idempotent terminal transitions driven by
// out-of-band confirmation messages.
type Service struct {
	store     *Store
	publisher EventPublisher
	logger    *zap.Logger
	validate  *validatorv10.Validate
	nowFunc   func() time.Time
}

// NewService wires the workflow with its store and publisher. Clients are
// constructed once at process start and injected; the service holds no
// other state.
func NewService(store *Store, publisher EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		validate:  validation.New(),
		nowFunc:   time.Now,
	}
}

// Create validates the request, persists the appointment with status
// pending, then publishes it with countryISO as a routing attribute.
// Persistence strictly precedes publication. If the publish fails the
// persisted record is NOT rolled back: Create returns the record together
// with an error wrapping ErrEventPublish.
func (s *Service) Create(ctx context.Context, req validation.CreateAppointmentRequest) (*Appointment, error) {
	if errs := validation.Check(s.validate, req); errs != nil {
		return nil, errs
	}

	now := s.nowFunc().UTC()
	appt := &Appointment{
		InsuredID:  req.InsuredID,
		ScheduleID: req.ScheduleID,
		Status:     StatusPending,
		CountryISO: req.CountryISO,
		ScheduleData: ScheduleData{
			CenterID:    req.ScheduleData.CenterID,
			SpecialtyID: req.ScheduleData.SpecialtyID,
			MedicID:     req.ScheduleData.MedicID,
			Date:        req.ScheduleData.Date,
		},
		CreatedAt: now.Format(time.RFC3339),
	}

	if err := s.store.Put(ctx, *appt); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(appt)
	if err != nil {
		return appt, fmt.Errorf("%w: marshal payload: %v", ErrEventPublish, err)
	}

	attrs := map[string]string{
		"countryISO": appt.CountryISO,
		"eventId":    uuid.NewString(),
	}
	messageID, err := s.publisher.Publish(ctx, payload, attrs)
	if err != nil {
		s.logger.Error("appointment event publish failed",
			zap.String("insuredId", appt.InsuredID),
			zap.Int("scheduleId", appt.ScheduleID),
			zap.Error(err),
		)
		return appt, fmt.Errorf("%w: %v", ErrEventPublish, err)
	}

	s.logger.Info("appointment created",
		zap.String("insuredId", appt.InsuredID),
		zap.Int("scheduleId", appt.ScheduleID),
		zap.String("countryISO", appt.CountryISO),
		zap.String("messageId", messageID),
	)
	return appt, nil
}

// GetByInsuredID returns every appointment stored under the insured id.
// No records is an empty slice, not an error.
func (s *Service) GetByInsuredID(ctx context.Context, insuredID string) ([]Appointment, error) {
	if errs := validation.InsuredID(insuredID); errs != nil {
		return nil, errs
	}
	return s.store.QueryByInsuredID(ctx, insuredID)
}

// Complete applies the pending -> completed transition. Repeated delivery
// of the same confirmation never changes the outcome or raises an error.
func (s *Service) Complete(ctx context.Context, insuredID string, scheduleID int) (*Appointment, Outcome, error) {
	return s.transition(ctx, insuredID, scheduleID, StatusCompleted)
}

// Fail applies the pending -> failed transition, used when completion
// processing determined the appointment cannot be honored.
func (s *Service) Fail(ctx context.Context, insuredID string, scheduleID int) (*Appointment, Outcome, error) {
	return s.transition(ctx, insuredID, scheduleID, StatusFailed)
}

func (s *Service) transition(ctx context.Context, insuredID string, scheduleID int, next Status) (*Appointment, Outcome, error) {
	appt, err := s.store.Get(ctx, insuredID, scheduleID)
	if err != nil {
		return nil, OutcomeNotFound, err
	}
	if appt == nil {
		return nil, OutcomeNotFound, nil
	}
	if appt.Status.Terminal() {
		return appt, OutcomeNoop, nil
	}

	updated, err := s.store.UpdateStatusIf(ctx, insuredID, scheduleID, StatusPending, next)
	if err != nil {
		return nil, OutcomeNotFound, err
	}
	if updated == nil {
		// Lost the race against a concurrent transition; report whatever
		// state won.
		current, err := s.store.Get(ctx, insuredID, scheduleID)
		if err != nil {
			return nil, OutcomeNotFound, err
		}
		if current == nil {
			return nil, OutcomeNotFound, nil
		}
		return current, OutcomeNoop, nil
	}

	s.logger.Info("appointment status updated",
		zap.String("insuredId", insuredID),
		zap.Int("scheduleId", scheduleID),
		zap.String("status", string(next)),
	)
	return updated, OutcomeTransitioned, nil
}
