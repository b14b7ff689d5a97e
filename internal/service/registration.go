package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/workshop-hub/internal/metrics"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/model"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/notify"
	"github.com/Shivanand-hulikatti/workshop-hub/internal/repository"
)

const defaultMailTimeout = 30 * time.Second

// RegistrationService handles attendee bookings and the confirmation mail
// that follows them.
type RegistrationService struct {
	events        EventStore
	slots         SlotStore
	registrations RegistrationStore
	notifier      notify.Notifier
	mailTimeout   time.Duration
	log           *zap.Logger

	pending sync.WaitGroup
}

// NewRegistrationService constructs a RegistrationService. mailTimeout
// bounds each background summary delivery.
func NewRegistrationService(
	events EventStore,
	slots SlotStore,
	registrations RegistrationStore,
	notifier notify.Notifier,
	mailTimeout time.Duration,
	log *zap.Logger,
) *RegistrationService {
	if mailTimeout <= 0 {
		mailTimeout = defaultMailTimeout
	}
	return &RegistrationService{
		events:        events,
		slots:         slots,
		registrations: registrations,
		notifier:      notifier,
		mailTimeout:   mailTimeout,
		log:           log,
	}
}

// Register books a topic for (email, slot). A second submission for the same
// slot moves the attendee to the new topic. On success a summary email is
// sent in the background.
func (s *RegistrationService) Register(ctx context.Context, req model.RegisterRequest) (*model.Registration, model.BookingOutcome, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	reg, outcome, err := s.book(ctx, req)
	if err != nil {
		return nil, "", err
	}

	s.dispatch(ctx, model.Summary{
		Email:    reg.Email,
		Name:     deref(reg.Name),
		Lines:    []model.SummaryLine{model.SummaryLineFor(reg)},
		IsUpdate: req.IsUpdate || outcome == model.BookingUpdated,
	})
	return reg, outcome, nil
}

// ListRegistrations returns registrations newest first.
func (s *RegistrationService) ListRegistrations(ctx context.Context, filter model.RegistrationFilter) ([]model.Registration, error) {
	filter.Email = model.NormalizeEmail(filter.Email)
	regs, err := s.registrations.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return nonNil(regs), nil
}

func (s *RegistrationService) GetRegistration(ctx context.Context, id string) (*model.Registration, error) {
	return s.registrations.GetByID(ctx, id)
}

func (s *RegistrationService) DeleteRegistration(ctx context.Context, id string) error {
	return s.registrations.Delete(ctx, id)
}

// Enroll replaces every registration req.Email holds within the event with
// the given selections. Previous registrations are removed first, then each
// selection is booked in slot order. Selections that cannot be booked are
// reported per slot in the result and joined into the returned error; the
// ones that succeeded stay booked.
func (s *RegistrationService) Enroll(ctx context.Context, eventKey string, req model.EnrollmentRequest) (*model.EnrollmentResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	event, err := s.events.Get(ctx, eventKey)
	if err != nil {
		return nil, err
	}
	slots, err := s.slots.List(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	inEvent := make(map[string]bool, len(slots))
	for _, sl := range slots {
		inEvent[sl.ID] = true
	}
	for slotID := range req.Selections {
		if !inEvent[slotID] {
			return nil, invalidf("slot %s does not belong to event %s", slotID, event.ID)
		}
	}

	replaced, err := s.registrations.DeleteForEvent(ctx, req.Email, event.ID)
	if err != nil {
		return nil, err
	}

	result := &model.EnrollmentResult{Registrations: []model.Registration{}, Replaced: replaced}
	var errs []error
	for _, sl := range slots {
		topicID, ok := req.Selections[sl.ID]
		if !ok {
			continue
		}
		reg, _, err := s.book(ctx, model.RegisterRequest{
			Email:        req.Email,
			Name:         req.Name,
			Organization: req.Organization,
			SlotID:       sl.ID,
			TopicID:      topicID,
		})
		if err != nil {
			msg, known := bookingMessage(err)
			if !known {
				return nil, err
			}
			if result.Errors == nil {
				result.Errors = make(map[string]string)
			}
			result.Errors[sl.ID] = msg
			errs = append(errs, fmt.Errorf("slot %s: %w", sl.ID, err))
			continue
		}
		result.Registrations = append(result.Registrations, *reg)
	}

	if len(result.Registrations) > 0 {
		lines := make([]model.SummaryLine, 0, len(result.Registrations))
		for i := range result.Registrations {
			lines = append(lines, model.SummaryLineFor(&result.Registrations[i]))
		}
		s.dispatch(ctx, model.Summary{
			Email:    req.Email,
			Name:     deref(req.Name),
			Lines:    lines,
			IsUpdate: replaced > 0,
		})
	}
	return result, errors.Join(errs...)
}

// SendSummary delivers a summary email synchronously.
func (s *RegistrationService) SendSummary(ctx context.Context, req model.SummaryRequest) error {
	req.Email = model.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return err
	}
	err := s.notifier.SendSummary(ctx, model.Summary{
		Email:    req.Email,
		Name:     req.Name,
		Lines:    req.Registrations,
		IsUpdate: req.IsUpdate,
	})
	metrics.RecordNotification(err == nil)
	if err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	return nil
}

// Wait blocks until background summary deliveries have finished.
func (s *RegistrationService) Wait() {
	s.pending.Wait()
}

func (s *RegistrationService) book(ctx context.Context, req model.RegisterRequest) (*model.Registration, model.BookingOutcome, error) {
	reg, outcome, err := s.registrations.Book(ctx, req)
	switch {
	case errors.Is(err, repository.ErrTopicFull):
		metrics.RecordBooking("full")
		return nil, "", err
	case err != nil:
		if _, known := bookingMessage(err); known {
			metrics.RecordBooking("rejected")
		} else {
			metrics.RecordBooking("error")
		}
		return nil, "", err
	}
	metrics.RecordBooking(string(outcome))
	return reg, outcome, nil
}

// dispatch sends a summary on its own goroutine. The request context's
// values are kept but its cancellation is not, so the mail outlives the
// response.
func (s *RegistrationService) dispatch(ctx context.Context, summary model.Summary) {
	ctx = context.WithoutCancel(ctx)
	s.pending.Go(func() {
		ctx, cancel := context.WithTimeout(ctx, s.mailTimeout)
		defer cancel()

		err := s.notifier.SendSummary(ctx, summary)
		metrics.RecordNotification(err == nil)
		if err != nil {
			s.log.Warn("summary email failed",
				zap.String("email", summary.Email),
				zap.Bool("is_update", summary.IsUpdate),
				zap.Error(err),
			)
		}
	})
}

// bookingMessage returns the per-slot message for an expected booking
// failure. known is false for infrastructure errors.
func bookingMessage(err error) (msg string, known bool) {
	switch {
	case errors.Is(err, repository.ErrTopicFull):
		return "topic is full", true
	case errors.Is(err, repository.ErrTopicSlotMismatch):
		return "topic does not belong to slot", true
	case errors.Is(err, repository.ErrNotFound):
		return "topic not found", true
	}
	return "", false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
