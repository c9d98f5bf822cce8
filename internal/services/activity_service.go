// Package services orchestrates domain operations across the store and the
// message broker.
package services

import (
	"context"
	"fmt"

	"outgo/internal/amqp"
	"outgo/internal/core"
	"outgo/internal/log"
	"outgo/internal/store"
)

// EventPublisher announces activity mutations to the sync pipeline. A nil
// publisher disables sync without affecting local writes.
type EventPublisher interface {
	PublishActivitySync(ctx context.Context, id, userID, version int64) error
	PublishActivityDelete(ctx context.Context, id, userID int64, snapshot amqp.ActivitySnapshot) error
}

// ActivityService owns the write path for activities: validate, persist,
// register taxonomy, publish.
type ActivityService struct {
	store     store.Store
	publisher EventPublisher
	logger    *log.Logger
}

func NewActivityService(st store.Store, publisher EventPublisher, logger *log.Logger) *ActivityService {
	return &ActivityService{
		store:     st,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentActivity),
	}
}

// List returns the user's activities, newest first.
func (s *ActivityService) List(ctx context.Context, userID int64) ([]core.Activity, error) {
	activities, err := s.store.ListActivities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// Create validates and persists a new activity, then publishes a sync event.
func (s *ActivityService) Create(ctx context.Context, a core.Activity) (core.Activity, error) {
	if err := a.Validate(); err != nil {
		return core.Activity{}, err
	}

	saved, err := s.store.InsertActivity(ctx, a)
	if err != nil {
		return core.Activity{}, fmt.Errorf("save activity: %w", err)
	}

	s.registerTaxonomy(ctx, saved)
	s.publishSync(ctx, saved.ID, saved.UserID, 1)

	return saved, nil
}

// Update validates and persists changes to an existing activity.
func (s *ActivityService) Update(ctx context.Context, a core.Activity) (core.Activity, error) {
	if err := a.Validate(); err != nil {
		return core.Activity{}, err
	}

	saved, err := s.store.UpdateActivity(ctx, a)
	if err != nil {
		return core.Activity{}, fmt.Errorf("update activity: %w", err)
	}

	s.registerTaxonomy(ctx, saved)
	s.publishSync(ctx, saved.ID, saved.UserID, 0)

	return saved, nil
}

// Delete removes the activity and publishes a delete event carrying the
// record's snapshot.
func (s *ActivityService) Delete(ctx context.Context, id, userID int64) error {
	existing, err := s.store.GetActivity(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return store.ErrNotFound
	}

	if err := s.store.DeleteActivity(ctx, id, userID); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}

	s.publishDelete(ctx, existing)
	return nil
}

// Categories returns all known category names.
func (s *ActivityService) Categories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}

// PaymentMethods returns the shared methods plus the user's own.
func (s *ActivityService) PaymentMethods(ctx context.Context, userID int64) ([]string, error) {
	return s.store.ListPaymentMethods(ctx, userID)
}

// registerTaxonomy records unseen category and payment method names so they
// show up in pickers. Failures are logged, never surfaced: the activity is
// already saved.
func (s *ActivityService) registerTaxonomy(ctx context.Context, a core.Activity) {
	if err := s.store.UpsertCategory(ctx, a.Category); err != nil {
		s.logger.WarnContext(ctx, "failed to register category",
			log.FieldCategory, a.Category, log.FieldError, err.Error())
	}
	if err := s.store.UpsertPaymentMethod(ctx, a.PaymentMethod, a.UserID); err != nil {
		s.logger.WarnContext(ctx, "failed to register payment method",
			log.FieldPayMethod, a.PaymentMethod, log.FieldError, err.Error())
	}
}

func (s *ActivityService) publishSync(ctx context.Context, id, userID, version int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishActivitySync(ctx, id, userID, version); err != nil {
		// The record is saved locally; the worker's pending sweep will
		// pick it up.
		s.logger.ErrorContext(ctx, "failed to publish sync message",
			log.FieldActivityID, id, log.FieldError, err.Error())
	}
}

func (s *ActivityService) publishDelete(ctx context.Context, a core.Activity) {
	if s.publisher == nil {
		return
	}
	snapshot := amqp.ActivitySnapshot{
		Date:          a.Date.String(),
		Description:   a.Description,
		AmountCents:   a.Amount.Cents,
		Category:      a.Category,
		PaymentMethod: a.PaymentMethod,
	}
	if err := s.publisher.PublishActivityDelete(ctx, a.ID, a.UserID, snapshot); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish delete message",
			log.FieldActivityID, a.ID, log.FieldError, err.Error())
	}
}
