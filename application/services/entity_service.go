// Package services holds the per-entity use cases. Each service validates
// nothing itself: it receives already validated input from the HTTP layer,
// derives keys, talks to the item store and emits audit events.
package services

import (
	"context"

	"go.uber.org/zap"

	"vector-pai/application/ports"
	"vector-pai/domain/entities"
	"vector-pai/domain/events"
	"vector-pai/pkg/common"
	"vector-pai/pkg/errors"
	"vector-pai/pkg/utils"
)

// Config carries the settings shared by every entity service
type Config struct {
	// Stage is the item type suffix, e.g. "dev" gives RK_PAI_*_DEV
	Stage string
}

// entityService holds the store plumbing shared by every entity service
type entityService struct {
	entity    string
	store     ports.ItemStore
	publisher ports.EventPublisher
	stage     string
	logger    *zap.Logger
}

func newEntityService(entity string, store ports.ItemStore, publisher ports.EventPublisher, cfg Config, logger *zap.Logger) entityService {
	return entityService{
		entity:    entity,
		store:     store,
		publisher: publisher,
		stage:     cfg.Stage,
		logger:    logger.With(zap.String("entity", entity)),
	}
}

func (s *entityService) create(ctx context.Context, key entities.Key, item interface{}, actor string) error {
	if err := s.store.Create(ctx, item); err != nil {
		if errors.IsConflict(err) {
			return errors.NewConflictError(s.entity + " already exists").WithCause(err).WithDetail("key", key.String())
		}
		return err
	}
	s.publish(ctx, events.OperationCreated, key, actor, item)
	return nil
}

func (s *entityService) get(ctx context.Context, key entities.Key, out interface{}) error {
	return s.notFound(s.store.Get(ctx, key, out))
}

func (s *entityService) update(ctx context.Context, key entities.Key, changes entities.Changes, out interface{}, actor string) error {
	if err := s.notFound(s.store.Update(ctx, key, changes, out)); err != nil {
		return err
	}
	s.publish(ctx, events.OperationUpdated, key, actor, out)
	return nil
}

func (s *entityService) remove(ctx context.Context, key entities.Key, out interface{}, actor string) error {
	if err := s.notFound(s.store.Delete(ctx, key, out)); err != nil {
		return err
	}
	s.publish(ctx, events.OperationDeleted, key, actor, out)
	return nil
}

func (s *entityService) query(ctx context.Context, q ports.Query, page common.PageParams, out interface{}) (string, error) {
	q.Limit = page.Limit
	q.Cursor = page.Cursor
	return s.store.Query(ctx, q, out)
}

func (s *entityService) scan(ctx context.Context, itemType string, filters []ports.Condition, page common.PageParams, out interface{}) (string, error) {
	all := append([]ports.Condition{{Attr: entities.AttrItemType, Value: itemType}}, filters...)
	return s.store.Scan(ctx, ports.ScanQuery{Filters: all, Limit: page.Limit, Cursor: page.Cursor}, out)
}

// notFound names the entity in store not-found errors
func (s *entityService) notFound(err error) error {
	if err != nil && errors.IsNotFound(err) {
		return errors.NewNotFoundError(s.entity).WithCause(err)
	}
	return err
}

// publish emits an audit event. Failures are logged and never reach the caller.
func (s *entityService) publish(ctx context.Context, op events.Operation, key entities.Key, actor string, item interface{}) {
	if s.publisher == nil {
		return
	}
	event := events.NewEntityChanged(s.entity, op, key.String(), actor, item, utils.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish audit event",
			zap.String("event_type", event.EventType),
			zap.String("key", key.String()),
			zap.Error(err),
		)
	}
}
