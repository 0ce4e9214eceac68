package services

import (
	"context"

	"go.uber.org/zap"

	"vector-pai/application/ports"
	"vector-pai/domain/entities"
	"vector-pai/pkg/auth"
	"vector-pai/pkg/common"
	"vector-pai/pkg/utils"
)

// Deleted is the result of a delete: the prior image and when it was removed
type Deleted[T any] struct {
	Deleted   bool   `json:"deleted"`
	Item      T      `json:"item"`
	DeletedAt string `json:"deleted_at"`
}

func newDeleted[T any](item T) *Deleted[T] {
	return &Deleted[T]{Deleted: true, Item: item, DeletedAt: utils.NowTimestamp()}
}

// Page is one page of a list operation
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// CatalogService manages a flat catalog keyed by a single numeric id
type CatalogService[T any] struct {
	entityService
	key      func(id int64) entities.Key
	itemType func(stage string) string
	build    func(in entities.CatalogInput, stage, now string) T
}

// NewGroupService creates the catalog group service
func NewGroupService(store ports.ItemStore, publisher ports.EventPublisher, cfg Config, logger *zap.Logger) *CatalogService[entities.Group] {
	return &CatalogService[entities.Group]{
		entityService: newEntityService(entities.EntityGroup, store, publisher, cfg, logger),
		key:           entities.GroupKey,
		itemType:      entities.GroupItemType,
		build:         entities.NewGroup,
	}
}

// NewOriginService creates the catalog origin service
func NewOriginService(store ports.ItemStore, publisher ports.EventPublisher, cfg Config, logger *zap.Logger) *CatalogService[entities.Origin] {
	return &CatalogService[entities.Origin]{
		entityService: newEntityService(entities.EntityOrigin, store, publisher, cfg, logger),
		key:           entities.OriginKey,
		itemType:      entities.OriginItemType,
		build:         entities.NewOrigin,
	}
}

// Create stores a new catalog entry
func (s *CatalogService[T]) Create(ctx context.Context, in entities.CatalogInput, caller *auth.Claims) (*T, error) {
	item := s.build(in, s.stage, utils.NowTimestamp())
	if err := s.create(ctx, s.key(in.ID), item, actorOf(caller)); err != nil {
		return nil, err
	}
	return &item, nil
}

// Get reads one catalog entry
func (s *CatalogService[T]) Get(ctx context.Context, id int64) (*T, error) {
	var item T
	if err := s.get(ctx, s.key(id), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies changes to an existing entry
func (s *CatalogService[T]) Update(ctx context.Context, id int64, changes entities.Changes, caller *auth.Claims) (*T, error) {
	var item T
	if err := s.update(ctx, s.key(id), changes, &item, actorOf(caller)); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes an entry and returns its prior image
func (s *CatalogService[T]) Delete(ctx context.Context, id int64, caller *auth.Claims) (*Deleted[T], error) {
	var item T
	if err := s.remove(ctx, s.key(id), &item, actorOf(caller)); err != nil {
		return nil, err
	}
	return newDeleted(item), nil
}

// List pages through every entry of the catalog
func (s *CatalogService[T]) List(ctx context.Context, page common.PageParams) (*Page[T], error) {
	items := []T{}
	next, err := s.scan(ctx, s.itemType(s.stage), nil, page, &items)
	if err != nil {
		return nil, err
	}
	return &Page[T]{Items: items, NextCursor: next}, nil
}

func actorOf(c *auth.Claims) string {
	if c == nil {
		return ""
	}
	return c.Subject
}
