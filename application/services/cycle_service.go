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

// CycleService manages contract cycles and their GSI8 projection
type CycleService struct {
	entityService
}

// NewCycleService creates a new cycle service
func NewCycleService(store ports.ItemStore, publisher ports.EventPublisher, cfg Config, logger *zap.Logger) *CycleService {
	return &CycleService{entityService: newEntityService(entities.EntityCycle, store, publisher, cfg, logger)}
}

// Create stores a new cycle and projects it onto GSI8
func (s *CycleService) Create(ctx context.Context, in entities.CycleInput, caller *auth.Claims) (*entities.Cycle, error) {
	actor := actorOf(caller)
	item := entities.NewCycle(in, s.stage, actor, utils.NowTimestamp())
	if err := s.create(ctx, entities.CycleKey(in.IDCiclo), item, actor); err != nil {
		return nil, err
	}
	return &item, nil
}

// Get reads one cycle by id
func (s *CycleService) Get(ctx context.Context, idCiclo int64) (*entities.Cycle, error) {
	var item entities.Cycle
	if err := s.get(ctx, entities.CycleKey(idCiclo), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update merges patch into the current cycle, recomputing GSI8 keys
func (s *CycleService) Update(ctx context.Context, idCiclo int64, patch entities.CyclePatch, caller *auth.Claims) (*entities.Cycle, error) {
	current, err := s.Get(ctx, idCiclo)
	if err != nil {
		return nil, err
	}

	actor := actorOf(caller)
	var item entities.Cycle
	if err := s.update(ctx, entities.CycleKey(idCiclo), patch.Changes(*current, actor), &item, actor); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a cycle and returns its prior image
func (s *CycleService) Delete(ctx context.Context, idCiclo int64, caller *auth.Claims) (*Deleted[entities.Cycle], error) {
	var item entities.Cycle
	if err := s.remove(ctx, entities.CycleKey(idCiclo), &item, actorOf(caller)); err != nil {
		return nil, err
	}
	return newDeleted(item), nil
}

// List queries GSI8 when an origin is given and scans otherwise. activo
// narrows every mode.
func (s *CycleService) List(ctx context.Context, f entities.CycleFilter, page common.PageParams) (*Page[entities.Cycle], error) {
	var filters []ports.Condition
	if f.Activo != nil {
		filters = append(filters, ports.Condition{Attr: "activo", Value: *f.Activo})
	}

	items := []entities.Cycle{}
	var next string
	var err error

	if f.IDOrigen != nil {
		q := ports.Query{
			Index:          entities.IndexCyclesByPair,
			PartitionAttr:  entities.AttrGSI8PK,
			PartitionValue: entities.OriginIndexKey(*f.IDOrigen),
			Filters:        filters,
		}
		if f.IDContrato != nil {
			q.SortAttr = entities.AttrGSI8SK
			q.SortPrefix = entities.ContractIndexPrefix(*f.IDContrato)
		}
		next, err = s.query(ctx, q, page, &items)
	} else {
		next, err = s.scan(ctx, entities.CycleItemType(s.stage), filters, page, &items)
	}
	if err != nil {
		return nil, err
	}
	return &Page[entities.Cycle]{Items: items, NextCursor: next}, nil
}
