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

// PeriodService manages the period catalog, kept in a single partition
type PeriodService struct {
	entityService
}

// NewPeriodService creates a new period service
func NewPeriodService(store ports.ItemStore, publisher ports.EventPublisher, cfg Config, logger *zap.Logger) *PeriodService {
	return &PeriodService{entityService: newEntityService(entities.EntityPeriod, store, publisher, cfg, logger)}
}

func (s *PeriodService) Create(ctx context.Context, in entities.PeriodInput, caller *auth.Claims) (*entities.Period, error) {
	item := entities.NewPeriod(in, s.stage, utils.NowTimestamp())
	if err := s.create(ctx, entities.PeriodKey(in.Periodo), item, actorOf(caller)); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *PeriodService) Get(ctx context.Context, periodo string) (*entities.Period, error) {
	var item entities.Period
	if err := s.get(ctx, entities.PeriodKey(periodo), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// List reads the period partition in sort key order
func (s *PeriodService) List(ctx context.Context, page common.PageParams) (*Page[entities.Period], error) {
	q := ports.Query{
		PartitionAttr:  entities.AttrPK,
		PartitionValue: entities.PeriodPartition,
		SortAttr:       entities.AttrSK,
		SortPrefix:     entities.PeriodSKPrefix,
	}

	items := []entities.Period{}
	next, err := s.query(ctx, q, page, &items)
	if err != nil {
		return nil, err
	}
	return &Page[entities.Period]{Items: items, NextCursor: next}, nil
}
