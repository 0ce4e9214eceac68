package services

import (
	"context"

	"go.uber.org/zap"

	"vector-pai/application/ports"
	"vector-pai/domain/entities"
	"vector-pai/pkg/auth"
	"vector-pai/pkg/common"
	"vector-pai/pkg/errors"
	"vector-pai/pkg/utils"
)

// ContractService manages contracts and their GSI7 projection
type ContractService struct {
	entityService
}

// NewContractService creates a new contract service
func NewContractService(store ports.ItemStore, publisher ports.EventPublisher, cfg Config, logger *zap.Logger) *ContractService {
	return &ContractService{entityService: newEntityService(entities.EntityContract, store, publisher, cfg, logger)}
}

// Create stores a new contract
func (s *ContractService) Create(ctx context.Context, in entities.ContractInput, caller *auth.Claims) (*entities.Contract, error) {
	actor := actorOf(caller)
	item := entities.NewContract(in, s.stage, actor, utils.NowTimestamp())
	if err := s.create(ctx, entities.ContractKey(in.IDEmpresa), item, actor); err != nil {
		return nil, err
	}
	return &item, nil
}

// Get reads one contract by company
func (s *ContractService) Get(ctx context.Context, idEmpresa int64) (*entities.Contract, error) {
	var item entities.Contract
	if err := s.get(ctx, entities.ContractKey(idEmpresa), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update merges patch into the current contract. The current item is read
// first so index keys can be derived from the merged values.
func (s *ContractService) Update(ctx context.Context, idEmpresa int64, patch entities.ContractPatch, caller *auth.Claims) (*entities.Contract, error) {
	current, err := s.Get(ctx, idEmpresa)
	if err != nil {
		return nil, err
	}

	actor := actorOf(caller)
	var item entities.Contract
	if err := s.update(ctx, entities.ContractKey(idEmpresa), patch.Changes(*current, actor), &item, actor); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a contract. Only administrators may delete contracts.
func (s *ContractService) Delete(ctx context.Context, idEmpresa int64, caller *auth.Claims) (*Deleted[entities.Contract], error) {
	if !caller.IsAdmin() {
		return nil, errors.NewForbiddenError("deleting contracts requires the admin group")
	}

	var item entities.Contract
	if err := s.remove(ctx, entities.ContractKey(idEmpresa), &item, actorOf(caller)); err != nil {
		return nil, err
	}
	return newDeleted(item), nil
}

// List queries GSI7 when an origin is given and scans otherwise
func (s *ContractService) List(ctx context.Context, f entities.ContractFilter, page common.PageParams) (*Page[entities.Contract], error) {
	items := []entities.Contract{}
	var next string
	var err error

	if f.IDOrigen != nil {
		q := ports.Query{
			Index:          entities.IndexContractsByPair,
			PartitionAttr:  entities.AttrGSI7PK,
			PartitionValue: entities.OriginIndexKey(*f.IDOrigen),
		}
		if f.IDContrato != nil {
			q.SortAttr = entities.AttrGSI7SK
			q.SortPrefix = entities.ContractIndexPrefix(*f.IDContrato)
		}
		next, err = s.query(ctx, q, page, &items)
	} else {
		next, err = s.scan(ctx, entities.ContractItemType(s.stage), nil, page, &items)
	}
	if err != nil {
		return nil, err
	}
	return &Page[entities.Contract]{Items: items, NextCursor: next}, nil
}
