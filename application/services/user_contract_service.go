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

// UserContractService manages links between users and contracts. Links live
// in the user partition and are projected by contract onto GSI5.
type UserContractService struct {
	entityService
}

// NewUserContractService creates a new user-contract service
func NewUserContractService(store ports.ItemStore, publisher ports.EventPublisher, cfg Config, logger *zap.Logger) *UserContractService {
	return &UserContractService{entityService: newEntityService(entities.EntityUserContract, store, publisher, cfg, logger)}
}

// Create links a user to a contract
func (s *UserContractService) Create(ctx context.Context, in entities.UserContractInput, caller *auth.Claims) (*entities.UserContract, error) {
	item := entities.NewUserContract(in, s.stage, utils.NowTimestamp())
	if err := s.create(ctx, in.Key(), item, actorOf(caller)); err != nil {
		return nil, err
	}
	return &item, nil
}

// Get reads one link by user, origin and contract
func (s *UserContractService) Get(ctx context.Context, ref entities.UserContractRef) (*entities.UserContract, error) {
	var item entities.UserContract
	if err := s.get(ctx, ref.Key(), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update changes the cycle or participant fields of a link
func (s *UserContractService) Update(ctx context.Context, ref entities.UserContractRef, changes entities.Changes, caller *auth.Claims) (*entities.UserContract, error) {
	var item entities.UserContract
	if err := s.update(ctx, ref.Key(), changes, &item, actorOf(caller)); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a link and returns its prior image
func (s *UserContractService) Delete(ctx context.Context, ref entities.UserContractRef, caller *auth.Claims) (*Deleted[entities.UserContract], error) {
	var item entities.UserContract
	if err := s.remove(ctx, ref.Key(), &item, actorOf(caller)); err != nil {
		return nil, err
	}
	return newDeleted(item), nil
}

// List reads the links of one user from its partition, or the links of one
// contract from GSI5
func (s *UserContractService) List(ctx context.Context, f entities.UserContractFilter, page common.PageParams) (*Page[entities.UserContract], error) {
	var q ports.Query
	if f.IDUsuario != "" {
		q = ports.Query{
			PartitionAttr:  entities.AttrPK,
			PartitionValue: entities.UserPartition(f.IDUsuario),
			SortAttr:       entities.AttrSK,
			SortPrefix:     entities.UserContractSKPrefix,
		}
	} else {
		q = ports.Query{
			Index:          entities.IndexContractUsers,
			PartitionAttr:  entities.AttrGSI5PK,
			PartitionValue: entities.ContractIndexKey(*f.IDContrato),
		}
	}
	if f.IDCiclo != nil {
		q.Filters = []ports.Condition{{Attr: "id_ciclo", Value: *f.IDCiclo}}
	}

	items := []entities.UserContract{}
	next, err := s.query(ctx, q, page, &items)
	if err != nil {
		return nil, err
	}
	return &Page[entities.UserContract]{Items: items, NextCursor: next}, nil
}
