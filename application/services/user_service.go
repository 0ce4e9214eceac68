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

// UserService manages application user profiles
type UserService struct {
	entityService
	generateCode func() (string, error)
}

// NewUserService creates a new user service
func NewUserService(store ports.ItemStore, publisher ports.EventPublisher, cfg Config, logger *zap.Logger) *UserService {
	return &UserService{
		entityService: newEntityService(entities.EntityUser, store, publisher, cfg, logger),
		generateCode:  entities.GenerateActivationCode,
	}
}

// Create stores a new user, generating an activation code when none was given
func (s *UserService) Create(ctx context.Context, in entities.UserInput, caller *auth.Claims) (*entities.User, error) {
	if in.CodAct == "" {
		code, err := s.generateCode()
		if err != nil {
			return nil, errors.NewInternalError("failed to generate activation code").WithCause(err)
		}
		in.CodAct = code
	}

	item := entities.NewUser(in, s.stage, utils.Now())
	if err := s.create(ctx, entities.UserKey(in.IDUsuario), item, actorOf(caller)); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *UserService) Get(ctx context.Context, idUsuario string) (*entities.User, error) {
	var item entities.User
	if err := s.get(ctx, entities.UserKey(idUsuario), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *UserService) Update(ctx context.Context, idUsuario string, changes entities.Changes, caller *auth.Claims) (*entities.User, error) {
	var item entities.User
	if err := s.update(ctx, entities.UserKey(idUsuario), changes, &item, actorOf(caller)); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *UserService) Delete(ctx context.Context, idUsuario string, caller *auth.Claims) (*Deleted[entities.User], error) {
	var item entities.User
	if err := s.remove(ctx, entities.UserKey(idUsuario), &item, actorOf(caller)); err != nil {
		return nil, err
	}
	return newDeleted(item), nil
}

// List pages through every user
func (s *UserService) List(ctx context.Context, page common.PageParams) (*Page[entities.User], error) {
	items := []entities.User{}
	next, err := s.scan(ctx, entities.UserItemType(s.stage), nil, page, &items)
	if err != nil {
		return nil, err
	}
	return &Page[entities.User]{Items: items, NextCursor: next}, nil
}
