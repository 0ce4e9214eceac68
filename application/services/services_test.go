package services

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vector-pai/application/ports"
	"vector-pai/application/ports/mocks"
	"vector-pai/domain/entities"
	"vector-pai/domain/events"
	"vector-pai/pkg/auth"
	"vector-pai/pkg/common"
	"vector-pai/pkg/errors"
)

var (
	testCfg = Config{Stage: "dev"}
	caller  = &auth.Claims{Subject: "sub-1"}
	admin   = &auth.Claims{Subject: "sub-admin", Groups: []string{auth.AdminGroup}}
	allRows = common.PageParams{Limit: 50}
)

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func stringAttr(t *testing.T, av map[string]types.AttributeValue, attr string) string {
	t.Helper()
	s, ok := av[attr].(*types.AttributeValueMemberS)
	require.True(t, ok, "attribute %s is not a string", attr)
	return s.Value
}

func TestCatalogService(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create and read a group", func(t *testing.T) {
		// Arrange
		store := mocks.NewMemoryStore()
		svc := NewGroupService(store, nil, testCfg, zap.NewNop())

		// Act
		created, err := svc.Create(ctx, entities.CatalogInput{ID: 7, Descripcion: "Norte"}, caller)
		require.NoError(t, err)
		got, err := svc.Get(ctx, 7)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "RK_PAI_CAT_GRUPO_DEV", created.ItemType)
		assert.Equal(t, "Norte", got.Descripcion)
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
	})

	t.Run("Should report a duplicate as a conflict", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		svc := NewOriginService(store, nil, testCfg, zap.NewNop())
		_, err := svc.Create(ctx, entities.CatalogInput{ID: 1, Descripcion: "a"}, caller)
		require.NoError(t, err)

		_, err = svc.Create(ctx, entities.CatalogInput{ID: 1, Descripcion: "b"}, caller)

		require.Error(t, err)
		assert.True(t, errors.IsConflict(err))
		assert.Equal(t, http.StatusConflict, errors.GetAppError(err).HTTPStatus)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("Should name the entity when an item is missing", func(t *testing.T) {
		svc := NewGroupService(mocks.NewMemoryStore(), nil, testCfg, zap.NewNop())

		_, err := svc.Get(ctx, 99)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Contains(t, err.Error(), entities.EntityGroup)

		_, err = svc.Update(ctx, 99, entities.Changes{"descripcion": "x"}, caller)
		assert.True(t, errors.IsNotFound(err))

		_, err = svc.Delete(ctx, 99, caller)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("Should update and delete", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		svc := NewGroupService(store, nil, testCfg, zap.NewNop())
		_, err := svc.Create(ctx, entities.CatalogInput{ID: 3, Descripcion: "old"}, caller)
		require.NoError(t, err)

		updated, err := svc.Update(ctx, 3, entities.Changes{"descripcion": "new"}, caller)
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Descripcion)
		assert.NotEmpty(t, updated.UpdatedAt)

		deleted, err := svc.Delete(ctx, 3, caller)
		require.NoError(t, err)
		assert.True(t, deleted.Deleted)
		assert.Equal(t, "new", deleted.Item.Descripcion)
		assert.NotEmpty(t, deleted.DeletedAt)
		assert.Zero(t, store.Len())
	})

	t.Run("Should list only items of its own type", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		groups := NewGroupService(store, nil, testCfg, zap.NewNop())
		origins := NewOriginService(store, nil, testCfg, zap.NewNop())
		for i := int64(1); i <= 3; i++ {
			_, err := groups.Create(ctx, entities.CatalogInput{ID: i, Descripcion: "g"}, caller)
			require.NoError(t, err)
		}
		_, err := origins.Create(ctx, entities.CatalogInput{ID: 1, Descripcion: "o"}, caller)
		require.NoError(t, err)

		first, err := groups.List(ctx, common.PageParams{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, first.Items, 2)
		require.NotEmpty(t, first.NextCursor)

		second, err := groups.List(ctx, common.PageParams{Limit: 2, Cursor: first.NextCursor})
		require.NoError(t, err)
		assert.Len(t, second.Items, 1)
		assert.Empty(t, second.NextCursor)
	})

	t.Run("Should return an empty list instead of nil", func(t *testing.T) {
		svc := NewGroupService(mocks.NewMemoryStore(), nil, testCfg, zap.NewNop())

		page, err := svc.List(ctx, allRows)

		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
	})
}

func TestAuditEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("Should publish an event after each write", func(t *testing.T) {
		publisher := &mocks.MockEventPublisher{}
		var seen []string
		publisher.On("Publish", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			event := args.Get(1).(events.EntityChanged)
			seen = append(seen, event.EventType)
			assert.Equal(t, "sub-1", event.Actor)
			assert.Equal(t, "CAT_GRUPO#5|METADATA", event.AggregateID)
		}).Return(nil)
		svc := NewGroupService(mocks.NewMemoryStore(), publisher, testCfg, zap.NewNop())

		_, err := svc.Create(ctx, entities.CatalogInput{ID: 5, Descripcion: "x"}, caller)
		require.NoError(t, err)
		_, err = svc.Update(ctx, 5, entities.Changes{"descripcion": "y"}, caller)
		require.NoError(t, err)
		_, err = svc.Delete(ctx, 5, caller)
		require.NoError(t, err)

		assert.Equal(t, []string{"cat-grupo.created", "cat-grupo.updated", "cat-grupo.deleted"}, seen)
	})

	t.Run("Should not fail the request when publishing fails", func(t *testing.T) {
		publisher := &mocks.MockEventPublisher{}
		publisher.On("Publish", mock.Anything, mock.Anything).Return(stderrors.New("bus down"))
		svc := NewGroupService(mocks.NewMemoryStore(), publisher, testCfg, zap.NewNop())

		_, err := svc.Create(ctx, entities.CatalogInput{ID: 5, Descripcion: "x"}, caller)

		assert.NoError(t, err)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("Should not publish when the write fails", func(t *testing.T) {
		publisher := &mocks.MockEventPublisher{}
		svc := NewGroupService(mocks.NewMemoryStore(), publisher, testCfg, zap.NewNop())

		_, err := svc.Delete(ctx, 1, caller)

		assert.True(t, errors.IsNotFound(err))
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestContractService(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc *ContractService, empresa, contrato, origen int64) {
		t.Helper()
		_, err := svc.Create(ctx, entities.ContractInput{IDEmpresa: empresa, IDContrato: contrato, IDOrigen: origen, Descripcion: "c"}, caller)
		require.NoError(t, err)
	}

	t.Run("Should store the creator and derive GSI7 keys", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		svc := NewContractService(store, nil, testCfg, zap.NewNop())

		seed(t, svc, 10, 20, 30)

		raw := store.Raw(entities.ContractKey(10))
		assert.Equal(t, "ORIGEN#30", stringAttr(t, raw, entities.AttrGSI7PK))
		assert.Equal(t, "ID_CONTRATO#20#CAT_CONTRATO#10", stringAttr(t, raw, entities.AttrGSI7SK))
		assert.Equal(t, "sub-1", stringAttr(t, raw, "created_by"))
	})

	t.Run("Should recompute GSI7 keys from merged values on update", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		svc := NewContractService(store, nil, testCfg, zap.NewNop())
		seed(t, svc, 10, 20, 30)

		updated, err := svc.Update(ctx, 10, entities.ContractPatch{IDOrigen: int64Ptr(31)}, admin)

		require.NoError(t, err)
		assert.Equal(t, int64(31), updated.IDOrigen)
		assert.Equal(t, int64(20), updated.IDContrato)
		assert.Equal(t, "sub-admin", updated.UpdatedBy)
		raw := store.Raw(entities.ContractKey(10))
		assert.Equal(t, "ORIGEN#31", stringAttr(t, raw, entities.AttrGSI7PK))
		assert.Equal(t, "ID_CONTRATO#20#CAT_CONTRATO#10", stringAttr(t, raw, entities.AttrGSI7SK))
	})

	t.Run("Should report a missing contract before updating", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		svc := NewContractService(store, nil, testCfg, zap.NewNop())

		_, err := svc.Update(ctx, 10, entities.ContractPatch{IDOrigen: int64Ptr(1)}, caller)

		assert.True(t, errors.IsNotFound(err))
		assert.Equal(t, []string{"Get"}, store.Calls)
	})

	t.Run("Should only let administrators delete", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		svc := NewContractService(store, nil, testCfg, zap.NewNop())
		seed(t, svc, 10, 20, 30)
		store.Calls = nil

		_, err := svc.Delete(ctx, 10, caller)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, errors.GetAppError(err).HTTPStatus)
		assert.Empty(t, store.Calls)

		_, err = svc.Delete(ctx, 10, nil)
		assert.True(t, errors.IsType(err, errors.ErrorTypeForbidden))

		deleted, err := svc.Delete(ctx, 10, admin)
		require.NoError(t, err)
		assert.Equal(t, int64(20), deleted.Item.IDContrato)
	})

	t.Run("Should pick the list mode from the filter", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		svc := NewContractService(store, nil, testCfg, zap.NewNop())
		seed(t, svc, 1, 100, 7)
		seed(t, svc, 2, 100, 7)
		seed(t, svc, 3, 200, 7)
		seed(t, svc, 4, 100, 8)

		byOrigin, err := svc.List(ctx, entities.ContractFilter{IDOrigen: int64Ptr(7)}, allRows)
		require.NoError(t, err)
		assert.Len(t, byOrigin.Items, 3)

		byPair, err := svc.List(ctx, entities.ContractFilter{IDOrigen: int64Ptr(7), IDContrato: int64Ptr(100)}, allRows)
		require.NoError(t, err)
		assert.Len(t, byPair.Items, 2)

		all, err := svc.List(ctx, entities.ContractFilter{}, allRows)
		require.NoError(t, err)
		assert.Len(t, all.Items, 4)
		assert.Equal(t, []string{"Create", "Create", "Create", "Create", "Query", "Query", "Scan"}, store.Calls)
	})
}

func TestCycleService(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMemoryStore()
	svc := NewCycleService(store, nil, testCfg, zap.NewNop())

	for _, in := range []entities.CycleInput{
		{IDCiclo: 1, IDContrato: 100, IDOrigen: 7, Activo: true},
		{IDCiclo: 2, IDContrato: 100, IDOrigen: 7, Activo: false},
		{IDCiclo: 3, IDContrato: 200, IDOrigen: 7, Activo: true},
		{IDCiclo: 4, IDContrato: 100, IDOrigen: 8, Activo: true},
	} {
		_, err := svc.Create(ctx, in, caller)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter entities.CycleFilter
		want   []int64
	}{
		{"Should list every cycle without a filter", entities.CycleFilter{}, []int64{1, 2, 3, 4}},
		{"Should filter a scan by activo", entities.CycleFilter{Activo: boolPtr(false)}, []int64{2}},
		{"Should query an origin", entities.CycleFilter{IDOrigen: int64Ptr(7)}, []int64{1, 2, 3}},
		{"Should query an origin and contract", entities.CycleFilter{IDOrigen: int64Ptr(7), IDContrato: int64Ptr(100)}, []int64{1, 2}},
		{"Should combine the query with activo", entities.CycleFilter{IDOrigen: int64Ptr(7), IDContrato: int64Ptr(100), Activo: boolPtr(true)}, []int64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.List(ctx, tt.filter, allRows)

			require.NoError(t, err)
			var ids []int64
			for _, c := range page.Items {
				ids = append(ids, c.IDCiclo)
			}
			assert.ElementsMatch(t, tt.want, ids)
		})
	}

	t.Run("Should move a cycle to another contract", func(t *testing.T) {
		updated, err := svc.Update(ctx, 4, entities.CyclePatch{IDContrato: int64Ptr(300), Activo: boolPtr(false)}, caller)

		require.NoError(t, err)
		assert.False(t, updated.Activo)
		raw := store.Raw(entities.CycleKey(4))
		assert.Equal(t, "ORIGEN#8", stringAttr(t, raw, entities.AttrGSI8PK))
		assert.Equal(t, "ID_CONTRATO#300#CAT_CONTRATO_CICLO#4", stringAttr(t, raw, entities.AttrGSI8SK))
	})
}

func TestUserService(t *testing.T) {
	ctx := context.Background()

	t.Run("Should generate an activation code when none is given", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		svc := NewUserService(store, nil, testCfg, zap.NewNop())

		user, err := svc.Create(ctx, entities.UserInput{IDUsuario: "u-1", Email: "a@b.com", Blk: entities.BlockedNo}, caller)

		require.NoError(t, err)
		assert.Len(t, user.CodAct, 9)
		assert.NotEmpty(t, user.CodActVig)
		assert.Equal(t, "RK_PAI_USUARIO_APP_DEV", user.ItemType)
	})

	t.Run("Should keep a provided activation code", func(t *testing.T) {
		svc := NewUserService(mocks.NewMemoryStore(), nil, testCfg, zap.NewNop())
		svc.generateCode = func() (string, error) { return "", stderrors.New("must not be called") }

		user, err := svc.Create(ctx, entities.UserInput{IDUsuario: "u-1", Email: "a@b.com", CodAct: "ABCDEFGH2"}, caller)

		require.NoError(t, err)
		assert.Equal(t, "ABCDEFGH2", user.CodAct)
	})

	t.Run("Should fail internally when code generation fails", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		svc := NewUserService(store, nil, testCfg, zap.NewNop())
		svc.generateCode = func() (string, error) { return "", stderrors.New("entropy") }

		_, err := svc.Create(ctx, entities.UserInput{IDUsuario: "u-1", Email: "a@b.com"}, caller)

		assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
		assert.Zero(t, store.Len())
	})

	t.Run("Should list users but not their contract links", func(t *testing.T) {
		store := mocks.NewMemoryStore()
		users := NewUserService(store, nil, testCfg, zap.NewNop())
		links := NewUserContractService(store, nil, testCfg, zap.NewNop())
		_, err := users.Create(ctx, entities.UserInput{IDUsuario: "u-1", Email: "a@b.com"}, caller)
		require.NoError(t, err)
		_, err = links.Create(ctx, entities.UserContractInput{UserContractRef: entities.UserContractRef{IDUsuario: "u-1", IDOrigen: 1, IDContrato: 2}}, caller)
		require.NoError(t, err)

		page, err := users.List(ctx, allRows)

		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "u-1", page.Items[0].IDUsuario)
	})
}

func TestUserContractService(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMemoryStore()
	svc := NewUserContractService(store, nil, testCfg, zap.NewNop())

	link := func(user string, origen, contrato int64, ciclo *int64) entities.UserContractInput {
		return entities.UserContractInput{
			UserContractRef: entities.UserContractRef{IDUsuario: user, IDOrigen: origen, IDContrato: contrato},
			IDCiclo:         ciclo,
		}
	}
	for _, in := range []entities.UserContractInput{
		link("ana", 1, 100, int64Ptr(9)),
		link("ana", 1, 200, nil),
		link("bob", 1, 100, int64Ptr(8)),
	} {
		_, err := svc.Create(ctx, in, caller)
		require.NoError(t, err)
	}

	t.Run("Should list the links of a user", func(t *testing.T) {
		page, err := svc.List(ctx, entities.UserContractFilter{IDUsuario: "ana"}, allRows)

		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	})

	t.Run("Should list the users of a contract", func(t *testing.T) {
		page, err := svc.List(ctx, entities.UserContractFilter{IDContrato: int64Ptr(100)}, allRows)

		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	})

	t.Run("Should narrow by cycle", func(t *testing.T) {
		page, err := svc.List(ctx, entities.UserContractFilter{IDContrato: int64Ptr(100), IDCiclo: int64Ptr(8)}, allRows)

		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "bob", page.Items[0].IDUsuario)
	})

	t.Run("Should update and delete by reference", func(t *testing.T) {
		ref := entities.UserContractRef{IDUsuario: "ana", IDOrigen: 1, IDContrato: 200}

		updated, err := svc.Update(ctx, ref, entities.Changes{"token_participante": "tok-1"}, caller)
		require.NoError(t, err)
		assert.Equal(t, "tok-1", updated.TokenParticipante)

		deleted, err := svc.Delete(ctx, ref, caller)
		require.NoError(t, err)
		assert.Equal(t, "tok-1", deleted.Item.TokenParticipante)

		_, err = svc.Get(ctx, ref)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestPeriodService(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMemoryStore()
	svc := NewPeriodService(store, nil, testCfg, zap.NewNop())

	for _, p := range []string{"2024-02", "2024-01"} {
		_, err := svc.Create(ctx, entities.PeriodInput{Periodo: p, Actual: "0", NombrePeriodo: "Periodo " + p}, caller)
		require.NoError(t, err)
	}

	t.Run("Should reject a duplicate period", func(t *testing.T) {
		_, err := svc.Create(ctx, entities.PeriodInput{Periodo: "2024-01", Actual: "1", NombrePeriodo: "x"}, caller)

		assert.True(t, errors.IsConflict(err))
	})

	t.Run("Should list periods in order", func(t *testing.T) {
		page, err := svc.List(ctx, allRows)

		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "2024-01", page.Items[0].Periodo)
		assert.Equal(t, "2024-02", page.Items[1].Periodo)
	})

	t.Run("Should read one period", func(t *testing.T) {
		got, err := svc.Get(ctx, "2024-02")

		require.NoError(t, err)
		assert.Equal(t, "Periodo 2024-02", got.NombrePeriodo)
	})
}

func TestEmailService(t *testing.T) {
	ctx := context.Background()
	req := entities.EmailRequest{To: []string{"a@b.com"}, Subject: "Hola", BodyHTML: "<p>hi</p>"}

	t.Run("Should send from the configured address", func(t *testing.T) {
		mailer := &mocks.MockMailer{}
		mailer.On("Send", mock.Anything, ports.Email{
			From: "noreply@example.com", To: req.To, Subject: req.Subject, HTMLBody: req.BodyHTML,
		}).Return("msg-1", nil)
		svc := NewEmailService(mailer, "noreply@example.com", zap.NewNop())

		result, err := svc.Send(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, &SendResult{Status: "sent", MessageID: "msg-1"}, result)
		mailer.AssertExpectations(t)
	})

	t.Run("Should report mailer failures as external errors", func(t *testing.T) {
		mailer := &mocks.MockMailer{}
		mailer.On("Send", mock.Anything, mock.Anything).Return("", stderrors.New("ses down"))
		svc := NewEmailService(mailer, "noreply@example.com", zap.NewNop())

		_, err := svc.Send(ctx, req)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, errors.GetAppError(err).HTTPStatus)
	})
}

func TestLoginService(t *testing.T) {
	ctx := context.Background()
	req := entities.LoginRequest{Email: "a@b.com", Password: "secret"}

	t.Run("Should return the issued tokens", func(t *testing.T) {
		provider := &mocks.MockIdentityProvider{}
		provider.On("Login", mock.Anything, "a@b.com", "secret").Return(&ports.LoginResult{AccessToken: "at", IDToken: "it", ExpiresIn: 3600}, nil)
		svc := NewLoginService(provider, zap.NewNop())

		result, err := svc.Login(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "at", result.AccessToken)
	})

	t.Run("Should pass provider errors through", func(t *testing.T) {
		provider := &mocks.MockIdentityProvider{}
		provider.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.NewAuthenticationError("bad credentials"))
		svc := NewLoginService(provider, zap.NewNop())

		_, err := svc.Login(ctx, req)

		assert.True(t, errors.IsAuthentication(err))
	})

	t.Run("Should fail when no tokens come back", func(t *testing.T) {
		provider := &mocks.MockIdentityProvider{}
		provider.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(&ports.LoginResult{}, nil)
		svc := NewLoginService(provider, zap.NewNop())

		_, err := svc.Login(ctx, req)

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, errors.GetAppError(err).HTTPStatus)
	})
}
