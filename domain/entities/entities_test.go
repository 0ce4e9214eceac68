package entities

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vector-pai/pkg/errors"
	"vector-pai/pkg/utils"
)

func TestKeys(t *testing.T) {
	t.Run("Should derive primary keys", func(t *testing.T) {
		assert.Equal(t, Key{PK: "CAT_GRUPO#1", SK: "METADATA"}, GroupKey(1))
		assert.Equal(t, Key{PK: "CAT_ORIGEN#2", SK: "METADATA"}, OriginKey(2))
		assert.Equal(t, Key{PK: "CAT_CONTRATO#3", SK: "METADATA"}, ContractKey(3))
		assert.Equal(t, Key{PK: "CAT_CONTRATO_CICLO#4", SK: "METADATA"}, CycleKey(4))
		assert.Equal(t, Key{PK: "USUARIO#ana", SK: "METADATA"}, UserKey("ana"))
		assert.Equal(t, Key{PK: "USUARIO#ana", SK: "CONTRATO_USUARIO#2#3"}, UserContractKey("ana", 2, 3))
		assert.Equal(t, Key{PK: "CATALOGO#PERIODOS", SK: "PERIODO#2024-01"}, PeriodKey("2024-01"))
	})

	t.Run("Should build item types from the stage", func(t *testing.T) {
		assert.Equal(t, "RK_PAI_CAT_GRUPO_DEV", GroupItemType(""))
		assert.Equal(t, "RK_PAI_CAT_GRUPO_PROD", GroupItemType("prod"))
	})

	t.Run("Should place the contract as a sort key prefix", func(t *testing.T) {
		sk := ContractIndexSortKey(9, "CAT_CONTRATO#3")
		assert.Equal(t, "ID_CONTRATO#9#CAT_CONTRATO#3", sk)
		assert.True(t, len(sk) > len(ContractIndexPrefix(9)))
		assert.Equal(t, ContractIndexPrefix(9), sk[:len(ContractIndexPrefix(9))])
	})
}

func TestCatalog(t *testing.T) {
	t.Run("Should parse a valid create body", func(t *testing.T) {
		in, err := ParseCatalogCreate("id_grupo", `{"id_grupo": 5, "descripcion": " Grupo "}`)
		require.NoError(t, err)
		assert.Equal(t, CatalogInput{ID: 5, Descripcion: "Grupo"}, in)

		g := NewGroup(in, "dev", "2024-01-01T00:00:00.000Z")
		assert.Equal(t, "CAT_GRUPO#5", g.PK)
		assert.Equal(t, "RK_PAI_CAT_GRUPO_DEV", g.ItemType)
		assert.Empty(t, g.UpdatedAt)
	})

	t.Run("Should reject unsafe descriptions", func(t *testing.T) {
		_, err := ParseCatalogCreate("id_grupo", `{"id_grupo": 5, "descripcion": "<script>"}`)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("Should reject a body id that differs from the path", func(t *testing.T) {
		_, err := ParseCatalogUpdate("id_origen", 5, `{"id_origen": 6, "descripcion": "x"}`)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("Should require a field to update", func(t *testing.T) {
		_, err := ParseCatalogUpdate("id_origen", 5, `{"id_origen": 5}`)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("Should produce only the changed description", func(t *testing.T) {
		changes, err := ParseCatalogUpdate("id_origen", 5, `{"descripcion": "Nuevo"}`)
		require.NoError(t, err)
		assert.Equal(t, Changes{"descripcion": "Nuevo"}, changes)
	})
}

func TestContract(t *testing.T) {
	t.Run("Should derive GSI7 keys on create", func(t *testing.T) {
		in, err := ParseContractCreate(`{"id_empresa": 1, "id_contrato": "9", "id_origen": 2, "descripcion": "Contrato"}`)
		require.NoError(t, err)

		c := NewContract(in, "dev", "sub-1", "now")
		assert.Equal(t, "ORIGEN#2", c.GSI7PK)
		assert.Equal(t, "ID_CONTRATO#9#CAT_CONTRATO#1", c.GSI7SK)
		assert.Equal(t, "sub-1", c.CreatedBy)
	})

	t.Run("Should recompute GSI7 from merged values", func(t *testing.T) {
		current := NewContract(ContractInput{IDEmpresa: 1, IDContrato: 9, IDOrigen: 2, Descripcion: "x"}, "dev", "", "now")

		patch, err := ParseContractUpdate(1, `{"id_origen": 4}`)
		require.NoError(t, err)

		changes := patch.Changes(current, "sub-2")
		assert.Equal(t, int64(4), changes["id_origen"])
		assert.Equal(t, "ORIGEN#4", changes[AttrGSI7PK])
		assert.Equal(t, "ID_CONTRATO#9#CAT_CONTRATO#1", changes[AttrGSI7SK])
		assert.Equal(t, "sub-2", changes["updated_by"])
	})

	t.Run("Should leave index keys alone for description changes", func(t *testing.T) {
		current := NewContract(ContractInput{IDEmpresa: 1, IDContrato: 9, IDOrigen: 2, Descripcion: "x"}, "dev", "", "now")

		patch, err := ParseContractUpdate(1, `{"descripcion": "y"}`)
		require.NoError(t, err)

		changes := patch.Changes(current, "")
		assert.False(t, changes.Has(AttrGSI7PK))
		assert.Equal(t, []string{"descripcion"}, changes.Attributes())
	})

	t.Run("Should require the origin when filtering by contract", func(t *testing.T) {
		_, err := ParseContractFilter(map[string]string{"id_contrato": "9"})
		assert.True(t, errors.IsValidation(err))

		f, err := ParseContractFilter(map[string]string{"id_contrato": "9", "id_origen": "2"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), *f.IDOrigen)
		assert.Equal(t, int64(9), *f.IDContrato)
	})
}

func TestCycle(t *testing.T) {
	t.Run("Should default activo to true", func(t *testing.T) {
		in, err := ParseCycleCreate(`{"id_ciclo": 1, "id_contrato": 9, "id_origen": 2}`)
		require.NoError(t, err)
		assert.True(t, in.Activo)
		assert.Empty(t, in.Descripcion)

		c := NewCycle(in, "dev", "", "now")
		assert.Equal(t, "ORIGEN#2", c.GSI8PK)
		assert.Equal(t, "ID_CONTRATO#9#CAT_CONTRATO_CICLO#1", c.GSI8SK)
	})

	t.Run("Should normalize activo flags", func(t *testing.T) {
		in, err := ParseCycleCreate(`{"id_ciclo": 1, "id_contrato": 9, "id_origen": 2, "activo": "0"}`)
		require.NoError(t, err)
		assert.False(t, in.Activo)
	})

	t.Run("Should parse the activo filter", func(t *testing.T) {
		f, err := ParseCycleFilter(map[string]string{"id_origen": "2", "activo": "true"})
		require.NoError(t, err)
		require.NotNil(t, f.Activo)
		assert.True(t, *f.Activo)
		assert.Nil(t, f.IDContrato)
	})

	t.Run("Should recompute GSI8 when the contract changes", func(t *testing.T) {
		current := NewCycle(CycleInput{IDCiclo: 1, IDContrato: 9, IDOrigen: 2, Activo: true}, "dev", "", "now")

		patch, err := ParseCycleUpdate(1, `{"id_contrato": 10, "activo": false}`)
		require.NoError(t, err)

		changes := patch.Changes(current, "")
		assert.Equal(t, false, changes["activo"])
		assert.Equal(t, "ORIGEN#2", changes[AttrGSI8PK])
		assert.Equal(t, "ID_CONTRATO#10#CAT_CONTRATO_CICLO#1", changes[AttrGSI8SK])
	})
}

func TestUser(t *testing.T) {
	codePattern := regexp.MustCompile(`^[` + utils.ActivationAlphabet + `]{9}$`)

	t.Run("Should generate activation codes from the alphabet", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			code, err := GenerateActivationCode()
			require.NoError(t, err)
			assert.Regexp(t, codePattern, code)
		}
	})

	t.Run("Should apply create defaults", func(t *testing.T) {
		in, err := ParseUserCreate(`{"id_usuario": "ana_01", "email": "Ana@Example.com", "id_estatus": 3}`)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", in.Email)
		assert.Equal(t, BlockedNo, in.Blk)
		assert.Empty(t, in.CodAct)

		in.CodAct = "ABCDEFGH2"
		now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		u := NewUser(in, "dev", now)
		assert.Equal(t, "2024-01-02T10:00:00.000Z", u.CodActVig)
		assert.Equal(t, "2024-01-01T10:00:00.000Z", u.FechaEstatus)
		assert.Empty(t, u.DispFechaEstatus)
		assert.Equal(t, "RK_PAI_USUARIO_APP_DEV", u.ItemType)
	})

	t.Run("Should reject invalid fields", func(t *testing.T) {
		cases := []string{
			`{"id_usuario": "ana 01", "email": "a@b.co"}`,
			`{"id_usuario": "ana", "email": "nope"}`,
			`{"id_usuario": "ana", "email": "a@b.co", "blk": "X"}`,
			`{"id_usuario": "ana", "email": "a@b.co", "cod_act": "ABC"}`,
			`{"id_usuario": "ana", "email": "a@b.co", "app_version": "123456789012345678901"}`,
		}
		for _, raw := range cases {
			_, err := ParseUserCreate(raw)
			assert.True(t, errors.IsValidation(err), raw)
		}
	})

	t.Run("Should refresh status dates on update", func(t *testing.T) {
		now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		changes, err := ParseUserUpdate("ana", `{"disp_id_estatus": 2, "blk": "s"}`, now)
		require.NoError(t, err)
		assert.Equal(t, "S", changes["blk"])
		assert.Equal(t, int64(2), changes["disp_id_estatus"])
		assert.Equal(t, "2024-02-01T00:00:00.000Z", changes["disp_fecha_estatus"])
		assert.False(t, changes.Has("fecha_estatus"))
	})

	t.Run("Should reject an empty update", func(t *testing.T) {
		_, err := ParseUserUpdate("ana", `{"id_usuario": "ana"}`, time.Now())
		assert.True(t, errors.IsValidation(err))
	})
}

func TestUserContract(t *testing.T) {
	t.Run("Should derive GSI5 keys", func(t *testing.T) {
		in, err := ParseUserContractCreate(`{"id_usuario": "ana", "id_origen": 2, "id_contrato": 9, "token_participante": "tok-1"}`)
		require.NoError(t, err)

		uc := NewUserContract(in, "dev", "now")
		assert.Equal(t, "USUARIO#ana", uc.PK)
		assert.Equal(t, "CONTRATO_USUARIO#2#9", uc.SK)
		assert.Equal(t, "CONTRATO#9", uc.GSI5PK)
		assert.Equal(t, "USUARIO#ana", uc.GSI5SK)
		assert.Nil(t, uc.IDCiclo)
	})

	t.Run("Should only update link attributes", func(t *testing.T) {
		ref := UserContractRef{IDUsuario: "ana", IDOrigen: 2, IDContrato: 9}

		changes, err := ParseUserContractUpdate(ref, `{"id_ciclo": 4}`)
		require.NoError(t, err)
		assert.Equal(t, Changes{"id_ciclo": int64(4)}, changes)

		_, err = ParseUserContractUpdate(ref, `{"id_contrato": 10, "id_ciclo": 4}`)
		assert.True(t, errors.IsValidation(err))

		_, err = ParseUserContractUpdate(ref, `{"id_origen": 2}`)
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("Should require exactly one list filter", func(t *testing.T) {
		_, err := ParseUserContractFilter(map[string]string{})
		assert.True(t, errors.IsValidation(err))

		_, err = ParseUserContractFilter(map[string]string{"id_usuario": "ana", "id_contrato": "9"})
		assert.True(t, errors.IsValidation(err))

		f, err := ParseUserContractFilter(map[string]string{"id_contrato": "9", "id_ciclo": "1"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), *f.IDCiclo)
	})
}

func TestPeriod(t *testing.T) {
	t.Run("Should parse a valid period", func(t *testing.T) {
		in, err := ParsePeriodCreate(`{"periodo": "2024-05", "actual": "1", "nombre_periodo": "Mayo 2024"}`)
		require.NoError(t, err)

		p := NewPeriod(in, "dev", "now")
		assert.Equal(t, "PERIODO#2024-05", p.SK)
		assert.Equal(t, "RK_PAI_CATALOGO_PERIODOS_DEV", p.ItemType)
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		_, err := ParsePeriodCreate(`{"periodo": "2024-5", "actual": "1", "nombre_periodo": "x"}`)
		assert.Error(t, err)

		_, err = ParsePeriodCreate(`{"periodo": "2024-05", "actual": "2", "nombre_periodo": "x"}`)
		assert.Error(t, err)
	})
}
