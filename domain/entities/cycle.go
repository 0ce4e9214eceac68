package entities

import (
	v "vector-pai/domain/validators"
	"vector-pai/pkg/errors"
)

const cycleDescriptionMax = 500

// Cycle is a contract cycle item, indexed by origin and contract on GSI8
type Cycle struct {
	PK          string `dynamodbav:"_pk" json:"-"`
	SK          string `dynamodbav:"_sk" json:"-"`
	IDCiclo     int64  `dynamodbav:"id_ciclo" json:"id_ciclo"`
	IDContrato  int64  `dynamodbav:"id_contrato" json:"id_contrato"`
	IDOrigen    int64  `dynamodbav:"id_origen" json:"id_origen"`
	Activo      bool   `dynamodbav:"activo" json:"activo"`
	Descripcion string `dynamodbav:"descripcion,omitempty" json:"descripcion,omitempty"`
	ItemType    string `dynamodbav:"item_type" json:"item_type"`
	GSI8PK      string `dynamodbav:"gsi8pk" json:"-"`
	GSI8SK      string `dynamodbav:"gsi8sk" json:"-"`
	CreatedAt   string `dynamodbav:"created_at" json:"created_at"`
	CreatedBy   string `dynamodbav:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedAt   string `dynamodbav:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedBy   string `dynamodbav:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// CycleInput is a validated contract cycle
type CycleInput struct {
	IDCiclo     int64
	IDContrato  int64
	IDOrigen    int64
	Activo      bool
	Descripcion string
}

// CycleItemType is the type tag of contract cycles
func CycleItemType(stage string) string { return ItemType("CAT_CONTRATO_CICLO", stage) }

// NewCycle builds the stored item for a validated cycle
func NewCycle(in CycleInput, stage, actor, now string) Cycle {
	key := CycleKey(in.IDCiclo)
	return Cycle{
		PK:          key.PK,
		SK:          key.SK,
		IDCiclo:     in.IDCiclo,
		IDContrato:  in.IDContrato,
		IDOrigen:    in.IDOrigen,
		Activo:      in.Activo,
		Descripcion: in.Descripcion,
		ItemType:    CycleItemType(stage),
		GSI8PK:      OriginIndexKey(in.IDOrigen),
		GSI8SK:      ContractIndexSortKey(in.IDContrato, key.PK),
		CreatedAt:   now,
		CreatedBy:   actor,
	}
}

// ParseCycleCreate validates a cycle create body. activo defaults to true.
func ParseCycleCreate(raw string) (CycleInput, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return CycleInput{}, err
	}

	in := CycleInput{Activo: true}
	if in.IDCiclo, err = v.PositiveID("id_ciclo", body["id_ciclo"]); err != nil {
		return CycleInput{}, err
	}
	if in.IDContrato, err = v.PositiveID("id_contrato", body["id_contrato"]); err != nil {
		return CycleInput{}, err
	}
	if in.IDOrigen, err = v.PositiveID("id_origen", body["id_origen"]); err != nil {
		return CycleInput{}, err
	}
	if body.Has("activo") && body["activo"] != nil {
		if in.Activo, err = v.Flag("activo", body["activo"]); err != nil {
			return CycleInput{}, err
		}
	}
	if in.Descripcion, err = v.Text("descripcion", body["descripcion"], v.OptionalText(cycleDescriptionMax)); err != nil {
		return CycleInput{}, err
	}
	return in, nil
}

// CyclePatch holds the fields present in a cycle update
type CyclePatch struct {
	IDContrato  *int64
	IDOrigen    *int64
	Activo      *bool
	Descripcion *string
}

var cycleUpdatable = []string{"id_contrato", "id_origen", "activo", "descripcion"}

// ParseCycleUpdate validates only the fields present in a cycle update
func ParseCycleUpdate(pathIDCiclo int64, raw string) (CyclePatch, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return CyclePatch{}, err
	}

	if body.Has("id_ciclo") {
		id, err := v.PositiveID("id_ciclo", body["id_ciclo"])
		if err != nil {
			return CyclePatch{}, err
		}
		if id != pathIDCiclo {
			return CyclePatch{}, errPathMismatch("id_ciclo")
		}
	}

	if !body.HasAny(cycleUpdatable...) {
		return CyclePatch{}, errNothingToUpdate(cycleUpdatable...)
	}

	var patch CyclePatch
	if patch.IDContrato, err = v.OptionalPositiveID(body, "id_contrato"); err != nil {
		return CyclePatch{}, err
	}
	if patch.IDOrigen, err = v.OptionalPositiveID(body, "id_origen"); err != nil {
		return CyclePatch{}, err
	}
	if body.Has("activo") {
		activo, err := v.Flag("activo", body["activo"])
		if err != nil {
			return CyclePatch{}, err
		}
		patch.Activo = &activo
	}
	if body.Has("descripcion") {
		desc, err := v.Text("descripcion", body["descripcion"], v.OptionalText(cycleDescriptionMax))
		if err != nil {
			return CyclePatch{}, err
		}
		patch.Descripcion = &desc
	}
	return patch, nil
}

// Changes computes the update against the current item, rederiving GSI8
// keys whenever the origin or the contract changes.
func (p CyclePatch) Changes(current Cycle, actor string) Changes {
	changes := Changes{}
	origen, contrato := current.IDOrigen, current.IDContrato

	if p.IDOrigen != nil {
		origen = *p.IDOrigen
		changes.Set("id_origen", origen)
	}
	if p.IDContrato != nil {
		contrato = *p.IDContrato
		changes.Set("id_contrato", contrato)
	}
	if p.Activo != nil {
		changes.Set("activo", *p.Activo)
	}
	if p.Descripcion != nil {
		changes.Set("descripcion", *p.Descripcion)
	}
	if p.IDOrigen != nil || p.IDContrato != nil {
		changes.Set(AttrGSI8PK, OriginIndexKey(origen))
		changes.Set(AttrGSI8SK, ContractIndexSortKey(contrato, current.PK))
	}
	if actor != "" {
		changes.Set("updated_by", actor)
	}
	return changes
}

// CycleFilter selects cycles by origin and contract, optionally by activo
type CycleFilter struct {
	IDOrigen   *int64
	IDContrato *int64
	Activo     *bool
}

// ParseCycleFilter validates the list query parameters of cycles
func ParseCycleFilter(query map[string]string) (CycleFilter, error) {
	var f CycleFilter
	var err error
	if f.IDOrigen, err = optionalQueryID(query, "id_origen"); err != nil {
		return CycleFilter{}, err
	}
	if f.IDContrato, err = optionalQueryID(query, "id_contrato"); err != nil {
		return CycleFilter{}, err
	}
	if f.IDContrato != nil && f.IDOrigen == nil {
		return CycleFilter{}, errors.NewFieldError("id_origen", "is required when filtering by id_contrato")
	}
	if raw, ok := query["activo"]; ok {
		activo, err := v.Flag("activo", raw)
		if err != nil {
			return CycleFilter{}, err
		}
		f.Activo = &activo
	}
	return f, nil
}
