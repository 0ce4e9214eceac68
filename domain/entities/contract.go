package entities

import (
	v "vector-pai/domain/validators"
	"vector-pai/pkg/errors"
)

const contractDescriptionMax = 500

// Contract is a company contract item, indexed by origin and contract on GSI7
type Contract struct {
	PK          string `dynamodbav:"_pk" json:"-"`
	SK          string `dynamodbav:"_sk" json:"-"`
	IDEmpresa   int64  `dynamodbav:"id_empresa" json:"id_empresa"`
	IDContrato  int64  `dynamodbav:"id_contrato" json:"id_contrato"`
	IDOrigen    int64  `dynamodbav:"id_origen" json:"id_origen"`
	Descripcion string `dynamodbav:"descripcion" json:"descripcion"`
	ItemType    string `dynamodbav:"item_type" json:"item_type"`
	GSI7PK      string `dynamodbav:"gsi7pk" json:"-"`
	GSI7SK      string `dynamodbav:"gsi7sk" json:"-"`
	CreatedAt   string `dynamodbav:"created_at" json:"created_at"`
	CreatedBy   string `dynamodbav:"created_by,omitempty" json:"created_by,omitempty"`
	UpdatedAt   string `dynamodbav:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedBy   string `dynamodbav:"updated_by,omitempty" json:"updated_by,omitempty"`
}

// ContractInput is a validated contract
type ContractInput struct {
	IDEmpresa   int64
	IDContrato  int64
	IDOrigen    int64
	Descripcion string
}

// ContractItemType is the type tag of contracts
func ContractItemType(stage string) string { return ItemType("CAT_CONTRATO", stage) }

// NewContract builds the stored item for a validated contract
func NewContract(in ContractInput, stage, actor, now string) Contract {
	key := ContractKey(in.IDEmpresa)
	return Contract{
		PK:          key.PK,
		SK:          key.SK,
		IDEmpresa:   in.IDEmpresa,
		IDContrato:  in.IDContrato,
		IDOrigen:    in.IDOrigen,
		Descripcion: in.Descripcion,
		ItemType:    ContractItemType(stage),
		GSI7PK:      OriginIndexKey(in.IDOrigen),
		GSI7SK:      ContractIndexSortKey(in.IDContrato, key.PK),
		CreatedAt:   now,
		CreatedBy:   actor,
	}
}

// ParseContractCreate validates a contract create body
func ParseContractCreate(raw string) (ContractInput, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return ContractInput{}, err
	}

	var in ContractInput
	if in.IDEmpresa, err = v.PositiveID("id_empresa", body["id_empresa"]); err != nil {
		return ContractInput{}, err
	}
	if in.IDContrato, err = v.PositiveID("id_contrato", body["id_contrato"]); err != nil {
		return ContractInput{}, err
	}
	if in.IDOrigen, err = v.PositiveID("id_origen", body["id_origen"]); err != nil {
		return ContractInput{}, err
	}
	if in.Descripcion, err = v.Text("descripcion", body["descripcion"], v.RequiredText(contractDescriptionMax)); err != nil {
		return ContractInput{}, err
	}
	return in, nil
}

// ContractPatch holds the fields present in a contract update
type ContractPatch struct {
	IDContrato  *int64
	IDOrigen    *int64
	Descripcion *string
}

// ParseContractUpdate validates only the fields present in a contract update
func ParseContractUpdate(pathIDEmpresa int64, raw string) (ContractPatch, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return ContractPatch{}, err
	}

	if body.Has("id_empresa") {
		id, err := v.PositiveID("id_empresa", body["id_empresa"])
		if err != nil {
			return ContractPatch{}, err
		}
		if id != pathIDEmpresa {
			return ContractPatch{}, errPathMismatch("id_empresa")
		}
	}

	if !body.HasAny("id_contrato", "id_origen", "descripcion") {
		return ContractPatch{}, errNothingToUpdate("id_contrato", "id_origen", "descripcion")
	}

	var patch ContractPatch
	if patch.IDContrato, err = v.OptionalPositiveID(body, "id_contrato"); err != nil {
		return ContractPatch{}, err
	}
	if patch.IDOrigen, err = v.OptionalPositiveID(body, "id_origen"); err != nil {
		return ContractPatch{}, err
	}
	if body.Has("descripcion") {
		desc, err := v.Text("descripcion", body["descripcion"], v.RequiredText(contractDescriptionMax))
		if err != nil {
			return ContractPatch{}, err
		}
		patch.Descripcion = &desc
	}
	return patch, nil
}

// Changes computes the update against the current item. GSI7 keys are
// rederived from the merged origin and contract whenever either changes.
func (p ContractPatch) Changes(current Contract, actor string) Changes {
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
	if p.Descripcion != nil {
		changes.Set("descripcion", *p.Descripcion)
	}
	if p.IDOrigen != nil || p.IDContrato != nil {
		changes.Set(AttrGSI7PK, OriginIndexKey(origen))
		changes.Set(AttrGSI7SK, ContractIndexSortKey(contrato, current.PK))
	}
	if actor != "" {
		changes.Set("updated_by", actor)
	}
	return changes
}

// ContractFilter selects contracts by origin, optionally narrowed to one contract
type ContractFilter struct {
	IDOrigen   *int64
	IDContrato *int64
}

// ParseContractFilter validates the list query parameters of contracts
func ParseContractFilter(query map[string]string) (ContractFilter, error) {
	var f ContractFilter
	var err error
	if f.IDOrigen, err = optionalQueryID(query, "id_origen"); err != nil {
		return ContractFilter{}, err
	}
	if f.IDContrato, err = optionalQueryID(query, "id_contrato"); err != nil {
		return ContractFilter{}, err
	}
	if f.IDContrato != nil && f.IDOrigen == nil {
		return ContractFilter{}, errors.NewFieldError("id_origen", "is required when filtering by id_contrato")
	}
	return f, nil
}

func optionalQueryID(query map[string]string, field string) (*int64, error) {
	raw, ok := query[field]
	if !ok {
		return nil, nil
	}
	id, err := v.PositiveID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
