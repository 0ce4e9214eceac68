package entities

import (
	v "vector-pai/domain/validators"
)

// Entity names, used in routes, logs and audit events
const (
	EntityGroup        = "cat-grupo"
	EntityOrigin       = "cat-origen"
	EntityContract     = "contrato"
	EntityCycle        = "contrato-ciclo"
	EntityUser         = "usuario"
	EntityUserContract = "usuario-contrato"
	EntityPeriod       = "periodo"
)

const catalogDescriptionMax = 255

// CatalogInput is a validated catalog entry: a positive id and a description
type CatalogInput struct {
	ID          int64
	Descripcion string
}

// Group is a catalog group item
type Group struct {
	PK          string `dynamodbav:"_pk" json:"-"`
	SK          string `dynamodbav:"_sk" json:"-"`
	IDGrupo     int64  `dynamodbav:"id_grupo" json:"id_grupo"`
	Descripcion string `dynamodbav:"descripcion" json:"descripcion"`
	ItemType    string `dynamodbav:"item_type" json:"item_type"`
	CreatedAt   string `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// NewGroup builds the stored item for a validated group
func NewGroup(in CatalogInput, stage, now string) Group {
	key := GroupKey(in.ID)
	return Group{
		PK:          key.PK,
		SK:          key.SK,
		IDGrupo:     in.ID,
		Descripcion: in.Descripcion,
		ItemType:    GroupItemType(stage),
		CreatedAt:   now,
	}
}

// GroupItemType is the type tag of catalog groups
func GroupItemType(stage string) string { return ItemType("CAT_GRUPO", stage) }

// Origin is a catalog origin item
type Origin struct {
	PK          string `dynamodbav:"_pk" json:"-"`
	SK          string `dynamodbav:"_sk" json:"-"`
	IDOrigen    int64  `dynamodbav:"id_origen" json:"id_origen"`
	Descripcion string `dynamodbav:"descripcion" json:"descripcion"`
	ItemType    string `dynamodbav:"item_type" json:"item_type"`
	CreatedAt   string `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt   string `dynamodbav:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// NewOrigin builds the stored item for a validated origin
func NewOrigin(in CatalogInput, stage, now string) Origin {
	key := OriginKey(in.ID)
	return Origin{
		PK:          key.PK,
		SK:          key.SK,
		IDOrigen:    in.ID,
		Descripcion: in.Descripcion,
		ItemType:    OriginItemType(stage),
		CreatedAt:   now,
	}
}

// OriginItemType is the type tag of catalog origins
func OriginItemType(stage string) string { return ItemType("CAT_ORIGEN", stage) }

// ParseCatalogCreate validates a catalog create body whose id is named idField
func ParseCatalogCreate(idField, raw string) (CatalogInput, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return CatalogInput{}, err
	}

	id, err := v.PositiveID(idField, body[idField])
	if err != nil {
		return CatalogInput{}, err
	}
	desc, err := v.Text("descripcion", body["descripcion"], v.RequiredText(catalogDescriptionMax))
	if err != nil {
		return CatalogInput{}, err
	}

	return CatalogInput{ID: id, Descripcion: desc}, nil
}

// ParseCatalogUpdate validates a catalog update body. The body may repeat the
// id, in which case it must equal pathID.
func ParseCatalogUpdate(idField string, pathID int64, raw string) (Changes, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return nil, err
	}

	if body.Has(idField) {
		id, err := v.PositiveID(idField, body[idField])
		if err != nil {
			return nil, err
		}
		if id != pathID {
			return nil, errPathMismatch(idField)
		}
	}

	if !body.Has("descripcion") {
		return nil, errNothingToUpdate("descripcion")
	}
	desc, err := v.Text("descripcion", body["descripcion"], v.RequiredText(catalogDescriptionMax))
	if err != nil {
		return nil, err
	}

	return Changes{"descripcion": desc}, nil
}
