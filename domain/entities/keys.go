package entities

import (
	"fmt"
	"strings"
)

// Key is the composite primary key of a stored item
type Key struct {
	PK string `dynamodbav:"_pk"`
	SK string `dynamodbav:"_sk"`
}

// String renders the key for logs and audit events
func (k Key) String() string {
	return k.PK + "|" + k.SK
}

// Primary key attribute names
const (
	AttrPK = "_pk"
	AttrSK = "_sk"

	AttrItemType  = "item_type"
	AttrCreatedAt = "created_at"
	AttrUpdatedAt = "updated_at"
)

// MetadataSK is the sort key of every single-item entity
const MetadataSK = "METADATA"

// Secondary indexes. Each index is keyed by gsiNpk/gsiNsk. Both the write
// path and the read path derive index values through the functions below.
const (
	IndexContractUsers   = "GSI5"
	IndexContractsByPair = "GSI7"
	IndexCyclesByPair    = "GSI8"

	AttrGSI5PK = "gsi5pk"
	AttrGSI5SK = "gsi5sk"
	AttrGSI7PK = "gsi7pk"
	AttrGSI7SK = "gsi7sk"
	AttrGSI8PK = "gsi8pk"
	AttrGSI8SK = "gsi8sk"
)

// KeyAttributes lists every attribute that may appear in a pagination cursor
var KeyAttributes = []string{
	AttrPK, AttrSK,
	AttrGSI5PK, AttrGSI5SK,
	AttrGSI7PK, AttrGSI7SK,
	AttrGSI8PK, AttrGSI8SK,
}

const (
	groupPrefix        = "CAT_GRUPO#"
	originPrefix       = "CAT_ORIGEN#"
	contractPrefix     = "CAT_CONTRATO#"
	cyclePrefix        = "CAT_CONTRATO_CICLO#"
	userPrefix         = "USUARIO#"
	userContractPrefix = "CONTRATO_USUARIO#"
	periodPK           = "CATALOGO#PERIODOS"
	periodPrefix       = "PERIODO#"
)

// GroupKey addresses a catalog group
func GroupKey(id int64) Key {
	return Key{PK: fmt.Sprintf("%s%d", groupPrefix, id), SK: MetadataSK}
}

// OriginKey addresses a catalog origin
func OriginKey(id int64) Key {
	return Key{PK: fmt.Sprintf("%s%d", originPrefix, id), SK: MetadataSK}
}

// ContractKey addresses a contract by company
func ContractKey(idEmpresa int64) Key {
	return Key{PK: fmt.Sprintf("%s%d", contractPrefix, idEmpresa), SK: MetadataSK}
}

// CycleKey addresses a contract cycle
func CycleKey(idCiclo int64) Key {
	return Key{PK: fmt.Sprintf("%s%d", cyclePrefix, idCiclo), SK: MetadataSK}
}

// UserKey addresses a user profile
func UserKey(idUsuario string) Key {
	return Key{PK: UserPartition(idUsuario), SK: MetadataSK}
}

// UserPartition is the partition shared by a user and its contract links
func UserPartition(idUsuario string) string {
	return userPrefix + idUsuario
}

// UserContractKey addresses the link between a user and a contract
func UserContractKey(idUsuario string, idOrigen, idContrato int64) Key {
	return Key{
		PK: UserPartition(idUsuario),
		SK: fmt.Sprintf("%s%d#%d", userContractPrefix, idOrigen, idContrato),
	}
}

// UserContractSKPrefix selects every contract link inside a user partition
const UserContractSKPrefix = userContractPrefix

// PeriodPartition holds every catalog period
const PeriodPartition = periodPK

// PeriodKey addresses a catalog period
func PeriodKey(periodo string) Key {
	return Key{PK: periodPK, SK: periodPrefix + periodo}
}

// PeriodSKPrefix selects every period in PeriodPartition
const PeriodSKPrefix = periodPrefix

// OriginIndexKey is the GSI7/GSI8 partition of an origin
func OriginIndexKey(idOrigen int64) string {
	return fmt.Sprintf("ORIGEN#%d", idOrigen)
}

// ContractIndexPrefix selects every GSI7/GSI8 entry of one contract inside an origin partition
func ContractIndexPrefix(idContrato int64) string {
	return fmt.Sprintf("ID_CONTRATO#%d#", idContrato)
}

// ContractIndexSortKey is the GSI7/GSI8 sort key of the item stored under pk
func ContractIndexSortKey(idContrato int64, pk string) string {
	return ContractIndexPrefix(idContrato) + pk
}

// ContractIndexKey is the GSI5 partition of a contract
func ContractIndexKey(idContrato int64) string {
	return fmt.Sprintf("CONTRATO#%d", idContrato)
}

// UserIndexKey is the GSI5 sort key of a user
func UserIndexKey(idUsuario string) string {
	return UserPartition(idUsuario)
}

// ItemType builds the literal type tag, e.g. RK_PAI_CAT_GRUPO_DEV
func ItemType(entity, stage string) string {
	if stage == "" {
		stage = "dev"
	}
	return "RK_PAI_" + entity + "_" + strings.ToUpper(stage)
}
