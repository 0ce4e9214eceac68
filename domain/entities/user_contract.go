package entities

import (
	v "vector-pai/domain/validators"
	"vector-pai/pkg/errors"
)

const participantTokenMax = 255

// UserContract links a user to a contract. It lives in the user partition
// and is reachable by contract through GSI5.
type UserContract struct {
	PK                string `dynamodbav:"_pk" json:"-"`
	SK                string `dynamodbav:"_sk" json:"-"`
	IDUsuario         string `dynamodbav:"id_usuario" json:"id_usuario"`
	IDOrigen          int64  `dynamodbav:"id_origen" json:"id_origen"`
	IDContrato        int64  `dynamodbav:"id_contrato" json:"id_contrato"`
	IDCiclo           *int64 `dynamodbav:"id_ciclo,omitempty" json:"id_ciclo,omitempty"`
	IDParticipante    *int64 `dynamodbav:"id_participante,omitempty" json:"id_participante,omitempty"`
	TokenParticipante string `dynamodbav:"token_participante,omitempty" json:"token_participante,omitempty"`
	ItemType          string `dynamodbav:"item_type" json:"item_type"`
	GSI5PK            string `dynamodbav:"gsi5pk" json:"-"`
	GSI5SK            string `dynamodbav:"gsi5sk" json:"-"`
	CreatedAt         string `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt         string `dynamodbav:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// UserContractRef is the path identity of a link
type UserContractRef struct {
	IDUsuario  string
	IDOrigen   int64
	IDContrato int64
}

// Key addresses the link
func (r UserContractRef) Key() Key {
	return UserContractKey(r.IDUsuario, r.IDOrigen, r.IDContrato)
}

// UserContractInput is a validated link
type UserContractInput struct {
	UserContractRef
	IDCiclo           *int64
	IDParticipante    *int64
	TokenParticipante string
}

// UserContractItemType is the type tag of user-contract links
func UserContractItemType(stage string) string { return ItemType("USUARIO_CONTRATO", stage) }

// NewUserContract builds the stored item for a validated link
func NewUserContract(in UserContractInput, stage, now string) UserContract {
	key := in.Key()
	return UserContract{
		PK:                key.PK,
		SK:                key.SK,
		IDUsuario:         in.IDUsuario,
		IDOrigen:          in.IDOrigen,
		IDContrato:        in.IDContrato,
		IDCiclo:           in.IDCiclo,
		IDParticipante:    in.IDParticipante,
		TokenParticipante: in.TokenParticipante,
		ItemType:          UserContractItemType(stage),
		GSI5PK:            ContractIndexKey(in.IDContrato),
		GSI5SK:            UserIndexKey(in.IDUsuario),
		CreatedAt:         now,
	}
}

// ParseUserContractRef validates the three path parameters of a link
func ParseUserContractRef(idUsuario, idOrigen, idContrato string) (UserContractRef, error) {
	var ref UserContractRef
	var err error
	if ref.IDUsuario, err = ParseUserID("id_usuario", idUsuario); err != nil {
		return UserContractRef{}, err
	}
	if ref.IDOrigen, err = v.PositiveID("id_origen", idOrigen); err != nil {
		return UserContractRef{}, err
	}
	if ref.IDContrato, err = v.PositiveID("id_contrato", idContrato); err != nil {
		return UserContractRef{}, err
	}
	return ref, nil
}

// ParseUserContractCreate validates a link create body
func ParseUserContractCreate(raw string) (UserContractInput, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return UserContractInput{}, err
	}

	var in UserContractInput
	if in.IDUsuario, err = ParseUserID("id_usuario", body["id_usuario"]); err != nil {
		return UserContractInput{}, err
	}
	if in.IDOrigen, err = v.PositiveID("id_origen", body["id_origen"]); err != nil {
		return UserContractInput{}, err
	}
	if in.IDContrato, err = v.PositiveID("id_contrato", body["id_contrato"]); err != nil {
		return UserContractInput{}, err
	}
	if body["id_ciclo"] != nil {
		if in.IDCiclo, err = v.OptionalPositiveID(body, "id_ciclo"); err != nil {
			return UserContractInput{}, err
		}
	}
	if body["id_participante"] != nil {
		if in.IDParticipante, err = v.OptionalPositiveID(body, "id_participante"); err != nil {
			return UserContractInput{}, err
		}
	}
	if body["token_participante"] != nil {
		if in.TokenParticipante, err = v.Identifier("token_participante", body["token_participante"], participantTokenMax); err != nil {
			return UserContractInput{}, err
		}
	}
	return in, nil
}

var userContractUpdatable = []string{"id_ciclo", "id_participante", "token_participante"}

// ParseUserContractUpdate validates a link update. The identity fields may be
// repeated in the body but must match the path.
func ParseUserContractUpdate(ref UserContractRef, raw string) (Changes, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return nil, err
	}

	if body.Has("id_usuario") {
		id, err := ParseUserID("id_usuario", body["id_usuario"])
		if err != nil {
			return nil, err
		}
		if id != ref.IDUsuario {
			return nil, errPathMismatch("id_usuario")
		}
	}
	for field, want := range map[string]int64{"id_origen": ref.IDOrigen, "id_contrato": ref.IDContrato} {
		if !body.Has(field) {
			continue
		}
		id, err := v.PositiveID(field, body[field])
		if err != nil {
			return nil, err
		}
		if id != want {
			return nil, errPathMismatch(field)
		}
	}

	if !body.HasAny(userContractUpdatable...) {
		return nil, errNothingToUpdate(userContractUpdatable...)
	}

	changes := Changes{}
	for _, field := range []string{"id_ciclo", "id_participante"} {
		id, err := v.OptionalPositiveID(body, field)
		if err != nil {
			return nil, err
		}
		if id != nil {
			changes.Set(field, *id)
		}
	}
	if body.Has("token_participante") {
		tok, err := v.Identifier("token_participante", body["token_participante"], participantTokenMax)
		if err != nil {
			return nil, err
		}
		changes.Set("token_participante", tok)
	}
	return changes, nil
}

// UserContractFilter lists links of one user or of one contract
type UserContractFilter struct {
	IDUsuario  string
	IDContrato *int64
	IDCiclo    *int64
}

// ParseUserContractFilter requires exactly one of id_usuario or id_contrato
func ParseUserContractFilter(query map[string]string) (UserContractFilter, error) {
	var f UserContractFilter
	var err error

	if raw, ok := query["id_usuario"]; ok {
		if f.IDUsuario, err = ParseUserID("id_usuario", raw); err != nil {
			return UserContractFilter{}, err
		}
	}
	if f.IDContrato, err = optionalQueryID(query, "id_contrato"); err != nil {
		return UserContractFilter{}, err
	}
	if f.IDCiclo, err = optionalQueryID(query, "id_ciclo"); err != nil {
		return UserContractFilter{}, err
	}

	switch {
	case f.IDUsuario == "" && f.IDContrato == nil:
		return UserContractFilter{}, errors.NewValidationError("id_usuario or id_contrato query parameter is required")
	case f.IDUsuario != "" && f.IDContrato != nil:
		return UserContractFilter{}, errors.NewValidationError("id_usuario and id_contrato cannot be combined")
	}
	return f, nil
}
