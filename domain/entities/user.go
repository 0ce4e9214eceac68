package entities

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	v "vector-pai/domain/validators"
	"vector-pai/pkg/errors"
	"vector-pai/pkg/utils"
)

const (
	userIDMax            = 50
	activationCodeLength = 9
	activationValidity   = 24 * time.Hour
)

// Blocking states of a user
const (
	BlockedYes     = "Y"
	BlockedNo      = "N"
	BlockedSuspend = "S"
)

// User is an application user profile. The activation code and its
// validity never leave the service.
type User struct {
	PK               string `dynamodbav:"_pk" json:"-"`
	SK               string `dynamodbav:"_sk" json:"-"`
	IDUsuario        string `dynamodbav:"id_usuario" json:"id_usuario"`
	Email            string `dynamodbav:"email" json:"email"`
	CodAct           string `dynamodbav:"cod_act,omitempty" json:"-"`
	CodActVig        string `dynamodbav:"cod_act_vig,omitempty" json:"-"`
	CognitoSub       string `dynamodbav:"cognito_sub,omitempty" json:"cognito_sub,omitempty"`
	IDDisp           string `dynamodbav:"id_disp,omitempty" json:"id_disp,omitempty"`
	Blk              string `dynamodbav:"blk" json:"blk"`
	IDBlkMotivo      *int64 `dynamodbav:"id_blk_motivo,omitempty" json:"id_blk_motivo,omitempty"`
	IDEstatus        *int64 `dynamodbav:"id_estatus,omitempty" json:"id_estatus,omitempty"`
	FechaEstatus     string `dynamodbav:"fecha_estatus,omitempty" json:"fecha_estatus,omitempty"`
	AppVersion       string `dynamodbav:"app_version,omitempty" json:"app_version,omitempty"`
	DispOSType       string `dynamodbav:"disp_os_type,omitempty" json:"disp_os_type,omitempty"`
	DispOSVersion    string `dynamodbav:"disp_os_version,omitempty" json:"disp_os_version,omitempty"`
	DispOSModel      string `dynamodbav:"disp_os_model,omitempty" json:"disp_os_model,omitempty"`
	DispIDEstatus    *int64 `dynamodbav:"disp_id_estatus,omitempty" json:"disp_id_estatus,omitempty"`
	DispFechaEstatus string `dynamodbav:"disp_fecha_estatus,omitempty" json:"disp_fecha_estatus,omitempty"`
	ItemType         string `dynamodbav:"item_type" json:"item_type"`
	CreatedAt        string `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt        string `dynamodbav:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// UserInput is a validated user profile
type UserInput struct {
	IDUsuario     string
	Email         string
	CodAct        string
	CognitoSub    string
	IDDisp        string
	Blk           string
	IDBlkMotivo   *int64
	IDEstatus     *int64
	AppVersion    string
	DispOSType    string
	DispOSVersion string
	DispOSModel   string
	DispIDEstatus *int64
}

// UserItemType is the type tag of application users
func UserItemType(stage string) string { return ItemType("USUARIO_APP", stage) }

// NewUser builds the stored item for a validated user. in.CodAct must be set.
func NewUser(in UserInput, stage string, now time.Time) User {
	key := UserKey(in.IDUsuario)
	ts := utils.FormatTimestamp(now)

	u := User{
		PK:            key.PK,
		SK:            key.SK,
		IDUsuario:     in.IDUsuario,
		Email:         in.Email,
		CodAct:        in.CodAct,
		CodActVig:     utils.FormatTimestamp(now.Add(activationValidity)),
		CognitoSub:    in.CognitoSub,
		IDDisp:        in.IDDisp,
		Blk:           in.Blk,
		IDBlkMotivo:   in.IDBlkMotivo,
		IDEstatus:     in.IDEstatus,
		AppVersion:    in.AppVersion,
		DispOSType:    in.DispOSType,
		DispOSVersion: in.DispOSVersion,
		DispOSModel:   in.DispOSModel,
		DispIDEstatus: in.DispIDEstatus,
		ItemType:      UserItemType(stage),
		CreatedAt:     ts,
	}
	if in.IDEstatus != nil {
		u.FechaEstatus = ts
	}
	if in.DispIDEstatus != nil {
		u.DispFechaEstatus = ts
	}
	return u
}

// GenerateActivationCode returns a random code drawn from utils.ActivationAlphabet
func GenerateActivationCode() (string, error) {
	alphabet := utils.ActivationAlphabet
	max := big.NewInt(int64(len(alphabet)))

	var sb strings.Builder
	sb.Grow(activationCodeLength)
	for i := 0; i < activationCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.NewInternalError("failed to generate activation code").WithCause(err)
		}
		sb.WriteByte(alphabet[n.Int64()])
	}
	return sb.String(), nil
}

// ParseUserID validates a user identifier taken from a path or a body
func ParseUserID(field string, raw interface{}) (string, error) {
	return v.Identifier(field, raw, userIDMax)
}

// ParseUserCreate validates a user create body. A missing activation code
// is left empty for the caller to generate.
func ParseUserCreate(raw string) (UserInput, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return UserInput{}, err
	}

	var in UserInput
	if in.IDUsuario, err = ParseUserID("id_usuario", body["id_usuario"]); err != nil {
		return UserInput{}, err
	}
	if in.Email, err = v.Email("email", body["email"]); err != nil {
		return UserInput{}, err
	}
	if body["cod_act"] != nil {
		if in.CodAct, err = parseActivationCode(body["cod_act"]); err != nil {
			return UserInput{}, err
		}
	}
	in.Blk = BlockedNo
	if body["blk"] != nil {
		if in.Blk, err = parseBlocked(body["blk"]); err != nil {
			return UserInput{}, err
		}
	}
	if err := parseUserOptional(body, &in); err != nil {
		return UserInput{}, err
	}
	return in, nil
}

var userTextFields = []struct {
	name string
	max  int
}{
	{"cognito_sub", 100},
	{"id_disp", 100},
	{"app_version", 20},
	{"disp_os_type", 50},
	{"disp_os_version", 50},
	{"disp_os_model", 100},
}

var userIDFields = []string{"id_blk_motivo", "id_estatus", "disp_id_estatus"}

func parseUserOptional(body v.Body, in *UserInput) error {
	texts := map[string]*string{
		"cognito_sub":     &in.CognitoSub,
		"id_disp":         &in.IDDisp,
		"app_version":     &in.AppVersion,
		"disp_os_type":    &in.DispOSType,
		"disp_os_version": &in.DispOSVersion,
		"disp_os_model":   &in.DispOSModel,
	}
	for _, f := range userTextFields {
		s, err := v.Text(f.name, body[f.name], v.OptionalText(f.max))
		if err != nil {
			return err
		}
		*texts[f.name] = s
	}

	ids := map[string]**int64{
		"id_blk_motivo":   &in.IDBlkMotivo,
		"id_estatus":      &in.IDEstatus,
		"disp_id_estatus": &in.DispIDEstatus,
	}
	for _, name := range userIDFields {
		if body[name] == nil {
			continue
		}
		id, err := v.PositiveID(name, body[name])
		if err != nil {
			return err
		}
		*ids[name] = &id
	}
	return nil
}

// ParseUserUpdate validates only the fields present in a user update. Status
// dates follow their status ids, and a new activation code restarts its validity.
func ParseUserUpdate(pathID, raw string, now time.Time) (Changes, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return nil, err
	}

	if body.Has("id_usuario") {
		id, err := ParseUserID("id_usuario", body["id_usuario"])
		if err != nil {
			return nil, err
		}
		if id != pathID {
			return nil, errPathMismatch("id_usuario")
		}
	}

	updatable := []string{"email", "cod_act", "blk"}
	for _, f := range userTextFields {
		updatable = append(updatable, f.name)
	}
	updatable = append(updatable, userIDFields...)
	if !body.HasAny(updatable...) {
		return nil, errNothingToUpdate(updatable...)
	}

	ts := utils.FormatTimestamp(now)
	changes := Changes{}

	if body.Has("email") {
		email, err := v.Email("email", body["email"])
		if err != nil {
			return nil, err
		}
		changes.Set("email", email)
	}
	if body.Has("cod_act") {
		code, err := parseActivationCode(body["cod_act"])
		if err != nil {
			return nil, err
		}
		changes.Set("cod_act", code)
		changes.Set("cod_act_vig", utils.FormatTimestamp(now.Add(activationValidity)))
	}
	if body.Has("blk") {
		blk, err := parseBlocked(body["blk"])
		if err != nil {
			return nil, err
		}
		changes.Set("blk", blk)
	}
	for _, f := range userTextFields {
		if !body.Has(f.name) {
			continue
		}
		s, err := v.Text(f.name, body[f.name], v.RequiredText(f.max))
		if err != nil {
			return nil, err
		}
		changes.Set(f.name, s)
	}
	for _, name := range userIDFields {
		if !body.Has(name) {
			continue
		}
		id, err := v.PositiveID(name, body[name])
		if err != nil {
			return nil, err
		}
		changes.Set(name, id)
	}

	if changes.Has("id_estatus") {
		changes.Set("fecha_estatus", ts)
	}
	if changes.Has("disp_id_estatus") {
		changes.Set("disp_fecha_estatus", ts)
	}
	return changes, nil
}

func parseActivationCode(raw interface{}) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", errors.NewFieldError("cod_act", "must be a string")
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if err := utils.ValidateVar("cod_act", s, "actcode"); err != nil {
		return "", errors.NewFieldError("cod_act", "must be 9 characters from "+utils.ActivationAlphabet)
	}
	return s, nil
}

func parseBlocked(raw interface{}) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", errors.NewFieldError("blk", "must be a string")
	}
	return v.OneOf("blk", strings.ToUpper(s), BlockedYes, BlockedNo, BlockedSuspend)
}
