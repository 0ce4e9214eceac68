package entities

import (
	v "vector-pai/domain/validators"
)

const periodNameMax = 100

// Period is an entry of the period catalog
type Period struct {
	PK            string `dynamodbav:"_pk" json:"-"`
	SK            string `dynamodbav:"_sk" json:"-"`
	Periodo       string `dynamodbav:"periodo" json:"periodo"`
	Actual        string `dynamodbav:"actual" json:"actual"`
	NombrePeriodo string `dynamodbav:"nombre_periodo" json:"nombre_periodo"`
	ItemType      string `dynamodbav:"item_type" json:"item_type"`
	CreatedAt     string `dynamodbav:"created_at" json:"created_at"`
}

// PeriodInput is a validated period
type PeriodInput struct {
	Periodo       string
	Actual        string
	NombrePeriodo string
}

// PeriodItemType is the type tag of catalog periods
func PeriodItemType(stage string) string { return ItemType("CATALOGO_PERIODOS", stage) }

// NewPeriod builds the stored item for a validated period
func NewPeriod(in PeriodInput, stage, now string) Period {
	key := PeriodKey(in.Periodo)
	return Period{
		PK:            key.PK,
		SK:            key.SK,
		Periodo:       in.Periodo,
		Actual:        in.Actual,
		NombrePeriodo: in.NombrePeriodo,
		ItemType:      PeriodItemType(stage),
		CreatedAt:     now,
	}
}

// ParsePeriod validates a YYYY-MM period taken from a path
func ParsePeriod(raw string) (string, error) {
	return v.Period("periodo", raw)
}

// ParsePeriodCreate validates a period create body
func ParsePeriodCreate(raw string) (PeriodInput, error) {
	body, err := v.ParseBody(raw)
	if err != nil {
		return PeriodInput{}, err
	}

	var in PeriodInput
	if in.Periodo, err = v.Period("periodo", body["periodo"]); err != nil {
		return PeriodInput{}, err
	}
	if in.Actual, err = v.OneOf("actual", body["actual"], "0", "1"); err != nil {
		return PeriodInput{}, err
	}
	if in.NombrePeriodo, err = v.Text("nombre_periodo", body["nombre_periodo"], v.RequiredText(periodNameMax)); err != nil {
		return PeriodInput{}, err
	}
	return in, nil
}
