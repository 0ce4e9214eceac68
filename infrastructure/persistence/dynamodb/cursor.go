package dynamodb

import (
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"vector-pai/domain/entities"
	"vector-pai/pkg/errors"
)

// EncodeCursor renders a LastEvaluatedKey as a JSON object of string key
// attributes, e.g. {"_pk":"CAT_GRUPO#1","_sk":"METADATA"}. An empty key
// yields an empty cursor.
func EncodeCursor(lastKey map[string]types.AttributeValue) (string, error) {
	if len(lastKey) == 0 {
		return "", nil
	}

	var plain map[string]string
	if err := attributevalue.UnmarshalMap(lastKey, &plain); err != nil {
		return "", errors.NewInternalError("failed to encode pagination cursor").WithCause(err)
	}
	b, err := json.Marshal(plain)
	if err != nil {
		return "", errors.NewInternalError("failed to encode pagination cursor").WithCause(err)
	}
	return string(b), nil
}

// DecodeCursor parses a cursor produced by EncodeCursor. Only known key
// attributes are accepted and both primary key attributes are required.
func DecodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	cursor = strings.TrimSpace(cursor)
	if cursor == "" {
		return nil, nil
	}

	invalid := func(cause error) error {
		e := errors.NewFieldError("lastEvaluatedKey", "is not a valid pagination cursor")
		if cause != nil {
			e = e.WithCause(cause)
		}
		return e
	}

	var plain map[string]string
	if err := json.Unmarshal([]byte(cursor), &plain); err != nil {
		return nil, invalid(err)
	}
	if plain[entities.AttrPK] == "" || plain[entities.AttrSK] == "" {
		return nil, invalid(nil)
	}
	for attr, value := range plain {
		if !isKeyAttribute(attr) || value == "" {
			return nil, invalid(nil)
		}
	}

	key, err := attributevalue.MarshalMap(plain)
	if err != nil {
		return nil, invalid(err)
	}
	return key, nil
}

func isKeyAttribute(attr string) bool {
	for _, a := range entities.KeyAttributes {
		if a == attr {
			return true
		}
	}
	return false
}
