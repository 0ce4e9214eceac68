package dynamodb

import (
	stderrors "errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"vector-pai/pkg/errors"
)

type operation int

const (
	opCreate operation = iota
	opRead
	opWrite
)

// classify maps a DynamoDB failure onto the application error taxonomy.
// Failed conditions mean the key already exists on create and is missing
// on update or delete.
func classify(op operation, err error) *errors.AppError {
	var ccf *types.ConditionalCheckFailedException
	if stderrors.As(err, &ccf) {
		if op == opCreate {
			return errors.NewConflictError("item already exists").WithCause(err)
		}
		return errors.NewNotFoundError("item").WithCause(err)
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ProvisionedThroughputExceededException", "RequestLimitExceeded", "ThrottlingException":
			return errors.NewThrottlingError("the table is temporarily overloaded, retry later").WithCause(err)
		case "ValidationException":
			return errors.NewValidationError(apiErr.ErrorMessage()).WithCause(err)
		case "TransactionConflictException":
			return errors.NewConflictError("the item is being modified concurrently").WithCause(err)
		case "ResourceNotFoundException":
			return errors.NewDatabaseError("table lookup", err)
		}
	}

	return errors.NewDatabaseError(opName(op), err)
}

func opName(op operation) string {
	switch op {
	case opCreate:
		return "create"
	case opRead:
		return "read"
	default:
		return "write"
	}
}
