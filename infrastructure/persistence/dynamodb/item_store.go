// Package dynamodb implements the item store on a single DynamoDB table.
package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"vector-pai/application/ports"
	"vector-pai/domain/entities"
	"vector-pai/pkg/errors"
	"vector-pai/pkg/observability"
	"vector-pai/pkg/utils"
)

// Client is the subset of the DynamoDB API used by ItemStore
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// ItemStore implements ports.ItemStore with conditional single-item writes
type ItemStore struct {
	client    Client
	tableName string
	tracer    *observability.Tracer
	logger    *zap.Logger
}

// NewItemStore creates a new ItemStore. tracer may be nil.
func NewItemStore(client Client, tableName string, tracer *observability.Tracer, logger *zap.Logger) *ItemStore {
	return &ItemStore{
		client:    client,
		tableName: tableName,
		tracer:    tracer,
		logger:    logger,
	}
}

var _ ports.ItemStore = (*ItemStore)(nil)

// Create puts item if no item with the same key exists
func (s *ItemStore) Create(ctx context.Context, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return errors.NewInternalError("failed to marshal item").WithCause(err)
	}

	cond := expression.Name(entities.AttrPK).AttributeNotExists()
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return errors.NewInternalError("failed to build expression").WithCause(err)
	}

	input := &dynamodb.PutItemInput{
		TableName:                 aws.String(s.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	key := keyOf(av)
	start := time.Now()
	err = s.trace(ctx, "dynamodb.PutItem", func(ctx context.Context) error {
		_, err := s.client.PutItem(ctx, input)
		return err
	})
	if err != nil {
		return s.fail("create", key, classify(opCreate, err))
	}

	s.logger.Info("Item created",
		zap.String("key", key),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Get reads the item at key into out
func (s *ItemStore) Get(ctx context.Context, key entities.Key, out interface{}) error {
	av, err := marshalKey(key)
	if err != nil {
		return err
	}

	var result *dynamodb.GetItemOutput
	err = s.trace(ctx, "dynamodb.GetItem", func(ctx context.Context) error {
		var err error
		result, err = s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(s.tableName),
			Key:       av,
		})
		return err
	})
	if err != nil {
		return s.fail("get", key.String(), classify(opRead, err))
	}
	if result.Item == nil {
		return errors.NewNotFoundError("item")
	}

	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return errors.NewInternalError("failed to unmarshal item").WithCause(err)
	}
	return nil
}

// Update sets only the changed attributes plus updated_at on an existing item
func (s *ItemStore) Update(ctx context.Context, key entities.Key, changes entities.Changes, out interface{}) error {
	av, err := marshalKey(key)
	if err != nil {
		return err
	}

	update := expression.Set(expression.Name(entities.AttrUpdatedAt), expression.Value(utils.NowTimestamp()))
	for _, attr := range changes.Attributes() {
		if attr == entities.AttrPK || attr == entities.AttrSK || attr == entities.AttrUpdatedAt {
			continue
		}
		update = update.Set(expression.Name(attr), expression.Value(changes[attr]))
	}

	cond := expression.Name(entities.AttrPK).AttributeExists()
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return errors.NewInternalError("failed to build expression").WithCause(err)
	}

	var result *dynamodb.UpdateItemOutput
	err = s.trace(ctx, "dynamodb.UpdateItem", func(ctx context.Context) error {
		var err error
		result, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(s.tableName),
			Key:                       av,
			UpdateExpression:          expr.Update(),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ReturnValues:              types.ReturnValueAllNew,
		})
		return err
	})
	if err != nil {
		return s.fail("update", key.String(), classify(opWrite, err))
	}

	s.logger.Info("Item updated",
		zap.String("key", key.String()),
		zap.Strings("attributes", changes.Attributes()),
	)

	if out == nil {
		return nil
	}
	if err := attributevalue.UnmarshalMap(result.Attributes, out); err != nil {
		return errors.NewInternalError("failed to unmarshal item").WithCause(err)
	}
	return nil
}

// Delete removes an existing item, reading its prior image into out
func (s *ItemStore) Delete(ctx context.Context, key entities.Key, out interface{}) error {
	av, err := marshalKey(key)
	if err != nil {
		return err
	}

	cond := expression.Name(entities.AttrPK).AttributeExists()
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return errors.NewInternalError("failed to build expression").WithCause(err)
	}

	var result *dynamodb.DeleteItemOutput
	err = s.trace(ctx, "dynamodb.DeleteItem", func(ctx context.Context) error {
		var err error
		result, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName:                 aws.String(s.tableName),
			Key:                       av,
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ReturnValues:              types.ReturnValueAllOld,
		})
		return err
	})
	if err != nil {
		return s.fail("delete", key.String(), classify(opWrite, err))
	}

	s.logger.Info("Item deleted", zap.String("key", key.String()))

	if out == nil {
		return nil
	}
	if err := attributevalue.UnmarshalMap(result.Attributes, out); err != nil {
		return errors.NewInternalError("failed to unmarshal item").WithCause(err)
	}
	return nil
}

// Query reads one page of items sharing a partition key
func (s *ItemStore) Query(ctx context.Context, q ports.Query, out interface{}) (string, error) {
	keyCond := expression.Key(q.PartitionAttr).Equal(expression.Value(q.PartitionValue))
	if q.SortAttr != "" && q.SortPrefix != "" {
		keyCond = keyCond.And(expression.Key(q.SortAttr).BeginsWith(q.SortPrefix))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if filter, ok := buildFilter(q.Filters); ok {
		builder = builder.WithFilter(filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return "", errors.NewInternalError("failed to build expression").WithCause(err)
	}

	startKey, err := DecodeCursor(q.Cursor)
	if err != nil {
		return "", err
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         startKey,
	}
	if q.Index != "" {
		input.IndexName = aws.String(q.Index)
	}
	if q.Limit > 0 {
		input.Limit = aws.Int32(q.Limit)
	}

	var result *dynamodb.QueryOutput
	err = s.trace(ctx, "dynamodb.Query", func(ctx context.Context) error {
		var err error
		result, err = s.client.Query(ctx, input)
		return err
	})
	if err != nil {
		return "", s.fail("query", q.PartitionValue, classify(opRead, err))
	}

	if err := attributevalue.UnmarshalListOfMaps(result.Items, out); err != nil {
		return "", errors.NewInternalError("failed to unmarshal items").WithCause(err)
	}

	s.logger.Debug("Query completed",
		zap.String("index", q.Index),
		zap.String("partition", q.PartitionValue),
		zap.Int("count", len(result.Items)),
	)
	return EncodeCursor(result.LastEvaluatedKey)
}

// Scan reads one page of the table
func (s *ItemStore) Scan(ctx context.Context, q ports.ScanQuery, out interface{}) (string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	}

	if filter, ok := buildFilter(q.Filters); ok {
		expr, err := expression.NewBuilder().WithFilter(filter).Build()
		if err != nil {
			return "", errors.NewInternalError("failed to build expression").WithCause(err)
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	startKey, err := DecodeCursor(q.Cursor)
	if err != nil {
		return "", err
	}
	input.ExclusiveStartKey = startKey
	if q.Limit > 0 {
		input.Limit = aws.Int32(q.Limit)
	}

	var result *dynamodb.ScanOutput
	err = s.trace(ctx, "dynamodb.Scan", func(ctx context.Context) error {
		var err error
		result, err = s.client.Scan(ctx, input)
		return err
	})
	if err != nil {
		return "", s.fail("scan", "", classify(opRead, err))
	}

	if err := attributevalue.UnmarshalListOfMaps(result.Items, out); err != nil {
		return "", errors.NewInternalError("failed to unmarshal items").WithCause(err)
	}

	s.logger.Debug("Scan completed", zap.Int("count", len(result.Items)))
	return EncodeCursor(result.LastEvaluatedKey)
}

func (s *ItemStore) trace(ctx context.Context, name string, fn func(context.Context) error) error {
	if s.tracer == nil {
		return fn(ctx)
	}
	return s.tracer.TraceFunction(ctx, name, func(ctx context.Context) error {
		s.tracer.AddAnnotation(ctx, "table", s.tableName)
		return fn(ctx)
	})
}

// fail logs err at a level matching its class and returns it
func (s *ItemStore) fail(op, key string, err *errors.AppError) error {
	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("key", key),
		zap.String("type", string(err.Type)),
		zap.Error(err.Cause),
	}
	if err.Type == errors.ErrorTypeInternal {
		s.logger.Error("Store operation failed", fields...)
	} else {
		s.logger.Warn("Store operation rejected", fields...)
	}
	return err
}

func buildFilter(filters []ports.Condition) (expression.ConditionBuilder, bool) {
	if len(filters) == 0 {
		return expression.ConditionBuilder{}, false
	}
	cond := expression.Name(filters[0].Attr).Equal(expression.Value(filters[0].Value))
	for _, f := range filters[1:] {
		cond = cond.And(expression.Name(f.Attr).Equal(expression.Value(f.Value)))
	}
	return cond, true
}

func marshalKey(key entities.Key) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(key)
	if err != nil {
		return nil, errors.NewInternalError("failed to marshal key").WithCause(err)
	}
	return av, nil
}

func keyOf(item map[string]types.AttributeValue) string {
	var key entities.Key
	_ = attributevalue.UnmarshalMap(item, &key)
	return key.String()
}
