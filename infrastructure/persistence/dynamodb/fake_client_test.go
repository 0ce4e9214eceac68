package dynamodb

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient keeps items in memory and honors attribute_exists /
// attribute_not_exists conditions on the primary key. Query and Scan
// record their input and answer with the configured page.
type fakeClient struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	err error

	lastQuery *dynamodb.QueryInput
	lastScan  *dynamodb.ScanInput
	page      []map[string]types.AttributeValue
	pageLast  map[string]types.AttributeValue
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: map[string]map[string]types.AttributeValue{}}
}

func itemID(item map[string]types.AttributeValue) string {
	pk, _ := item["_pk"].(*types.AttributeValueMemberS)
	sk, _ := item["_sk"].(*types.AttributeValueMemberS)
	if pk == nil || sk == nil {
		return ""
	}
	return pk.Value + "|" + sk.Value
}

func (f *fakeClient) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	id := itemID(in.Item)
	if _, exists := f.items[id]; exists && in.ConditionExpression != nil &&
		strings.Contains(*in.ConditionExpression, "attribute_not_exists") {
		return nil, &types.ConditionalCheckFailedException{Message: strPtr("The conditional request failed")}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[itemID(in.Key)]}, nil
}

func (f *fakeClient) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	id := itemID(in.Key)
	current, exists := f.items[id]
	if !exists {
		return nil, &types.ConditionalCheckFailedException{Message: strPtr("The conditional request failed")}
	}

	next := make(map[string]types.AttributeValue, len(current))
	for k, v := range current {
		next[k] = v
	}
	clauses := strings.TrimPrefix(strings.TrimSpace(*in.UpdateExpression), "SET ")
	for _, clause := range strings.Split(clauses, ",") {
		parts := strings.Split(strings.TrimSpace(clause), " = ")
		if len(parts) != 2 {
			return nil, fmt.Errorf("unsupported update clause %q", clause)
		}
		name := in.ExpressionAttributeNames[parts[0]]
		next[name] = in.ExpressionAttributeValues[parts[1]]
	}
	f.items[id] = next
	return &dynamodb.UpdateItemOutput{Attributes: next}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	id := itemID(in.Key)
	prior, exists := f.items[id]
	if !exists {
		return nil, &types.ConditionalCheckFailedException{Message: strPtr("The conditional request failed")}
	}
	delete(f.items, id)
	return &dynamodb.DeleteItemOutput{Attributes: prior}, nil
}

func (f *fakeClient) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.QueryOutput{Items: f.page, LastEvaluatedKey: f.pageLast}, nil
}

func (f *fakeClient) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastScan = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.ScanOutput{Items: f.page, LastEvaluatedKey: f.pageLast}, nil
}

func strPtr(s string) *string { return &s }
