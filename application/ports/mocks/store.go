// Package mocks provides test doubles for the application ports.
package mocks

import (
	"context"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"vector-pai/application/ports"
	"vector-pai/domain/entities"
	"vector-pai/pkg/errors"
	"vector-pai/pkg/utils"
)

// MemoryStore is an in-memory ItemStore with the same conditional semantics
// as the table: create fails on an existing key, update and delete fail on
// a missing one. Cursors are opaque offsets.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	// errs forces the next call of the named operation to fail
	errs map[string]error

	Calls []string
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: map[string]map[string]types.AttributeValue{},
		errs:  map[string]error{},
	}
}

var _ ports.ItemStore = (*MemoryStore)(nil)

// SetError makes the next call to op ("Create", "Get", ...) return err
func (m *MemoryStore) SetError(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[op] = err
}

// Len returns the number of stored items
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Raw returns the stored attributes at key, or nil
func (m *MemoryStore) Raw(key entities.Key) map[string]types.AttributeValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[key.String()]
}

func (m *MemoryStore) enter(op string) error {
	m.Calls = append(m.Calls, op)
	if err, ok := m.errs[op]; ok {
		delete(m.errs, op)
		return err
	}
	return nil
}

func (m *MemoryStore) Create(_ context.Context, item interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Create"); err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return errors.NewInternalError("failed to marshal item").WithCause(err)
	}
	id := idOf(av)
	if _, exists := m.items[id]; exists {
		return errors.NewConflictError("item already exists")
	}
	m.items[id] = av
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key entities.Key, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Get"); err != nil {
		return err
	}

	av, ok := m.items[key.String()]
	if !ok {
		return errors.NewNotFoundError("item")
	}
	return attributevalue.UnmarshalMap(av, out)
}

func (m *MemoryStore) Update(_ context.Context, key entities.Key, changes entities.Changes, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Update"); err != nil {
		return err
	}

	av, ok := m.items[key.String()]
	if !ok {
		return errors.NewNotFoundError("item")
	}
	for _, attr := range changes.Attributes() {
		if attr == entities.AttrPK || attr == entities.AttrSK {
			continue
		}
		v, err := attributevalue.Marshal(changes[attr])
		if err != nil {
			return errors.NewInternalError("failed to marshal value").WithCause(err)
		}
		av[attr] = v
	}
	av[entities.AttrUpdatedAt] = &types.AttributeValueMemberS{Value: utils.NowTimestamp()}

	if out == nil {
		return nil
	}
	return attributevalue.UnmarshalMap(av, out)
}

func (m *MemoryStore) Delete(_ context.Context, key entities.Key, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Delete"); err != nil {
		return err
	}

	av, ok := m.items[key.String()]
	if !ok {
		return errors.NewNotFoundError("item")
	}
	delete(m.items, key.String())

	if out == nil {
		return nil
	}
	return attributevalue.UnmarshalMap(av, out)
}

func (m *MemoryStore) Query(_ context.Context, q ports.Query, out interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Query"); err != nil {
		return "", err
	}

	matched := m.match(func(av map[string]types.AttributeValue) bool {
		if stringAttr(av, q.PartitionAttr) != q.PartitionValue {
			return false
		}
		if q.SortPrefix != "" && !strings.HasPrefix(stringAttr(av, q.SortAttr), q.SortPrefix) {
			return false
		}
		return matchesFilters(av, q.Filters)
	})
	return page(matched, q.Limit, q.Cursor, out)
}

func (m *MemoryStore) Scan(_ context.Context, s ports.ScanQuery, out interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Scan"); err != nil {
		return "", err
	}

	matched := m.match(func(av map[string]types.AttributeValue) bool {
		return matchesFilters(av, s.Filters)
	})
	return page(matched, s.Limit, s.Cursor, out)
}

func (m *MemoryStore) match(keep func(map[string]types.AttributeValue) bool) []map[string]types.AttributeValue {
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var matched []map[string]types.AttributeValue
	for _, id := range ids {
		if keep(m.items[id]) {
			matched = append(matched, m.items[id])
		}
	}
	return matched
}

func page(items []map[string]types.AttributeValue, limit int32, cursor string, out interface{}) (string, error) {
	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 {
			return "", errors.NewFieldError("lastEvaluatedKey", "is not a valid pagination cursor")
		}
		offset = n
	}
	if offset > len(items) {
		offset = len(items)
	}

	end := len(items)
	next := ""
	if limit > 0 && offset+int(limit) < len(items) {
		end = offset + int(limit)
		next = strconv.Itoa(end)
	}

	window := items[offset:end]
	if window == nil {
		window = []map[string]types.AttributeValue{}
	}
	if err := attributevalue.UnmarshalListOfMaps(window, out); err != nil {
		return "", err
	}
	return next, nil
}

func matchesFilters(av map[string]types.AttributeValue, filters []ports.Condition) bool {
	for _, f := range filters {
		want, err := attributevalue.Marshal(f.Value)
		if err != nil || !reflect.DeepEqual(av[f.Attr], want) {
			return false
		}
	}
	return true
}

func stringAttr(av map[string]types.AttributeValue, attr string) string {
	if s, ok := av[attr].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func idOf(av map[string]types.AttributeValue) string {
	return entities.Key{PK: stringAttr(av, entities.AttrPK), SK: stringAttr(av, entities.AttrSK)}.String()
}
