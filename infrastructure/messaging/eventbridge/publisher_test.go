package eventbridge

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vector-pai/domain/events"
)

type fakeClient struct {
	input *eventbridge.PutEventsInput
	out   *eventbridge.PutEventsOutput
	err   error
}

func (f *fakeClient) PutEvents(_ context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.input = in
	if f.out == nil {
		f.out = &eventbridge.PutEventsOutput{}
	}
	return f.out, f.err
}

func TestPublisher(t *testing.T) {
	event := events.NewEntityChanged("contrato", events.OperationUpdated, "CAT_CONTRATO#1|METADATA", "sub-1",
		map[string]interface{}{"id_empresa": 1}, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	t.Run("Should send the event with type and source", func(t *testing.T) {
		client := &fakeClient{}
		p := NewPublisher(client, "audit-bus", zap.NewNop())

		require.NoError(t, p.Publish(context.Background(), event))

		require.Len(t, client.input.Entries, 1)
		entry := client.input.Entries[0]
		assert.Equal(t, "audit-bus", aws.ToString(entry.EventBusName))
		assert.Equal(t, events.SourceBackend, aws.ToString(entry.Source))
		assert.Equal(t, "contrato.updated", aws.ToString(entry.DetailType))

		var detail map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
		assert.Equal(t, "sub-1", detail["actor"])
		assert.Equal(t, "CAT_CONTRATO#1|METADATA", detail["aggregate_id"])
	})

	t.Run("Should fail on a transport error", func(t *testing.T) {
		p := NewPublisher(&fakeClient{err: stderrors.New("timeout")}, "audit-bus", zap.NewNop())

		assert.Error(t, p.Publish(context.Background(), event))
	})

	t.Run("Should fail when the entry is rejected", func(t *testing.T) {
		client := &fakeClient{out: &eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
		}}
		p := NewPublisher(client, "audit-bus", zap.NewNop())

		assert.Error(t, p.Publish(context.Background(), event))
	})
}
