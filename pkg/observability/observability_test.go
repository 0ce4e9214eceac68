package observability

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestMetrics(t *testing.T) {
	t.Run("Should publish latency and count with dimensions", func(t *testing.T) {
		client := &fakeCloudWatch{}
		m := NewMetrics("VectorPAI", client, true, zap.NewNop())
		require.NotNil(t, m)

		m.RecordRequest(context.Background(), "contrato", "GET", http.StatusNotFound, 42*time.Millisecond)

		require.Len(t, client.inputs, 1)
		in := client.inputs[0]
		assert.Equal(t, "VectorPAI", aws.ToString(in.Namespace))
		require.Len(t, in.MetricData, 2)
		assert.Equal(t, "RequestLatency", aws.ToString(in.MetricData[0].MetricName))
		assert.Equal(t, float64(42), aws.ToFloat64(in.MetricData[0].Value))
		assert.Equal(t, "RequestCount", aws.ToString(in.MetricData[1].MetricName))

		dims := map[string]string{}
		for _, d := range in.MetricData[0].Dimensions {
			dims[aws.ToString(d.Name)] = aws.ToString(d.Value)
		}
		assert.Equal(t, map[string]string{"Entity": "contrato", "Operation": "GET", "StatusClass": "4xx"}, dims)
	})

	t.Run("Should swallow client failures", func(t *testing.T) {
		client := &fakeCloudWatch{err: stderrors.New("throttled")}
		m := NewMetrics("VectorPAI", client, true, zap.NewNop())

		assert.NotPanics(t, func() {
			m.RecordRequest(context.Background(), "usuario", "POST", http.StatusCreated, time.Millisecond)
		})
	})

	t.Run("Should be a no-op when disabled", func(t *testing.T) {
		client := &fakeCloudWatch{}
		m := NewMetrics("VectorPAI", client, false, zap.NewNop())

		assert.Nil(t, m)
		m.RecordRequest(context.Background(), "usuario", "GET", http.StatusOK, time.Millisecond)
		assert.Empty(t, client.inputs)
	})
}

func TestTracer(t *testing.T) {
	t.Run("Should run the function untraced without a segment", func(t *testing.T) {
		tr := NewTracer("vector-pai", true)
		want := stderrors.New("boom")

		err := tr.TraceFunction(context.Background(), "dynamodb.GetItem", func(context.Context) error { return want })

		assert.Equal(t, want, err)
	})

	t.Run("Should run the function on a nil tracer", func(t *testing.T) {
		var tr *Tracer
		called := false

		err := tr.TraceFunction(context.Background(), "x", func(context.Context) error {
			called = true
			return nil
		})

		assert.NoError(t, err)
		assert.True(t, called)
		assert.Nil(t, NewTracer("vector-pai", false))
	})
}
