package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// MetricsClient is the subset of the CloudWatch API used here
type MetricsClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes request metrics to CloudWatch. A nil Metrics is a no-op.
type Metrics struct {
	namespace string
	client    MetricsClient
	logger    *zap.Logger
}

// NewMetrics creates a new metrics instance. It returns nil when disabled.
func NewMetrics(namespace string, client MetricsClient, enabled bool, logger *zap.Logger) *Metrics {
	if !enabled || client == nil || namespace == "" {
		return nil
	}
	return &Metrics{namespace: namespace, client: client, logger: logger}
}

// RecordRequest records the latency and count of one handled request
func (m *Metrics) RecordRequest(ctx context.Context, entity, operation string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	now := aws.Time(time.Now())
	dims := []types.Dimension{
		{Name: aws.String("Entity"), Value: aws.String(entity)},
		{Name: aws.String("Operation"), Value: aws.String(operation)},
		{Name: aws.String("StatusClass"), Value: aws.String(statusClass(status))},
	}

	metricData := []types.MetricDatum{
		{
			MetricName: aws.String("RequestLatency"),
			Dimensions: dims,
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  now,
		},
		{
			MetricName: aws.String("RequestCount"),
			Dimensions: dims,
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
			Timestamp:  now,
		},
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: metricData,
	})
	if err != nil {
		m.logger.Warn("Failed to send metrics", zap.Error(err))
	}
}

// statusClass groups status codes as 2xx, 4xx or 5xx
func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
