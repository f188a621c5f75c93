package awsclients

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics emits custom CloudWatch counters. Emission is best-effort: a
// failed PutMetricData is logged and never propagated to the caller.
type Metrics struct {
	client    CloudWatchAPI
	namespace string
	logger    *zap.Logger
}

// NewMetrics returns a Metrics emitter for the given namespace.
func NewMetrics(client CloudWatchAPI, namespace string, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// Count adds 1 to the named counter. A nil receiver or nil client is a
// no-op so tests and local runs work without CloudWatch.
func (m *Metrics) Count(ctx context.Context, name string, dimensions map[string]string) {
	if m == nil || m.client == nil {
		return
	}
	value := float64(1)
	datum := cwtypes.MetricDatum{
		MetricName: &name,
		Value:      &value,
		Unit:       cwtypes.StandardUnitCount,
	}
	for k, v := range dimensions {
		datum.Dimensions = append(datum.Dimensions, cwtypes.Dimension{
			Name:  &k,
			Value: &v,
		})
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  &m.namespace,
		MetricData: []cwtypes.MetricDatum{datum},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil && m.logger != nil {
		m.logger.Warn("put metric data failed",
			zap.String("metric", name),
			zap.Error(err),
		)
	}
}
