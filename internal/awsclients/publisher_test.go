package awsclients

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type mockSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, params)
	id := "sns-msg-1"
	return &sns.PublishOutput{MessageId: &id}, nil
}

func TestPublisher_Publish(t *testing.T) {
	mock := &mockSNS{}
	p := NewPublisher(mock, "arn:aws:sns:us-east-1:123456789012:appointments")

	id, err := p.Publish(context.Background(), []byte(`{"insuredId":"00012"}`), map[string]string{
		"countryISO": "PE",
	})
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if id != "sns-msg-1" {
		t.Fatalf("expected delivery id, got %q", id)
	}
	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(mock.inputs))
	}
	in := mock.inputs[0]
	if *in.TopicArn != p.TopicArn {
		t.Fatalf("topic mismatch: %s", *in.TopicArn)
	}
	attr, ok := in.MessageAttributes["countryISO"]
	if !ok {
		t.Fatalf("countryISO attribute missing")
	}
	if *attr.DataType != "String" || *attr.StringValue != "PE" {
		t.Fatalf("unexpected attribute: %+v", attr)
	}
}

func TestPublisher_PublishError(t *testing.T) {
	p := NewPublisher(&mockSNS{err: errors.New("boom")}, "arn")

	if _, err := p.Publish(context.Background(), []byte("{}"), nil); err == nil {
		t.Fatalf("expected error")
	}
}

type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestMetrics_Count(t *testing.T) {
	mock := &mockCloudWatch{}
	m := NewMetrics(mock, "AppointmentFlow", nil)

	m.Count(context.Background(), "AppointmentCreated", map[string]string{"countryISO": "CL"})

	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 put, got %d", len(mock.inputs))
	}
	in := mock.inputs[0]
	if *in.Namespace != "AppointmentFlow" {
		t.Fatalf("namespace mismatch: %s", *in.Namespace)
	}
	if len(in.MetricData) != 1 || *in.MetricData[0].MetricName != "AppointmentCreated" {
		t.Fatalf("unexpected metric data: %+v", in.MetricData)
	}
	if len(in.MetricData[0].Dimensions) != 1 {
		t.Fatalf("expected countryISO dimension")
	}

	// nil receiver and nil client are safe no-ops
	var none *Metrics
	none.Count(context.Background(), "x", nil)
	NewMetrics(nil, "n", nil).Count(context.Background(), "x", nil)
}
