package awsclients

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Publisher wraps an SNS client and a topic ARN. Subscribers filter on the
// message attributes (countryISO in particular), so every publish carries
// them as String attributes.
type Publisher struct {
	SNS      SNSAPI
	TopicArn string
}

// NewPublisher returns a Publisher bound to a topic ARN.
func NewPublisher(snsClient SNSAPI, topicArn string) *Publisher {
	return &Publisher{
		SNS:      snsClient,
		TopicArn: topicArn,
	}
}

// Publish sends payload to the topic with the given routing attributes and
// returns the SNS message id. Delivery is at-least-once; ordering across
// publishes is not guaranteed.
func (p *Publisher) Publish(ctx context.Context, payload []byte, attributes map[string]string) (string, error) {
	body := string(payload)
	input := &sns.PublishInput{
		TopicArn: &p.TopicArn,
		Message:  &body,
	}
	if len(attributes) > 0 {
		msgAttrs := map[string]snstypes.MessageAttributeValue{}
		for k, v := range attributes {
			// using string type for all attrs
			msgAttrs[k] = snstypes.MessageAttributeValue{
				DataType:    awsString("String"),
				StringValue: &v,
			}
		}
		input.MessageAttributes = msgAttrs
	}

	out, err := p.SNS.Publish(ctx, input)
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	if out.MessageId == nil {
		return "", nil
	}
	return *out.MessageId, nil
}

// awsString helper
func awsString(s string) *string { return &s }
