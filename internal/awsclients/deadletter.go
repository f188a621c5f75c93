package awsclients

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// DeadLetter forwards unprocessable messages to a secondary queue so they
// are kept for inspection instead of being redelivered forever.
type DeadLetter struct {
	SQS      SQSAPI
	QueueURL string
}

// NewDeadLetter returns a DeadLetter bound to a queue URL.
func NewDeadLetter(sqsClient SQSAPI, queueURL string) *DeadLetter {
	return &DeadLetter{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// Forward sends the original message body to the dead-letter queue, tagging
// it with the reason it could not be processed. A nil or unconfigured
// receiver is a no-op so callers don't have to branch on deployment setup.
func (d *DeadLetter) Forward(ctx context.Context, body, reason string) error {
	if d == nil || d.QueueURL == "" {
		return nil
	}
	input := &sqs.SendMessageInput{
		QueueUrl:    &d.QueueURL,
		MessageBody: &body,
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"reason": {
				DataType:    awsString("String"),
				StringValue: &reason,
			},
		},
	}
	if _, err := d.SQS.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
