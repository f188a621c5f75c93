package appointments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/medbook/appointment-flow/internal/awsclients"
)

// ErrUnavailable marks transport or throttling failures from the store,
// distinguishable from logical results like a missing record.
var ErrUnavailable = errors.New("appointment store unavailable")

// Store encapsulates operations on the appointments table.
type Store struct {
	client    awsclients.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new appointments Store.
func NewStore(client awsclients.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put writes the appointment unconditionally. An existing record under the
// same (insuredId, scheduleId) key is overwritten.
func (s *Store) Put(ctx context.Context, appt Appointment) error {
	item, err := attributevalue.MarshalMap(appt)
	if err != nil {
		return fmt.Errorf("marshal appointment: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return unavailable("put item", err)
	}
	return nil
}

// Get fetches one appointment by its composite key. Returns (nil, nil) if
// not found.
func (s *Store) Get(ctx context.Context, insuredID string, scheduleID int) (*Appointment, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key(insuredID, scheduleID),
	})
	if err != nil {
		return nil, unavailable("get item", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var appt Appointment
	if err := attributevalue.UnmarshalMap(out.Item, &appt); err != nil {
		return nil, fmt.Errorf("unmarshal appointment: %w", err)
	}
	return &appt, nil
}

// QueryByInsuredID returns all appointments under the partition key, in no
// particular order. An empty slice means none exist.
func (s *Store) QueryByInsuredID(ctx context.Context, insuredID string) ([]Appointment, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: awsString("insuredId = :insuredId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":insuredId": &types.AttributeValueMemberS{Value: insuredID},
		},
	})
	if err != nil {
		return nil, unavailable("query", err)
	}

	appts := make([]Appointment, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &appts); err != nil {
		return nil, fmt.Errorf("unmarshal appointments: %w", err)
	}
	return appts, nil
}

// UpdateStatusIf transitions the record from expected to next and stamps
// updatedAt, but only when the stored status still matches expected.
// Returns the updated record on success and (nil, nil) when the record does
// not exist or its status already differs ("no match"). The conditional
// write is what makes completion idempotent under redelivery.
func (s *Store) UpdateStatusIf(ctx context.Context, insuredID string, scheduleID int, expected, next Status) (*Appointment, error) {
	now := s.nowFunc().UTC().Format(time.RFC3339)
	input := &dyn.UpdateItemInput{
		TableName:           &s.tableName,
		Key:                 key(insuredID, scheduleID),
		UpdateExpression:    awsString("SET #s = :new, updatedAt = :ua"),
		ConditionExpression: awsString("attribute_exists(insuredId) AND #s = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: string(next)},
			":expected": &types.AttributeValueMemberS{Value: string(expected)},
			":ua":       &types.AttributeValueMemberS{Value: now},
		},
		ReturnValues: types.ReturnValueAllNew,
	}

	out, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, nil
		}
		return nil, unavailable("update item", err)
	}

	var appt Appointment
	if err := attributevalue.UnmarshalMap(out.Attributes, &appt); err != nil {
		return nil, fmt.Errorf("unmarshal updated appointment: %w", err)
	}
	return &appt, nil
}

func key(insuredID string, scheduleID int) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"insuredId":  &types.AttributeValueMemberS{Value: insuredID},
		"scheduleId": &types.AttributeValueMemberN{Value: strconv.Itoa(scheduleID)},
	}
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	// some client wrappers surface only the generic API error
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
}

func awsString(s string) *string { return &s }
