package appointments

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory mock for PutItem/GetItem/Query/UpdateItem.
// Items are keyed by the composite "insuredId|scheduleId" string. Optional
// error fields simulate transport failures.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	putErr    error
	getErr    error
	queryErr  error
	updateErr error
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		items: map[string]map[string]types.AttributeValue{},
	}
}

func compositeKey(item map[string]types.AttributeValue) (string, error) {
	pk, ok := item["insuredId"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing insuredId")
	}
	sk, ok := item["scheduleId"].(*types.AttributeValueMemberN)
	if !ok {
		return "", errors.New("missing scheduleId")
	}
	return pk.Value + "|" + sk.Value, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return nil, m.putErr
	}
	k, err := compositeKey(params.Item)
	if err != nil {
		return nil, err
	}
	m.items[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	k, err := compositeKey(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.items[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	want, ok := params.ExpressionAttributeValues[":insuredId"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing :insuredId value")
	}
	out := &dyn.QueryOutput{}
	for _, item := range m.items {
		if pk, ok := item["insuredId"].(*types.AttributeValueMemberS); ok && pk.Value == want.Value {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	k, err := compositeKey(params.Key)
	if err != nil {
		return nil, err
	}
	item, exists := m.items[k]
	// condition: attribute_exists(insuredId) AND #s = :expected
	if !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	expected := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS)
	curr, ok := item["status"].(*types.AttributeValueMemberS)
	if !ok || curr.Value != expected.Value {
		return nil, &types.ConditionalCheckFailedException{}
	}
	// apply SET #s = :new, updatedAt = :ua
	item["status"] = params.ExpressionAttributeValues[":new"]
	item["updatedAt"] = params.ExpressionAttributeValues[":ua"]
	m.items[k] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}
