package payment

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	lastInput *dynamodb.PutItemInput
	err       error
}

func (f *fakeDynamo) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func testEvent() Event {
	var event Event
	event.ID = "evt_1"
	event.Type = EventCheckoutCompleted
	event.Data.Object = CheckoutSession{
		ID:       "cs_1",
		Metadata: map[string]string{"recordId": "rec1234567890abcd"},
	}
	return event
}

func TestEventLogRecord(t *testing.T) {
	fake := &fakeDynamo{}
	log := NewEventLogWithClient(fake, "webhook-events")

	require.NoError(t, log.Record(context.Background(), testEvent()))

	require.NotNil(t, fake.lastInput)
	assert.Equal(t, "webhook-events", *fake.lastInput.TableName)
	assert.Equal(t, "attribute_not_exists(event_id)", *fake.lastInput.ConditionExpression)

	item := fake.lastInput.Item
	assert.Equal(t, "evt_1", item["event_id"].(*ddbtypes.AttributeValueMemberS).Value)
	assert.Equal(t, "cs_1", item["session_id"].(*ddbtypes.AttributeValueMemberS).Value)
	assert.Equal(t, "rec1234567890abcd", item["record_id"].(*ddbtypes.AttributeValueMemberS).Value)
}

func TestEventLogDuplicate(t *testing.T) {
	fake := &fakeDynamo{err: &ddbtypes.ConditionalCheckFailedException{}}
	log := NewEventLogWithClient(fake, "webhook-events")

	err := log.Record(context.Background(), testEvent())
	assert.ErrorIs(t, err, ErrDuplicateEvent)
}

func TestEventLogNilIsNoop(t *testing.T) {
	var log *EventLog
	assert.NoError(t, log.Record(context.Background(), testEvent()))
}
