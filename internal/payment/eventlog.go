package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrDuplicateEvent is returned when an event id was already recorded.
var ErrDuplicateEvent = errors.New("webhook event already recorded")

// dynamoPutAPI is the slice of the DynamoDB client the event log uses.
type dynamoPutAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// EventLog records delivered webhook events keyed by event id. A
// conditional put makes redeliveries visible without blocking them; the
// pipeline stays idempotent either way. A nil EventLog records nothing.
type EventLog struct {
	client dynamoPutAPI
	table  string
}

type eventItem struct {
	EventID    string `dynamodbav:"event_id"`
	EventType  string `dynamodbav:"event_type"`
	RecordID   string `dynamodbav:"record_id"`
	SessionID  string `dynamodbav:"session_id"`
	ReceivedAt string `dynamodbav:"received_at"`
}

// NewEventLog builds the DynamoDB-backed event log, or nil when no table
// is configured.
func NewEventLog(ctx context.Context, table, region string) (*EventLog, error) {
	if table == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &EventLog{
		client: dynamodb.NewFromConfig(awsCfg),
		table:  table,
	}, nil
}

// NewEventLogWithClient wires a prebuilt DynamoDB client, for tests.
func NewEventLogWithClient(client dynamoPutAPI, table string) *EventLog {
	return &EventLog{client: client, table: table}
}

// Record stores the event once. A second delivery of the same event id
// returns ErrDuplicateEvent.
func (e *EventLog) Record(ctx context.Context, event Event) error {
	if e == nil {
		return nil
	}

	item := eventItem{
		EventID:    event.ID,
		EventType:  event.Type,
		RecordID:   event.Data.Object.RecordID(),
		SessionID:  event.Data.Object.ID,
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshaling event item: %w", err)
	}

	_, err = e.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(e.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(event_id)"),
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("recording webhook event: %w", err)
	}
	return nil
}
