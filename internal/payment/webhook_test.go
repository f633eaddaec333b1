package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookTestSecret = "whsec_test_secret"

func completedPayload(recordID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_abc",
				"customer_email": "guest@example.com",
				"metadata": {"recordId": %q}
			}
		}
	}`, recordID))
}

func TestConstructEventRoundtrip(t *testing.T) {
	payload := completedPayload("rec1234567890abcd")
	header := SignPayload(payload, webhookTestSecret, time.Now())

	event, err := ConstructEvent(payload, header, webhookTestSecret)
	require.NoError(t, err)

	assert.Equal(t, "evt_test_1", event.ID)
	assert.Equal(t, EventCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_test_abc", event.Data.Object.ID)
	assert.Equal(t, "guest@example.com", event.Data.Object.CustomerEmail)
	assert.Equal(t, "rec1234567890abcd", event.Data.Object.RecordID())
}

func TestConstructEventWrongSecret(t *testing.T) {
	payload := completedPayload("rec1234567890abcd")
	header := SignPayload(payload, "whsec_other", time.Now())

	_, err := ConstructEvent(payload, header, webhookTestSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventTamperedPayload(t *testing.T) {
	payload := completedPayload("rec1234567890abcd")
	header := SignPayload(payload, webhookTestSecret, time.Now())

	tampered := completedPayload("recEVILEVILEVILEV")
	_, err := ConstructEvent(tampered, header, webhookTestSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventStaleTimestamp(t *testing.T) {
	payload := completedPayload("rec1234567890abcd")
	header := SignPayload(payload, webhookTestSecret, time.Now().Add(-10*time.Minute))

	_, err := ConstructEvent(payload, header, webhookTestSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Contains(t, err.Error(), "timestamp outside tolerance")
}

func TestConstructEventMalformedHeader(t *testing.T) {
	payload := completedPayload("rec1234567890abcd")

	for _, header := range []string{
		"",
		"t=notanumber,v1=deadbeef",
		"v1=deadbeef",
		fmt.Sprintf("t=%d", time.Now().Unix()),
		"garbage",
	} {
		_, err := ConstructEvent(payload, header, webhookTestSecret)
		assert.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func TestConstructEventMultipleSignatures(t *testing.T) {
	payload := completedPayload("rec1234567890abcd")
	// An extra bogus v1 entry must not break verification of the good one.
	header := SignPayload(payload, webhookTestSecret, time.Now()) + ",v1=deadbeef"

	_, err := ConstructEvent(payload, header, webhookTestSecret)
	assert.NoError(t, err)
}

func TestRecordIDMissingMetadata(t *testing.T) {
	var s CheckoutSession
	assert.Equal(t, "", s.RecordID())
}
