package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhaveles/airbnboptimizer/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithDoer(config.PaymentConfig{
		BaseURL:   srv.URL,
		SecretKey: "sk_test_key",
	}, "https://airbnboptimizer.com", srv.Client())
}

func TestCreateSession(t *testing.T) {
	var gotForm url.Values
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_123","url":"https://checkout.example.com/pay/cs_test_123"}`))
	})

	session, err := client.CreateSession(context.Background(), "price_abc", "rec1234567890abcd", "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	assert.Equal(t, "https://checkout.example.com/pay/cs_test_123", session.URL)

	assert.Equal(t, "card", gotForm.Get("payment_method_types[0]"))
	assert.Equal(t, "price_abc", gotForm.Get("line_items[0][price]"))
	assert.Equal(t, "1", gotForm.Get("line_items[0][quantity]"))
	assert.Equal(t, "payment", gotForm.Get("mode"))
	assert.Equal(t, "https://airbnboptimizer.com/payment-success?session_id={CHECKOUT_SESSION_ID}", gotForm.Get("success_url"))
	assert.Equal(t, "https://airbnboptimizer.com/results?recordId=rec1234567890abcd", gotForm.Get("cancel_url"))
	assert.Equal(t, "rec1234567890abcd", gotForm.Get("metadata[recordId]"))
	assert.Equal(t, "guest@example.com", gotForm.Get("customer_email"))
}

func TestCreateSessionOmitsEmptyEmail(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, present := r.PostForm["customer_email"]
		assert.False(t, present)
		w.Write([]byte(`{"id":"cs_1","url":"https://checkout.example.com/pay/cs_1"}`))
	})

	_, err := client.CreateSession(context.Background(), "price_abc", "rec1234567890abcd", "")
	require.NoError(t, err)
}

func TestCreateSessionAPIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"No such price"}}`))
	})

	_, err := client.CreateSession(context.Background(), "price_missing", "rec1234567890abcd", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}

func TestCreateSessionMissingURL(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"cs_1"}`))
	})

	_, err := client.CreateSession(context.Background(), "price_abc", "rec1234567890abcd", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no URL")
}
