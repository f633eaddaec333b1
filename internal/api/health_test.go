package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhaveles/airbnboptimizer/internal/tablestore"
)

func TestHandleHealth(t *testing.T) {
	hc := NewHealthChecker(tablestore.NewMemoryStore(), nil)

	rec := httptest.NewRecorder()
	hc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "up", status.Checks["tablestore"].Status)
	assert.Equal(t, "not_configured", status.Checks["redis"].Status)
}

func TestHandleHealthNoDependencies(t *testing.T) {
	hc := NewHealthChecker(nil, nil)

	rec := httptest.NewRecorder()
	hc.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
