package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionForwardOnly(t *testing.T) {
	assert.True(t, CanTransition(StatusScraping, StatusScraped))
	assert.True(t, CanTransition(StatusScraped, StatusAnalyzed))
	assert.True(t, CanTransition(StatusAnalyzed, StatusPaidTriggered))
	assert.True(t, CanTransition(StatusPaidTriggered, StatusPaidAnalyzing))
	assert.True(t, CanTransition(StatusPaidAnalyzing, StatusPaidCompleted))

	// Backward moves are refused.
	assert.False(t, CanTransition(StatusScraped, StatusScraping))
	assert.False(t, CanTransition(StatusAnalyzed, StatusScraped))
	assert.False(t, CanTransition(StatusPaidCompleted, StatusPaidAnalyzing))

	// Skipping a stage is refused.
	assert.False(t, CanTransition(StatusScraping, StatusAnalyzed))
	assert.False(t, CanTransition(StatusAnalyzed, StatusPaidCompleted))
}

func TestCanTransitionSelfAllowed(t *testing.T) {
	// Webhook redeliveries re-apply the current state.
	assert.True(t, CanTransition(StatusPaidTriggered, StatusPaidTriggered))
	assert.True(t, CanTransition(StatusError, StatusError))
}

func TestErrorIsReachableOnlyFromFreeStages(t *testing.T) {
	assert.True(t, CanTransition(StatusScraping, StatusError))
	assert.True(t, CanTransition(StatusScraped, StatusError))
	assert.False(t, CanTransition(StatusAnalyzed, StatusError))
	assert.False(t, CanTransition(StatusPaidAnalyzing, StatusError))
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusError.IsTerminal())
	assert.True(t, StatusPaidCompleted.IsTerminal())
	assert.False(t, StatusScraping.IsTerminal())
	assert.False(t, StatusPaidAnalyzing.IsTerminal())
}

func TestValid(t *testing.T) {
	assert.True(t, StatusScraping.Valid())
	assert.False(t, Status("paid").Valid())
	assert.False(t, Status("").Valid())
}
