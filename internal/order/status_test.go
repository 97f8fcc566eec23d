package order

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransitionTable(t *testing.T) {
	all := []Status{
		StatusPending, StatusConfirmed, StatusPreparing,
		StatusReady, StatusCompleted, StatusCancelled,
	}

	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusPreparing, StatusCancelled},
		StatusPreparing: {StatusReady, StatusCancelled},
		StatusReady:     {StatusCompleted, StatusCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			ok := false
			for _, next := range allowed[from] {
				if next == to {
					ok = true
				}
			}
			err := ValidateTransition(from, to)
			if ok {
				assert.NoError(t, err, "%s -> %s should be allowed", from, to)
			} else {
				assert.Error(t, err, "%s -> %s should be rejected", from, to)
			}
		}
	}
}

func TestTransitionErrorReportsBothStates(t *testing.T) {
	err := ValidateTransition(StatusPending, StatusReady)
	require.Error(t, err)

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, StatusPending, te.From)
	assert.Equal(t, StatusReady, te.To)
	assert.Contains(t, err.Error(), "PENDING")
	assert.Contains(t, err.Error(), "READY")
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	targets := []Status{
		StatusPending, StatusConfirmed, StatusPreparing,
		StatusReady, StatusCompleted, StatusCancelled,
	}
	for _, terminal := range []Status{StatusCompleted, StatusCancelled} {
		assert.True(t, Terminal(terminal))
		for _, to := range targets {
			assert.Error(t, ValidateTransition(terminal, to), "%s -> %s", terminal, to)
		}
	}
	assert.False(t, Terminal(StatusPending))
	assert.False(t, Terminal(Status("BOGUS")))
}

func TestCancellable(t *testing.T) {
	assert.True(t, Cancellable(StatusPending))
	assert.True(t, Cancellable(StatusConfirmed))
	assert.False(t, Cancellable(StatusPreparing))
	assert.False(t, Cancellable(StatusReady))
	assert.False(t, Cancellable(StatusCompleted))
	assert.False(t, Cancellable(StatusCancelled))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPreparing))
	assert.False(t, ValidStatus(Status("SHIPPED")))
	assert.False(t, ValidStatus(Status("")))
}
