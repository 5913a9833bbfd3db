package gateway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
)

func TestParseNotification_Succeeded(t *testing.T) {
	payload := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`)

	n, err := ParseNotification(payload)
	require.NoError(t, err)
	assert.Equal(t, "pi_123", n.IntentID)
	assert.Equal(t, OutcomeSucceeded, n.Outcome)
}

func TestParseNotification_Failed(t *testing.T) {
	payload := []byte(`{"type":"payment_intent.payment_failed","data":{"object":{"id":"pi_456"}}}`)

	n, err := ParseNotification(payload)
	require.NoError(t, err)
	assert.Equal(t, "pi_456", n.IntentID)
	assert.Equal(t, OutcomeFailed, n.Outcome)
}

func TestParseNotification_UnsupportedType(t *testing.T) {
	payload := []byte(`{"type":"charge.refunded","data":{"object":{"id":"ch_1"}}}`)

	_, err := ParseNotification(payload)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestParseNotification_MissingIntentID(t *testing.T) {
	payload := []byte(`{"type":"payment_intent.succeeded","data":{"object":{}}}`)

	_, err := ParseNotification(payload)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestParseNotification_MalformedJSON(t *testing.T) {
	_, err := ParseNotification([]byte(`{not json`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
