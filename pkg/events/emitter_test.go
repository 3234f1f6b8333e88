package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmitter_EmptyURLIsNop(t *testing.T) {
	emitter, err := NewEmitter("", "")
	require.NoError(t, err)
	assert.IsType(t, nopEmitter{}, emitter)

	assert.NoError(t, emitter.EmitResult(DisbursementEvent{AttemptID: "a"}))
	emitter.Close()
}

func TestNewEmitter_UnreachableServer(t *testing.T) {
	// Port 1 is never a NATS server; connect must fail rather than
	// silently fall back to the nop emitter.
	_, err := NewEmitter("nats://127.0.0.1:1", "")
	assert.Error(t, err)
}
