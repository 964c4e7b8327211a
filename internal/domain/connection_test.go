package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_Transition(t *testing.T) {
	t.Run("connecting_to_open", func(t *testing.T) {
		conn := &Connection{ID: "conn-1", State: StateConnecting, ConnectedAt: time.Now()}

		err := conn.Transition(StateOpen)
		require.NoError(t, err)
		assert.Equal(t, StateOpen, conn.State)
	})

	t.Run("open_to_closed", func(t *testing.T) {
		conn := &Connection{ID: "conn-1", State: StateOpen}

		err := conn.Transition(StateClosed)
		require.NoError(t, err)
		assert.Equal(t, StateClosed, conn.State)
	})

	t.Run("closed_is_terminal", func(t *testing.T) {
		conn := &Connection{ID: "conn-1", State: StateClosed}

		err := conn.Transition(StateOpen)
		assert.ErrorIs(t, err, ErrConnectionClosed)
		assert.Equal(t, StateClosed, conn.State)

		err = conn.Transition(StateConnecting)
		assert.ErrorIs(t, err, ErrConnectionClosed)
	})

	t.Run("no_open_to_connecting", func(t *testing.T) {
		conn := &Connection{ID: "conn-1", State: StateOpen}

		err := conn.Transition(StateConnecting)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, StateOpen, conn.State)
	})
}

func TestConnState_String(t *testing.T) {
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "unknown", ConnState(42).String())
}
