package dispenser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		in   string
		want Operation
	}{
		{"insert", InsertToken},
		{"InsertToken", InsertToken},
		{"insert_token", InsertToken},
		{"EJECT", EjectToken},
		{"eject-token", EjectToken},
		{" dispense ", Dispense},
	}
	for _, tt := range tests {
		got, err := ParseOperation(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseOperation("restock")
	assert.True(t, errors.Is(err, ErrUnknownOperation))
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "TokenHeld", TokenHeld.String())
	assert.Equal(t, "State(9)", State(9).String())
	assert.Equal(t, "Dispense", Dispense.String())
	assert.Equal(t, "Operation(9)", Operation(9).String())
	assert.Equal(t, "MachineDepleted", MachineDepleted.String())

	assert.True(t, Depleted.IsTerminal())
	assert.False(t, NoToken.IsTerminal())
}

func TestRejectReason_Err(t *testing.T) {
	assert.Nil(t, ReasonNone.Err())
	assert.Equal(t, ErrAlreadyHasToken, AlreadyHasToken.Err())
	assert.Equal(t, ErrNoTokenPresent, NoTokenPresent.Err())
	assert.Equal(t, ErrMachineDepleted, MachineDepleted.Err())
}
