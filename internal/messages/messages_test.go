package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Validate())
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		args []interface{}
		want string
	}{
		{
			name: "no-arg message",
			id:   LogNotFound,
			args: nil,
			want: "Log file not found.",
		},
		{
			name: "single string arg",
			id:   ConnectedTo,
			args: []interface{}{"10.0.0.5"},
			want: "Connected to 10.0.0.5",
		},
		{
			name: "action confirmation",
			id:   ConfirmAction,
			args: []interface{}{"restart", "web-api"},
			want: "Are you sure you want to restart web-api?",
		},
		{
			name: "error arg via %v",
			id:   RefreshFailed,
			args: []interface{}{errors.New("boom")},
			want: "Refresh failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.id, tt.args...))
		})
	}
}

func TestRenderArgMismatchIsLoud(t *testing.T) {
	out := Render(ConnectedTo)
	assert.Contains(t, out, "wants 1 args")
}

func TestRenderUnknownIDIsLoud(t *testing.T) {
	out := Render(lastID + 10)
	assert.Contains(t, out, "missing message")
}
