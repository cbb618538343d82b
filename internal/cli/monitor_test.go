package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pmx/internal/errors"
)

func TestResolveInterval(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		cfgSeconds int
		want       time.Duration
		wantErr    bool
	}{
		{name: "config seconds when no flag", flag: "", cfgSeconds: 30, want: 30 * time.Second},
		{name: "config zero disables", flag: "", cfgSeconds: 0, want: 0},
		{name: "flag overrides config", flag: "5s", cfgSeconds: 30, want: 5 * time.Second},
		{name: "flag accepts minutes", flag: "1m", cfgSeconds: 30, want: time.Minute},
		{name: "flag zero disables", flag: "0", cfgSeconds: 30, want: 0},
		{name: "garbage flag", flag: "soon", wantErr: true},
		{name: "sub-second flag", flag: "200ms", wantErr: true},
		{name: "negative flag", flag: "-5s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveInterval(tt.flag, tt.cfgSeconds)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
