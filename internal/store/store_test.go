package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_wrapKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "user not found", err: ErrUserNotFound, kind: ErrNotFound},
		{name: "organization not found", err: ErrOrganizationNotFound, kind: ErrNotFound},
		{name: "site not found", err: ErrSiteNotFound, kind: ErrNotFound},
		{name: "recorder not found", err: ErrRecorderNotFound, kind: ErrNotFound},
		{name: "session not found", err: ErrSessionNotFound, kind: ErrNotFound},
		{name: "grant not found", err: ErrGrantNotFound, kind: ErrNotFound},
		{name: "user exists", err: ErrUserAlreadyExists, kind: ErrAlreadyExists},
		{name: "grant exists", err: ErrGrantAlreadyExists, kind: ErrAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.kind)

			wrapped := fmt.Errorf("lookup failed: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.err)
			require.ErrorIs(t, wrapped, tt.kind)
		})
	}

	require.False(t, errors.Is(ErrSessionExpired, ErrNotFound))
	require.False(t, errors.Is(ErrUserNotFound, ErrOrganizationNotFound))
}

func TestStores_Validate(t *testing.T) {
	require.Error(t, Stores{}.Validate())
}
