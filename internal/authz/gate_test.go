package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"exportdesk/internal/apperrors"
	"exportdesk/internal/auth"
	"exportdesk/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func TestManageSystem(t *testing.T) {
	admin := auth.Actor{UserID: 1, Admin: true}
	staff := auth.Actor{UserID: 2}
	declarant := auth.Actor{UserID: 3, ClientID: uintPtr(5)}

	require.True(t, ManageSystem(admin).Allowed)
	require.False(t, ManageSystem(staff).Allowed)
	require.Equal(t, apperrors.CodeInsufficientRole, ManageSystem(staff).Reason)
	require.ErrorIs(t, ManageSystem(declarant).Err(), apperrors.ErrInsufficientRole)
}

func TestTouchRecord(t *testing.T) {
	tests := []struct {
		name           string
		actor          auth.Actor
		recordClientID uint
		allowed        bool
		reason         apperrors.Code
	}{
		{"admin crosses tenants", auth.Actor{Admin: true, ClientID: uintPtr(5)}, 9, true, ""},
		{"unscoped staff crosses tenants", auth.Actor{}, 9, true, ""},
		{"scoped actor same tenant", auth.Actor{ClientID: uintPtr(5)}, 5, true, ""},
		{"scoped actor other tenant", auth.Actor{ClientID: uintPtr(5)}, 9, false, apperrors.CodeTenantMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := TouchRecord(tt.actor, tt.recordClientID)
			require.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				require.Equal(t, tt.reason, d.Reason)
				require.ErrorIs(t, d.Err(), apperrors.ErrTenantMismatch)
			} else {
				require.NoError(t, d.Err())
			}
		})
	}
}

func TestBindClient(t *testing.T) {
	scoped := auth.Actor{ClientID: uintPtr(5)}
	require.True(t, BindClient(scoped, 5).Allowed)
	require.False(t, BindClient(scoped, 6).Allowed)
	require.True(t, BindClient(auth.Actor{Admin: true}, 6).Allowed)
}

func TestInitiateReset(t *testing.T) {
	require.True(t, InitiateReset(models.User{IsActive: true}).Allowed)

	d := InitiateReset(models.User{IsActive: false})
	require.False(t, d.Allowed)
	require.ErrorIs(t, d.Err(), apperrors.ErrAccountInactive)
}
