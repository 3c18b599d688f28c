package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoleNormalises(t *testing.T) {
	require.Equal(t, RoleOwner, ParseRole("  Owner "))
	require.Equal(t, RoleParticipant, ParseRole("PARTICIPANT"))
}

func TestManagerRoles(t *testing.T) {
	require.True(t, RoleOwner.IsManager())
	require.True(t, RoleAdmin.IsManager())
	require.False(t, RoleParticipant.IsManager())
	require.False(t, RoleReader.IsManager())
}

func TestAssignableRoles(t *testing.T) {
	require.True(t, RoleParticipant.IsAssignable())
	require.True(t, RoleCommenter.IsAssignable())
	require.True(t, RoleReader.IsAssignable())

	// owner and admin are never assignable through the member-update API
	require.False(t, RoleOwner.IsAssignable())
	require.False(t, RoleAdmin.IsAssignable())
}
