package user

import (
	"testing"

	"servicedesk/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	u, err := Register("Alice", shared.MustEmail("Alice@Acme.io"), shared.RoleTechnician, "", "admin-1")

	require.NoError(t, err)
	assert.Equal(t, "alice@acme.io", u.Email().Value())
	assert.True(t, u.IsActive())

	events := u.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "user.registered", events[0].EventName())
}

func TestRegister_Validation(t *testing.T) {
	email := shared.MustEmail("bob@acme.io")

	_, err := Register(" ", email, shared.RoleAdmin, "", "a")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Equal(t, shared.KindValidationFailed, shared.KindOf(err))

	_, err = Register("Bob", email, "janitor", "", "a")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = Register("Bob", email, shared.RoleCustomer, "", "a")
	assert.ErrorIs(t, err, ErrOrganizationRequired)

	_, err = Register("Bob", shared.Email{}, shared.RoleAdmin, "", "a")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestActivationAndRole(t *testing.T) {
	u, err := Register("Carol", shared.MustEmail("carol@acme.io"), shared.RoleCustomer, "org-1", "admin-1")
	require.NoError(t, err)
	u.PullEvents()

	require.NoError(t, u.ChangeRole(shared.RoleTechnician, "admin-1"))
	u.Deactivate("admin-1")
	u.Deactivate("admin-1")

	err = u.ChangeRole(shared.RoleAdmin, "admin-1")
	assert.ErrorIs(t, err, ErrUserNotActive)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))

	u.Activate("admin-1")

	events := u.PullEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "user.role_changed", events[0].EventName())
	assert.Equal(t, "false", events[1].(shared.StatusTransition).NewStatus())
	assert.Equal(t, "true", events[2].(shared.StatusTransition).NewStatus())
}

func TestDuplicateEmailError(t *testing.T) {
	err := NewEmailAlreadyExistsError("a@b.io")

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
}
