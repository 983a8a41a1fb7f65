package validation

import (
	"context"
	"testing"

	"servicedesk/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerCommand struct {
	Name    string `json:"name" validate:"required,max=10"`
	Email   string `json:"email" validate:"required"`
	Role    string `json:"role" validate:"omitempty,oneof=admin technician"`
	Comment string `json:"-"`
}

func registerValidator() *Rules[registerCommand] {
	return For[registerCommand](
		ValidEmail("email", func(c registerCommand) string { return c.Email }),
		Must("name", "must not be admin", func(c registerCommand) bool { return c.Name != "admin" }),
	)
}

func TestRules_CollectsEveryFailure(t *testing.T) {
	errs := registerValidator().Validate(context.Background(), registerCommand{
		Name:  "a-name-longer-than-ten",
		Email: "not-an-email",
		Role:  "customer",
	})

	assert.Equal(t, []string{"email", "name", "role"}, errs.Fields())
	assert.Equal(t, []string{"must be at most 10 characters"}, errs["name"])
	assert.Equal(t, []string{"must be a valid email address"}, errs["email"])
	assert.Equal(t, []string{"must be one of admin, technician"}, errs["role"])
}

func TestRules_MultipleMessagesPerField(t *testing.T) {
	errs := For[registerCommand](
		NotBlank("name", func(c registerCommand) string { return c.Name }),
	).Validate(context.Background(), registerCommand{Name: "", Email: "a@b.io"})

	assert.Equal(t, []string{"is required", "must not be blank"}, errs["name"])
}

func TestRules_Valid(t *testing.T) {
	errs := registerValidator().Validate(context.Background(), registerCommand{Name: "alice", Email: "alice@example.com"})

	assert.True(t, errs.Empty())
	assert.NoError(t, errs.AsError("registerCommand"))
}

func TestRules_WrongRequestType(t *testing.T) {
	errs := registerValidator().Validate(context.Background(), "oops")

	assert.Contains(t, errs, "request")
}

func TestErrors_AsError(t *testing.T) {
	errs := Errors{}
	errs.Add("email", "is required")

	err := errs.AsError("RegisterUserCommand")

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, shared.KindValidationFailed, shared.KindOf(err))
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "RegisterUserCommand", verr.Request)
	assert.Equal(t, []string{"is required"}, verr.Fields["email"])
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	v := registerValidator()

	require.NoError(t, Register[registerCommand](reg, v))
	assert.Error(t, Register[registerCommand](reg, v))
	assert.Equal(t, 1, reg.Len())

	found, ok := reg.Lookup(registerCommand{})
	assert.True(t, ok)
	assert.Same(t, v, found)

	_, ok = reg.Lookup(&registerCommand{})
	assert.False(t, ok, "pointer types are distinct request types")

	_, ok = reg.Lookup(nil)
	assert.False(t, ok)
}
