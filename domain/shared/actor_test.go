package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorFromContext(t *testing.T) {
	assert.Equal(t, AnonymousActor, ActorFromContext(context.Background()))
	assert.True(t, ContextActorProvider.CurrentActor(context.Background()).IsAnonymous())

	alice := Actor{ID: "u-1", Name: "alice", Roles: []Role{RoleTechnician}}
	ctx := ContextWithActor(context.Background(), alice)

	assert.Equal(t, alice, ContextActorProvider.CurrentActor(ctx))
	assert.True(t, alice.HasRole(RoleAdmin, RoleTechnician))
	assert.False(t, alice.HasRole(RoleAdmin))
}

func TestTrackWithoutUnitOfWorkIsNoop(t *testing.T) {
	_, ok := UnitOfWorkFromContext(context.Background())
	assert.False(t, ok)
	assert.NotPanics(t, func() { Track(context.Background(), nil) })
}
