package shared

import (
	"context"
	"slices"
)

// Role 操作人角色
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleCustomer   Role = "customer"
)

// Actor 发起当前请求的操作人
type Actor struct {
	ID    string
	Name  string
	Roles []Role
}

// SystemActor 后台任务等无人值守场景的操作人
var SystemActor = Actor{ID: "system", Name: "system", Roles: []Role{RoleAdmin}}

// AnonymousActor 未携带身份信息的请求
var AnonymousActor = Actor{ID: "anonymous", Name: "anonymous"}

func (a Actor) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if slices.Contains(a.Roles, r) {
			return true
		}
	}
	return false
}

func (a Actor) IsAnonymous() bool {
	return a.ID == "" || a.ID == AnonymousActor.ID
}

// ActorProvider 暴露当前请求操作人的身份
type ActorProvider interface {
	CurrentActor(ctx context.Context) Actor
}

// ActorProviderFunc 允许普通函数作为 ActorProvider
type ActorProviderFunc func(ctx context.Context) Actor

func (f ActorProviderFunc) CurrentActor(ctx context.Context) Actor { return f(ctx) }

type actorKey struct{}

// ContextWithActor 把操作人放入 context
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext 读取操作人，缺失时返回 AnonymousActor
func ActorFromContext(ctx context.Context) Actor {
	if actor, ok := ctx.Value(actorKey{}).(Actor); ok && actor.ID != "" {
		return actor
	}
	return AnonymousActor
}

// ContextActorProvider 从 context 读取操作人的默认实现
var ContextActorProvider ActorProvider = ActorProviderFunc(ActorFromContext)
