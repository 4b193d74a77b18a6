package utils

import (
	"context"

	"borrow-system/pkg/contextkeys"
	apperrors "borrow-system/pkg/errors"
)

// Actor is the authenticated identity stamped onto every mutation.
type Actor struct {
	ID   uint64
	Name string
	Role string
}

func ActorFromCtx(ctx context.Context) (Actor, error) {
	id, ok := ctx.Value(contextkeys.ActorIDKey).(uint64)
	if !ok || id == 0 {
		return Actor{}, apperrors.ErrActorNotFoundInContext
	}
	name, _ := ctx.Value(contextkeys.ActorNameKey).(string)
	role, _ := ctx.Value(contextkeys.ActorRoleKey).(string)
	return Actor{ID: id, Name: name, Role: role}, nil
}

func CtxWithActor(ctx context.Context, actor Actor) context.Context {
	ctx = context.WithValue(ctx, contextkeys.ActorIDKey, actor.ID)
	ctx = context.WithValue(ctx, contextkeys.ActorNameKey, actor.Name)
	ctx = context.WithValue(ctx, contextkeys.ActorRoleKey, actor.Role)
	return ctx
}
