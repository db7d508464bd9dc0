package actorctx

import "context"

type ctxKey struct{}

// Identity is the verified caller attached by the access guard.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

func With(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func From(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)

	return id, ok && id.UserID != ""
}
