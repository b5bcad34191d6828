package api

import (
	"context"

	"github.com/taskhive-dev/taskhive-backend/errs"
	"github.com/taskhive-dev/taskhive-backend/services"
)

type keyType string

const callerKey keyType = "caller"

// ctxWithCaller adds the authenticated caller to the context
func ctxWithCaller(ctx context.Context, caller services.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// ctxGetCaller retrieves the authenticated caller from the context
func ctxGetCaller(ctx context.Context) (services.Caller, error) {
	caller, ok := ctx.Value(callerKey).(services.Caller)
	if !ok {
		return services.Caller{}, errs.NewUnauthorized("not logged in")
	}
	return caller, nil
}
