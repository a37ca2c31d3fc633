package handler

import "context"

type ContextKey string

var (
	RequestIDCtxKey  ContextKey = "requestID"
	RoleCtxKey       ContextKey = "role"
	SubCtxKey        ContextKey = "sub"
	BarbershopCtxKey ContextKey = "barbershopID"
	BarbershopCtx    ContextKey = "barbershop"
	ServiceCtx       ContextKey = "service"
	BarberCtx        ContextKey = "barber"
)

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDCtxKey).(string)
	return id
}
