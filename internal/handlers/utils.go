package handlers

import (
	"context"

	"github.com/askloop/forum/internal/render"
	"github.com/askloop/forum/types"
)

type contextKey string

const contextUserKey contextKey = "user"

// UserFromContext returns the identity resolved for this request, if any.
// The boolean is false for anonymous requests.
func UserFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextUserKey).(types.User)
	return user, ok
}

// pageData seeds render.Data with the current identity so every page can
// show the signed-in header.
func pageData(ctx context.Context) render.Data {
	data := render.Data{}
	if user, ok := UserFromContext(ctx); ok {
		data.CurrentUser = &user
	}
	return data
}
