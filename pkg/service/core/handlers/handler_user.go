package handlers

import (
	"context"
	"net/http"

	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/service"
)

type UserHandler struct {
	service service.UserService
}

func (h *UserHandler) GetUserData(ctx context.Context, _ *http.Request, _ any) (*service.UserInfo, error) {
	user := auth.GetUser(ctx)

	return h.service.GetUserData(ctx, user)
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}
