package router

import (
	"net/http"

	"github.com/deppfellow/users-api/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerUserRoutes(g *echo.Group, h *handler.UserHandler) {
	users := g.Group("/users")

	users.GET("", handler.Handle(h.Handler, h.ListUsers, http.StatusOK))
	users.POST("", handler.Handle(h.Handler, h.CreateUser, http.StatusOK))
	users.GET("/:id", handler.Handle(h.Handler, h.GetUser, http.StatusOK))
	users.PUT("/:id", handler.Handle(h.Handler, h.UpdateUser, http.StatusOK))
	users.PUT("/:id/change-password", handler.Handle(h.Handler, h.ChangePassword, http.StatusOK))
	users.DELETE("/:id", handler.Handle(h.Handler, h.DeleteUser, http.StatusOK))
}
