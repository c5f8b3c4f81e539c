package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/usuarios/internal/common"
	"github.com/dmitrijs2005/usuarios/internal/devserver/users"
)

// UserService is the account logic the handlers call.
type UserService interface {
	Register(ctx context.Context, in users.RegisterInput) (*users.User, error)
	Login(ctx context.Context, email string, password []byte) (*users.User, error)
	Get(ctx context.Context, id int64) (*users.User, error)
	Update(ctx context.Context, in users.UpdateInput) (*users.User, error)
	Delete(ctx context.Context, id int64) error
}

type UsersHandler struct {
	svc UserService
}

func NewUsersHandler(svc UserService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

type registerRequest struct {
	Username string `json:"nombre_usuario" validate:"required,min=3"`
	Email    string `json:"correo_electronico" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,bcryptmax"`
}

type loginRequest struct {
	Email    string `json:"correo_electronico" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateRequest struct {
	ID       int64  `json:"id" validate:"gt=0"`
	Username string `json:"nombre_usuario" validate:"required,min=3"`
	Email    string `json:"correo_electronico" validate:"required,email"`
	Status   string `json:"estatus" validate:"required,oneof=activo inactivo"`
	Password string `json:"password" validate:"omitempty,min=6,bcryptmax"`
}

type deleteRequest struct {
	ID int64 `json:"id" validate:"gt=0"`
}

// bindValid decodes the JSON body into req and validates it.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// Register handles POST /usuarios/registrar.
func (h *UsersHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	u, err := h.svc.Register(c.Request().Context(), users.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: []byte(req.Password),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope{Body: toResponse(u)})
}

// Login handles POST /usuarios/login.
func (h *UsersHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	u, err := h.svc.Login(c.Request().Context(), req.Email, []byte(req.Password))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Body: toResponse(u)})
}

// Get handles GET /usuarios/:id.
func (h *UsersHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return common.ErrorNotFound
	}

	u, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Body: toResponse(u)})
}

// Update handles POST /usuarios/actualizar. The request carries the whole
// record; an empty password keeps the current one.
func (h *UsersHandler) Update(c echo.Context) error {
	var req updateRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	in := users.UpdateInput{
		ID:       req.ID,
		Username: req.Username,
		Email:    req.Email,
		Status:   req.Status,
	}
	if req.Password != "" {
		in.Password = []byte(req.Password)
	}

	u, err := h.svc.Update(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Body: toResponse(u)})
}

// Delete handles POST /usuarios/eliminar.
func (h *UsersHandler) Delete(c echo.Context) error {
	var req deleteRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), req.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Body: "Usuario eliminado"})
}
