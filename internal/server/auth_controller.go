package server

import (
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/storefront/internal/server/middleware"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
)

type authController struct {
	authUsecase *usecase.AuthUseCase
}

func NewAuthController(authUsecase *usecase.AuthUseCase) Controller {
	return &authController{
		authUsecase: authUsecase,
	}
}

func (ac *authController) Register(api *echo.Group, auth echo.MiddlewareFunc) {
	api.POST("/auth/login", pkgmdw.WrapHandler(ac.Login))
	api.POST("/auth/logout", pkgmdw.WrapHandler(ac.Logout), auth)
}

type LoginResponse struct {
	Token  string                 `json:"token"`
	UserID int                    `json:"user_id"`
	Items  []models.LocalCartItem `json:"items"`
}

func (ac *authController) Login(c echo.Context, req models.LoginRequest) (*LoginResponse, error) {
	token, session, err := ac.authUsecase.Login(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:  token,
		UserID: session.UserID,
		Items:  session.Cart.Items(),
	}, nil
}

type logoutRequest struct {
	Token string `session:"token" validate:"required"`
}

func (ac *authController) Logout(c echo.Context, req logoutRequest) error {
	return ac.authUsecase.Logout(c.Request().Context(), req.Token)
}
