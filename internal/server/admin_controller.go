package server

import (
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/nguyentranbao-ct/storefront/internal/repo/mongodb"
	pkgmdw "github.com/nguyentranbao-ct/storefront/internal/server/middleware"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
)

type adminController struct {
	carts   usecase.AdminCartRepository
	users   usecase.AdminUserRepository
	journal mongodb.SyncJournalRepository
}

func NewAdminController(
	carts usecase.AdminCartRepository,
	users usecase.AdminUserRepository,
	journal mongodb.SyncJournalRepository,
) Controller {
	return &adminController{
		carts:   carts,
		users:   users,
		journal: journal,
	}
}

func (ac *adminController) Register(api *echo.Group, _ echo.MiddlewareFunc) {
	admin := api.Group("/admin")
	admin.GET("/carts", pkgmdw.WrapHandler(ac.ListCarts))
	admin.POST("/carts", pkgmdw.WrapHandler(ac.CreateCart))
	admin.GET("/carts/:id", pkgmdw.WrapHandler(ac.GetCart))
	admin.PUT("/carts/:id", pkgmdw.WrapHandler(ac.UpdateCart))
	admin.DELETE("/carts/:id", pkgmdw.WrapHandler(ac.DeleteCart))
	admin.GET("/users", pkgmdw.WrapHandler(ac.ListUsers))
	admin.POST("/users", pkgmdw.WrapHandler(ac.CreateUser))
	admin.GET("/users/:id", pkgmdw.WrapHandler(ac.GetUser))
	admin.PUT("/users/:id", pkgmdw.WrapHandler(ac.UpdateUser))
	admin.DELETE("/users/:id", pkgmdw.WrapHandler(ac.DeleteUser))
	admin.GET("/users/:id/carts", pkgmdw.WrapHandler(ac.ListUserCarts))
	admin.GET("/sync-journal", pkgmdw.WrapHandler(ac.ListSyncJournal))
}

type cartRequest struct {
	ID int `param:"id" validate:"required,gt=0"`
}

type updateCartRequest struct {
	ID       int               `param:"id" json:"-" validate:"required,gt=0"`
	UserID   *int              `json:"userId,omitempty"`
	Date     *string           `json:"date,omitempty"`
	Products []models.CartLine `json:"products,omitempty"`
}

type listUsersRequest struct {
	Force bool `query:"force"`
}

type userRequest struct {
	ID int `param:"id" validate:"required,gt=0"`
}

type updateUserRequest struct {
	ID int `param:"id" json:"-" validate:"required,gt=0"`
	models.UserPatch
}

type syncJournalRequest struct {
	UserID int   `query:"user_id" validate:"omitempty,gt=0"`
	Limit  int64 `query:"limit" validate:"omitempty,gt=0,lte=500"`
}

func (ac *adminController) ListCarts(c echo.Context, req models.CartFilter) ([]models.RemoteCart, error) {
	return ac.carts.List(c.Request().Context(), req)
}

func (ac *adminController) GetCart(c echo.Context, req cartRequest) (*models.RemoteCart, error) {
	return ac.carts.GetByID(c.Request().Context(), req.ID)
}

func (ac *adminController) ListUserCarts(c echo.Context, req cartRequest) ([]models.RemoteCart, error) {
	return ac.carts.ListByUser(c.Request().Context(), req.ID)
}

func (ac *adminController) CreateCart(c echo.Context, req models.CartPayload) (*models.RemoteCart, error) {
	return ac.carts.Create(c.Request().Context(), req)
}

func (ac *adminController) UpdateCart(c echo.Context, req updateCartRequest) (*models.RemoteCart, error) {
	return ac.carts.Update(c.Request().Context(), req.ID, models.CartPatch{
		UserID:   req.UserID,
		Date:     req.Date,
		Products: req.Products,
	})
}

func (ac *adminController) DeleteCart(c echo.Context, req cartRequest) error {
	return ac.carts.Delete(c.Request().Context(), req.ID)
}

func (ac *adminController) ListUsers(c echo.Context, req listUsersRequest) ([]models.User, error) {
	return ac.users.List(c.Request().Context(), req.Force)
}

func (ac *adminController) GetUser(c echo.Context, req userRequest) (*models.User, error) {
	return ac.users.GetByID(c.Request().Context(), req.ID)
}

func (ac *adminController) CreateUser(c echo.Context, req models.UserPayload) (*models.User, error) {
	return ac.users.Create(c.Request().Context(), req)
}

func (ac *adminController) UpdateUser(c echo.Context, req updateUserRequest) (*models.User, error) {
	return ac.users.Update(c.Request().Context(), req.ID, req.UserPatch)
}

func (ac *adminController) DeleteUser(c echo.Context, req userRequest) error {
	return ac.users.Delete(c.Request().Context(), req.ID)
}

func (ac *adminController) ListSyncJournal(c echo.Context, req syncJournalRequest) (*mongodb.PaginateWithTotal[models.SyncRecord], error) {
	return ac.journal.ListByUser(c.Request().Context(), req.UserID, req.Limit)
}
