package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/storefront/internal/server/middleware"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
	"github.com/shopspring/decimal"
)

type cartController struct {
	productUsecase usecase.ProductUsecase
}

func NewCartController(productUsecase usecase.ProductUsecase) Controller {
	return &cartController{
		productUsecase: productUsecase,
	}
}

func (cc *cartController) Register(api *echo.Group, auth echo.MiddlewareFunc) {
	cart := api.Group("/cart", auth)
	cart.GET("", pkgmdw.WrapHandler(cc.Get))
	cart.DELETE("", pkgmdw.WrapHandler(cc.Clear))
	cart.POST("/refresh", pkgmdw.WrapHandler(cc.Refresh))
	cart.POST("/checkout", pkgmdw.WrapHandler(cc.Checkout))
	cart.POST("/items", pkgmdw.WrapHandler(cc.AddItem))
	cart.PUT("/items/:id", pkgmdw.WrapHandler(cc.UpdateQuantity))
	cart.DELETE("/items/:id", pkgmdw.WrapHandler(cc.RemoveItem))
	cart.POST("/items/:id/increment", pkgmdw.WrapHandler(cc.Increment))
	cart.POST("/items/:id/decrement", pkgmdw.WrapHandler(cc.Decrement))
}

// CartView is the session cart as rendered to clients.
type CartView struct {
	Items     []models.LocalCartItem `json:"items"`
	Total     decimal.Decimal        `json:"total"`
	Currency  string                 `json:"currency"`
	Count     int                    `json:"count"`
	Loading   bool                   `json:"loading"`
	LastError string                 `json:"last_error,omitempty"`
}

func newCartView(snap usecase.CartSnapshot) *CartView {
	total := snap.Total()
	return &CartView{
		Items:     snap.Items,
		Total:     total.Amount,
		Currency:  total.Currency.String(),
		Count:     snap.Count(),
		Loading:   snap.Loading,
		LastError: snap.LastError,
	}
}

type addItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

type itemRequest struct {
	ID int `param:"id" validate:"required,gt=0"`
}

type updateQuantityRequest struct {
	ID       int `param:"id" json:"-" validate:"required,gt=0"`
	Quantity int `json:"quantity"`
}

func (cc *cartController) Get(c echo.Context) (*CartView, error) {
	session, err := currentSession(c)
	if err != nil {
		return nil, err
	}
	return newCartView(session.Cart.Snapshot()), nil
}

func (cc *cartController) Refresh(c echo.Context) (*CartView, error) {
	session, err := currentSession(c)
	if err != nil {
		return nil, err
	}
	if err := session.Cart.FetchCart(c.Request().Context(), session.UserID); err != nil {
		return nil, err
	}
	return newCartView(session.Cart.Snapshot()), nil
}

func (cc *cartController) AddItem(c echo.Context, req addItemRequest) (*CartView, error) {
	session, err := currentSession(c)
	if err != nil {
		return nil, err
	}

	ctx := c.Request().Context()
	product, err := cc.productUsecase.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	session.Cart.AddItem(ctx, *product)
	return newCartView(session.Cart.Snapshot()), nil
}

func (cc *cartController) RemoveItem(c echo.Context, req itemRequest) (*CartView, error) {
	return cc.apply(c, func(cart *usecase.CartSynchronizer) {
		cart.RemoveItem(c.Request().Context(), req.ID)
	})
}

func (cc *cartController) Increment(c echo.Context, req itemRequest) (*CartView, error) {
	return cc.apply(c, func(cart *usecase.CartSynchronizer) {
		cart.Increment(c.Request().Context(), req.ID)
	})
}

func (cc *cartController) Decrement(c echo.Context, req itemRequest) (*CartView, error) {
	return cc.apply(c, func(cart *usecase.CartSynchronizer) {
		cart.Decrement(c.Request().Context(), req.ID)
	})
}

func (cc *cartController) UpdateQuantity(c echo.Context, req updateQuantityRequest) (*CartView, error) {
	return cc.apply(c, func(cart *usecase.CartSynchronizer) {
		cart.UpdateQuantity(c.Request().Context(), req.ID, req.Quantity)
	})
}

func (cc *cartController) Clear(c echo.Context) (*CartView, error) {
	return cc.apply(c, func(cart *usecase.CartSynchronizer) {
		cart.Clear(c.Request().Context(), true)
	})
}

// Checkout answers 204 when there is nothing to submit.
func (cc *cartController) Checkout(c echo.Context) (interface{}, error) {
	session, err := currentSession(c)
	if err != nil {
		return nil, err
	}

	cart, err := session.Cart.Checkout(c.Request().Context())
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &pkgmdw.Response{Status: http.StatusNoContent}, nil
	}
	return cart, nil
}

func (cc *cartController) apply(c echo.Context, fn func(cart *usecase.CartSynchronizer)) (*CartView, error) {
	session, err := currentSession(c)
	if err != nil {
		return nil, err
	}
	fn(session.Cart)
	return newCartView(session.Cart.Snapshot()), nil
}
