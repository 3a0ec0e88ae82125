package server

import (
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/storefront/internal/server/middleware"
	"github.com/nguyentranbao-ct/storefront/internal/usecase"
)

type productController struct {
	productUsecase usecase.ProductUsecase
}

func NewProductController(productUsecase usecase.ProductUsecase) Controller {
	return &productController{
		productUsecase: productUsecase,
	}
}

func (pc *productController) Register(api *echo.Group, _ echo.MiddlewareFunc) {
	api.GET("/products", pkgmdw.WrapHandler(pc.List))
	api.GET("/products/categories", pkgmdw.WrapHandler(pc.Categories))
	api.GET("/products/:id", pkgmdw.WrapHandler(pc.Get))
}

type listProductsRequest struct {
	Limit    int              `query:"limit" validate:"omitempty,gt=0"`
	Sort     models.SortOrder `query:"sort" validate:"omitempty,oneof=asc desc"`
	Category string           `query:"category"`
	Search   string           `query:"q"`
}

type productRequest struct {
	ID int `param:"id" validate:"required,gt=0"`
}

func (pc *productController) List(c echo.Context, req listProductsRequest) ([]models.Product, error) {
	query := models.ProductQuery{
		Limit:    req.Limit,
		Sort:     req.Sort,
		Category: req.Category,
	}
	filter := usecase.ProductFilter{
		Category: req.Category,
		Search:   req.Search,
		Sort:     req.Sort,
	}
	return pc.productUsecase.List(c.Request().Context(), query, filter)
}

func (pc *productController) Categories(c echo.Context) ([]string, error) {
	return pc.productUsecase.Categories(c.Request().Context())
}

func (pc *productController) Get(c echo.Context, req productRequest) (*models.Product, error) {
	return pc.productUsecase.Get(c.Request().Context(), req.ID)
}
