package handler

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/middleware"
	"mateswap/internal/domain/entity"
	"mateswap/internal/usecase"
	"mateswap/pkg/errors"
	"mateswap/pkg/response"
	"mateswap/pkg/utils"
)

const maxImageSize = 5 << 20

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, 20)
	filter := entity.ProductFilter{
		Category: c.QueryParam("category"),
		Platform: c.QueryParam("platform"),
		UserID:   c.QueryParam("userId"),
	}

	products, total, err := h.productUseCase.ListProducts(c.Request().Context(), filter, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	detail, err := h.productUseCase.GetProductDetail(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, detail)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req usecase.CreateProductInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.CreateProduct(c.Request().Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, product)
}

func (h *ProductHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.BadRequest("image file is required", err))
	}
	if file.Size > maxImageSize {
		return response.Error(c, errors.BadRequest("Image must be 5MB or smaller", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read image", err))
	}
	defer src.Close()

	url, err := h.productUseCase.UploadImage(c.Request().Context(), middleware.IdentityFrom(c), src, file.Header.Get("Content-Type"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, map[string]string{"url": url})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.productUseCase.DeleteProduct(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Product deleted successfully"})
}
