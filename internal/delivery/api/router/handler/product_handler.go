package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"starmobiles/internal/delivery/api/dto"
	"starmobiles/internal/delivery/api/response"
	"starmobiles/internal/domain/entity"
	"starmobiles/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ProductHandlerParams holds dependencies for ProductHandler, injected by Fx.
type ProductHandlerParams struct {
	fx.In

	ProductUC usecase.ProductUsecase
	Logger    *slog.Logger
}

// ProductHandler serves the catalog and the back-office product endpoints.
type ProductHandler struct {
	productUC usecase.ProductUsecase
	logger    *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler.
func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{
		productUC: params.ProductUC,
		logger:    params.Logger,
	}
}

// ListProducts lists the catalog. Filters combine with AND.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	var (
		filter             entity.ProductFilter
		category           string
		minPrice, maxPrice int64
		featured           bool
	)
	err := echo.QueryParamsBinder(c).
		String("category", &category).
		String("brand", &filter.Brand).
		Int64("minPrice", &minPrice).
		Int64("maxPrice", &maxPrice).
		Bool("featured", &featured).
		BindError()
	if err != nil {
		return response.BadRequest(c, "INVALID_FILTER", "Invalid product filter")
	}

	filter.Category = entity.ProductCategory(category)
	if c.QueryParam("minPrice") != "" {
		filter.MinPrice = &minPrice
	}
	if c.QueryParam("maxPrice") != "" {
		filter.MaxPrice = &maxPrice
	}
	if c.QueryParam("featured") != "" {
		filter.Featured = &featured
	}

	products, err := h.productUC.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, dto.FromProducts(products))
}

// GetProduct returns one product.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}

	product, err := h.productUC.GetProduct(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, dto.FromProduct(product))
}

// CreateProduct adds a product to the catalog.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	product, err := h.productUC.CreateProduct(c.Request().Context(), req.ToInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, dto.FromProduct(product), "Product created successfully")
}

// UpdateProduct replaces a product's editable fields.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	product, err := h.productUC.UpdateProduct(c.Request().Context(), id, req.ToInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, dto.FromProduct(product), "Product updated successfully")
}

// DeleteProduct removes a product from the catalog.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}

	if err := h.productUC.DeleteProduct(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted successfully")
}

// UploadImage stores the multipart "image" field and returns its public URL.
func (h *ProductHandler) UploadImage(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Missing image file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Unreadable image file")
	}
	defer file.Close()

	url, err := h.productUC.UploadImage(c.Request().Context(), &usecase.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, dto.ImageUploaded{URL: url}, "Image uploaded successfully")
}

// ServeImage streams an uploaded picture. It is mounted outside /api so
// <img> tags can load it without the apikey header.
func (h *ProductHandler) ServeImage(c echo.Context) error {
	img, err := h.productUC.OpenImage(c.Request().Context(), c.Param("*"))
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer img.Body.Close()

	header := c.Response().Header()
	header.Set("Cache-Control", "public, max-age=31536000, immutable")
	header.Set(echo.HeaderContentLength, strconv.FormatInt(img.Size, 10))
	if !img.ModTime.IsZero() {
		header.Set(echo.HeaderLastModified, img.ModTime.UTC().Format(http.TimeFormat))
	}

	return c.Stream(http.StatusOK, img.ContentType, img.Body)
}
