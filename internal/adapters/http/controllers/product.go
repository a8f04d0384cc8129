package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"products-service/internal/adapters/http/handlers"
	"products-service/internal/core/domain"
	"products-service/internal/core/dto"
	"products-service/internal/core/service"
	"products-service/internal/core/serviceerrors"
)

type ProductController struct {
	productService *service.ProductService
}

type ProductResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func NewProductResponse(product *domain.StoredProduct) ProductResponse {
	return ProductResponse{
		ID:          int64(product.ID),
		Name:        product.Name,
		Description: product.Description,
		Category:    string(product.Category),
		Price:       product.Price,
		Quantity:    product.Quantity,
		CreatedAt:   timestamp(product.CreatedAt),
		UpdatedAt:   timestamp(product.UpdatedAt),
	}
}

// timestamp serializes an unset audit time as null; legacy records may lack one.
func timestamp(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// GetAll godoc
// @Summary     List all products
// @Description Returns every stored product
// @Tags        products
// @Produce     json
// @Success     200 {array} ProductResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/v1/products [get]
func (pc *ProductController) GetAll(c *gin.Context) {
	products, err := pc.productService.GetAll(c.Request.Context())
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	response := make([]ProductResponse, len(products))
	for i, product := range products {
		response[i] = NewProductResponse(product)
	}

	c.JSON(http.StatusOK, response)
}

// GetCategories godoc
// @Summary     List product categories
// @Description Returns the fixed set of category literals
// @Tags        products
// @Produce     json
// @Success     200 {array} string
// @Router      /api/v1/products/categories [get]
func (pc *ProductController) GetCategories(c *gin.Context) {
	categories := pc.productService.Categories()

	response := make([]string, len(categories))
	for i, category := range categories {
		response[i] = string(category)
	}

	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary     Get a product
// @Description Returns a single product by identifier
// @Tags        products
// @Produce     json
// @Param       id path int true "Product ID"
// @Success     200 {object} ProductResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /api/v1/products/{id} [get]
func (pc *ProductController) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := pc.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProductResponse(product))
}

// CreateProduct godoc
// @Summary     Create a product
// @Description Creates a new product
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       request body     dto.ProductRequest true "Product data"
// @Success     201     {object} ProductResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     500     {object} handlers.ErrorResponse
// @Router      /api/v1/products [post]
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var request dto.ProductRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}

	product, err := pc.productService.CreateProduct(c.Request.Context(), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewProductResponse(product))
}

// UpdateProduct godoc
// @Summary     Replace a product
// @Description Overwrites all mutable fields of an existing product
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       id      path     int                true "Product ID"
// @Param       request body     dto.ProductRequest true "Product data"
// @Success     200     {object} ProductResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     404     {object} handlers.ErrorResponse
// @Router      /api/v1/products/{id} [put]
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request dto.ProductRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}

	product, err := pc.productService.UpdateProduct(c.Request.Context(), id, &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProductResponse(product))
}

// DeleteProduct godoc
// @Summary     Delete a product
// @Description Removes a product permanently
// @Tags        products
// @Param       id path int true "Product ID"
// @Success     204
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /api/v1/products/{id} [delete]
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := pc.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		handlers.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AdjustQuantity godoc
// @Summary     Adjust product quantity
// @Description Adds a signed delta to the stored quantity, floored at zero
// @Tags        products
// @Produce     json
// @Param       id    path int true "Product ID"
// @Param       delta path int true "Signed quantity change"
// @Success     200 {object} ProductResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /api/v1/products/{id}/quantity/{delta} [patch]
func (pc *ProductController) AdjustQuantity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	delta, err := strconv.Atoi(c.Param("delta"))
	if err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError("delta must be an integer"))
		return
	}

	product, err := pc.productService.AdjustQuantity(c.Request.Context(), id, delta)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProductResponse(product))
}

func pathID(c *gin.Context, name string) (domain.ID, bool) {
	raw, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError("product id must be an integer"))
		return 0, false
	}
	return domain.ID(raw), true
}
