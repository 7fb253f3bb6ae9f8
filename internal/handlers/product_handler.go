package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime"
	"path"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/almeidaGustavo05/product-catalog-API/internal/models"
	"github.com/almeidaGustavo05/product-catalog-API/internal/repositories"
	"github.com/almeidaGustavo05/product-catalog-API/internal/services"
	"github.com/almeidaGustavo05/product-catalog-API/internal/storage"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// ProductRequest is the body of create and update requests. Status is not
// accepted here; the activate/deactivate endpoints own status transitions.
type ProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=1000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,max=100"`
}

// RegisterRoutes registers the catalog routes. Reads go on the public
// router, mutations on the authenticated one.
func (h *ProductHandler) RegisterRoutes(public fiber.Router, protected fiber.Router) {
	reads := public.Group("/products")
	reads.Get("/", h.HandleGetProducts)
	reads.Get("/paged", h.HandleGetPagedProducts)
	reads.Get("/search", h.HandleSearchProducts)
	reads.Get("/:id", h.HandleGetProductByID)
	reads.Get("/:id/image", h.HandleGetProductImage)

	writes := protected.Group("/products")
	writes.Post("/", h.HandleCreateProduct)
	writes.Put("/:id", h.HandleUpdateProduct)
	writes.Delete("/:id", h.HandleDeleteProduct)
	writes.Patch("/:id/activate", h.HandleActivateProduct)
	writes.Patch("/:id/deactivate", h.HandleDeactivateProduct)
	writes.Post("/:id/image", h.HandleUploadImage)
}

// HandleGetProducts retrieves products, optionally narrowed by the category,
// minPrice, maxPrice and status query parameters.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter, err := parseProductFilter(c)
	if err != nil {
		return h.errorResponse(c, "Invalid filter parameters", err)
	}

	products, err := h.service.GetFilteredProducts(filter)
	if err != nil {
		return h.errorResponse(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetPagedProducts retrieves one page of products plus the total count.
func (h *ProductHandler) HandleGetPagedProducts(c *fiber.Ctx) error {
	pageNumber := c.QueryInt("pageNumber", 1)
	pageSize := c.QueryInt("pageSize", 10)

	products, total, err := h.service.GetPagedProducts(pageNumber, pageSize)
	if err != nil {
		return h.errorResponse(c, "Could not retrieve products", err)
	}
	return c.JSON(fiber.Map{
		"items":      products,
		"totalCount": total,
		"pageNumber": pageNumber,
		"pageSize":   pageSize,
	})
}

// HandleSearchProducts performs a case-insensitive substring search over
// name, description and category.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	term := c.Query("q")
	if term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'q' is required for search.",
		})
	}

	products, err := h.service.SearchProducts(term)
	if err != nil {
		return h.errorResponse(c, "Could not search products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return h.errorResponse(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleGetProductImage streams the stored image of a product.
func (h *ProductHandler) HandleGetProductImage(c *fiber.Ctx) error {
	stream, url, err := h.service.GetProductImage(c.Params("id"))
	if err != nil {
		return h.errorResponse(c, "Could not retrieve product image", err)
	}

	if contentType := mime.TypeByExtension(path.Ext(url)); contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	return c.SendStream(stream)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.CreateProduct(req.Name, req.Description, req.Price, req.Category)
	if err != nil {
		return h.errorResponse(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates the business fields of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	product, err := h.service.UpdateProduct(c.Params("id"), req.Name, req.Description, req.Price, req.Category)
	if err != nil {
		return h.errorResponse(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct soft-deletes a product and its stored image.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return h.errorResponse(c, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleActivateProduct marks a product as active.
func (h *ProductHandler) HandleActivateProduct(c *fiber.Ctx) error {
	product, err := h.service.ActivateProduct(c.Params("id"))
	if err != nil {
		return h.errorResponse(c, "Could not activate product", err)
	}
	return c.JSON(product)
}

// HandleDeactivateProduct marks a product as inactive.
func (h *ProductHandler) HandleDeactivateProduct(c *fiber.Ctx) error {
	product, err := h.service.DeactivateProduct(c.Params("id"))
	if err != nil {
		return h.errorResponse(c, "Could not deactivate product", err)
	}
	return c.JSON(product)
}

// HandleUploadImage attaches an image to a product, replacing any previous
// one. Expects a multipart form with an "image" field.
func (h *ProductHandler) HandleUploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "An image file is required in the 'image' form field.",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded file",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	product, err := h.service.UploadProductImage(
		c.Params("id"),
		file,
		fileHeader.Size,
		fileHeader.Filename,
		fileHeader.Header.Get(fiber.HeaderContentType),
	)
	if err != nil {
		return h.errorResponse(c, "Could not upload product image", err)
	}
	return c.JSON(product)
}

// errorResponse maps service errors to HTTP statuses: validation failures
// are 400, missing products and images 404, everything else 500.
func (h *ProductHandler) errorResponse(c *fiber.Ctx, message string, err error) error {
	var verr *models.ValidationError

	switch {
	case errors.Is(err, models.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	case errors.Is(err, storage.ErrImageNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product image not found",
		})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   verr.Error(),
		})
	default:
		log.Printf("%s: %v", message, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}

// parseProductFilter builds a repository filter from the optional query
// parameters of a list request.
func parseProductFilter(c *fiber.Ctx) (repositories.ProductFilter, error) {
	var filter repositories.ProductFilter

	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if raw := c.Query("minPrice"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, &models.ValidationError{Field: "minPrice", Message: "must be a number"}
		}
		filter.MinPrice = &minPrice
	}
	if raw := c.Query("maxPrice"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, &models.ValidationError{Field: "maxPrice", Message: "must be a number"}
		}
		filter.MaxPrice = &maxPrice
	}
	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseProductStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// validationFailed renders validator.v10 errors the same way for every
// endpoint that binds a request struct.
func validationFailed(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
