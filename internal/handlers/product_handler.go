package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"tokoproduk/internal/middleware"
	"tokoproduk/internal/models"
	"tokoproduk/internal/repositories"
	"tokoproduk/internal/services"
	"tokoproduk/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Response messages.
const (
	msgInvalidJSON    = "Invalid JSON payload"
	msgInvalidID      = "Invalid product ID: "
	msgDuplicateName  = "Duplicate entry: a product with the same name already exists."
	msgMissingFields  = "Bad request: missing required fields."
	msgInvalidFields  = "Bad request: invalid field values."
	msgNoProduct      = "No Product"
	msgUpdated        = "Product updated successfully"
	msgDeleted        = "Product deleted successfully"
	msgDatabaseError  = "Database error: "
	msgNotFoundFormat = "Product with ID %d not found."
)

var errInvalidJSON = errors.New("invalid JSON payload")

type operation int

const (
	opRead operation = iota
	opCreate
	opUpdate
	opDelete
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service           *services.ProductService
	log               *zap.Logger
	emptyListNotFound bool
}

// NewProductHandler creates a new ProductHandler. When emptyListNotFound is
// set, listing an empty table answers 404 instead of an empty array.
func NewProductHandler(service *services.ProductService, log *zap.Logger, emptyListNotFound bool) *ProductHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductHandler{
		service:           service,
		log:               log,
		emptyListNotFound: emptyListNotFound,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleCreateProduct creates a new product and returns the stored record.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var in models.ProductInput
	if err := h.decode(c, services.OperationCreate, &in); err != nil {
		return h.respondError(c, opCreate, 0, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), in)
	if err != nil {
		return h.respondError(c, opCreate, 0, err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetProducts returns every product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.respondError(c, opRead, 0, err)
	}

	if len(products) == 0 {
		if h.emptyListNotFound {
			return errorJSON(c, fiber.StatusNotFound, msgNoProduct)
		}
		products = []models.Product{}
	}
	return c.JSON(products)
}

// HandleGetProductByID returns a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidID+c.Params("id"))
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, opRead, id, err)
	}
	return c.JSON(product)
}

// HandleUpdateProduct replaces every field of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidID+c.Params("id"))
	}

	var in models.ProductInput
	if err := h.decode(c, services.OperationUpdate, &in); err != nil {
		return h.respondError(c, opUpdate, id, err)
	}

	if err := h.service.UpdateProduct(c.UserContext(), id, in); err != nil {
		return h.respondError(c, opUpdate, id, err)
	}
	return c.JSON(fiber.Map{"message": msgUpdated})
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidID+c.Params("id"))
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return h.respondError(c, opDelete, id, err)
	}
	return c.JSON(fiber.Map{"message": msgDeleted})
}

// decode parses the JSON body into in. Type mismatches on known fields are
// reported as validation errors, all of them; anything else that fails to
// parse is errInvalidJSON.
func (h *ProductHandler) decode(c *fiber.Ctx, operation string, in *models.ProductInput) error {
	err := c.BodyParser(in)
	if err == nil {
		return nil
	}
	if _, ok := validation.FieldTypeError(err); !ok {
		return errInvalidJSON
	}

	// encoding/json stops at the first mismatch, so decode again field by field
	*in = models.ProductInput{}
	err = validation.DecodeJSON(c.Body(), in)
	if errs := h.service.Validate(operation, *in, err); errs != nil {
		return errs
	}
	return errInvalidJSON
}

// respondError maps an operation failure to a status code and body.
func (h *ProductHandler) respondError(c *fiber.Ctx, op operation, id int64, err error) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verrs})
	case errors.Is(err, errInvalidJSON):
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidJSON)
	case errors.Is(err, repositories.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, fmt.Sprintf(msgNotFoundFormat, id))
	}

	switch op {
	case opCreate:
		switch {
		case errors.Is(err, repositories.ErrConstraintViolation):
			return errorJSON(c, fiber.StatusConflict, msgDuplicateName)
		case errors.Is(err, repositories.ErrMissingField):
			return errorJSON(c, fiber.StatusBadRequest, msgMissingFields)
		case errors.Is(err, repositories.ErrInvalidField):
			return errorJSON(c, fiber.StatusBadRequest, msgInvalidFields)
		}
	case opUpdate:
		if errors.Is(err, repositories.ErrConstraintViolation) ||
			errors.Is(err, repositories.ErrMissingField) ||
			errors.Is(err, repositories.ErrInvalidField) {
			return errorJSON(c, fiber.StatusBadRequest, msgInvalidFields)
		}
	}

	middleware.Logger(c, h.log).Error("Product store operation failed",
		zap.Int64("product_id", id),
		zap.Error(err))

	return errorJSON(c, fiber.StatusInternalServerError, msgDatabaseError+storeMessage(err))
}

// storeMessage returns the driver's own message when err wraps a store error.
func storeMessage(err error) string {
	var storeErr *repositories.StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Error()
	}
	return err.Error()
}

func productID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
