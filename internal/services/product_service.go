package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tokoproduk/internal/models"
	"tokoproduk/internal/repositories"
	"tokoproduk/internal/validation"
	"tokoproduk/pkg/metrics"

	"go.uber.org/zap"
)

// Product lifecycle event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// Operation names used as metric labels.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// EventPublisher delivers product lifecycle events.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// ProductEvent is the message body of a product lifecycle event.
type ProductEvent struct {
	Event      string          `json:"event"`
	ProductID  int64           `json:"product_id"`
	Product    *models.Product `json:"product,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *validation.Validator
	publisher EventPublisher
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// NewProductService creates a new ProductService. publisher and m may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, m *metrics.Metrics, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		repo:      repo,
		validator: validation.New(),
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

// Validate checks a payload for operation (OperationCreate or OperationUpdate). decodeErr is
// the error, if any, returned while decoding the payload from JSON. A rejected
// payload is counted as a validation error of operation.
func (s *ProductService) Validate(operation string, in models.ProductInput, decodeErr error) validation.Errors {
	errs := s.validator.Check(in, decodeErr)
	if errs != nil {
		s.record(operation, errs)
	}
	return errs
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	s.record(OperationList, err)
	return products, err
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	s.record(OperationGet, err)
	return product, err
}

// CreateProduct validates the payload and inserts a new product.
// Invalid payloads return validation.Errors and never reach the store.
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if errs := s.Validate(OperationCreate, in, nil); errs != nil {
		return nil, errs
	}

	product := in.ToProduct()
	if err := s.repo.Create(ctx, product); err != nil {
		s.record(OperationCreate, err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.record(OperationCreate, nil)

	s.publish(EventProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct validates the payload and replaces every field of the product.
// It returns repositories.ErrNotFound when no product has the given ID.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) error {
	if errs := s.Validate(OperationUpdate, in, nil); errs != nil {
		return errs
	}

	product := in.ToProduct()
	affected, err := s.repo.Update(ctx, id, product)
	if err != nil {
		s.record(OperationUpdate, err)
		return fmt.Errorf("failed to update product %d: %w", id, err)
	}
	if affected == 0 {
		s.record(OperationUpdate, repositories.ErrNotFound)
		return repositories.ErrNotFound
	}
	s.record(OperationUpdate, nil)

	product.ID = id
	s.publish(EventProductUpdated, id, product)
	return nil
}

// DeleteProduct deletes a product by its ID.
// It returns repositories.ErrNotFound when no product has the given ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.record(OperationDelete, err)
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if affected == 0 {
		s.record(OperationDelete, repositories.ErrNotFound)
		return repositories.ErrNotFound
	}
	s.record(OperationDelete, nil)

	s.publish(EventProductDeleted, id, nil)
	return nil
}

// publish sends an event if a publisher is configured. Failures are logged
// and never change the outcome of the operation.
func (s *ProductService) publish(eventType string, id int64, product *models.Product) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(ProductEvent{
		Event:      eventType,
		ProductID:  id,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Warn("Failed to marshal product event", zap.String("event", eventType), zap.Error(err))
		return
	}

	if err := s.publisher.Publish(eventType, body); err != nil {
		s.log.Warn("Failed to publish product event",
			zap.String("event", eventType),
			zap.Int64("product_id", id),
			zap.Error(err))
		return
	}
	s.log.Debug("Published product event", zap.String("event", eventType), zap.Int64("product_id", id))
}

func (s *ProductService) record(operation string, err error) {
	var verrs validation.Errors
	switch {
	case err == nil:
		s.metrics.RecordProductOperation(operation, "success")
	case errors.As(err, &verrs):
		s.metrics.RecordProductOperation(operation, "validation_error")
	case errors.Is(err, repositories.ErrNotFound):
		s.metrics.RecordProductOperation(operation, "not_found")
	default:
		s.metrics.RecordProductOperation(operation, "error")
	}
}
