package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"pos-service/internal/logger"
	"pos-service/internal/models"
	"pos-service/internal/repository"

	"github.com/shopspring/decimal"
)

// DefaultCustomerName is recorded when an order arrives without one.
const DefaultCustomerName = "Walk-in"

// OrderService owns the order lifecycle: pricing and creating orders, and
// moving them through the pending -> paid | cancelled state machine.
type OrderService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	mylog    *logger.Logger
}

func NewOrderService(products repository.ProductRepository, orders repository.OrderRepository, mylog *logger.Logger) *OrderService {
	return &OrderService{
		products: products,
		orders:   orders,
		mylog:    mylog,
	}
}

// Create prices the submitted lines against the current catalog and persists
// the order with its line-item snapshots in one transaction. The computed
// total is fixed at this moment and never recomputed.
func (s *OrderService) Create(ctx context.Context, customerName string, lines []models.OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoProducts
	}

	ids := make([]int, 0, len(lines))
	seen := make(map[int]bool, len(lines))
	for _, line := range lines {
		if line.ProductID <= 0 {
			return nil, fmt.Errorf("%w: product ID must be positive", repository.ErrInvalidInput)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", repository.ErrInvalidInput)
		}
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	found, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		s.mylog.Error("", "order_pricing_failed", "Failed to resolve products for order", err)
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: no matching products", repository.ErrInvalidInput)
	}

	byID := make(map[int]models.Product, len(found))
	for _, p := range found {
		byID[p.ProductID] = p
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}

		lineTotal := decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)

		items = append(items, models.OrderItem{
			ProductID:   product.ProductID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
		})
	}

	name := strings.TrimSpace(customerName)
	if name == "" {
		name = DefaultCustomerName
	}

	order := &models.Order{
		CustomerName: name,
		TotalAmount:  total.Round(2).InexactFloat64(),
		Status:       models.StatusPending,
	}

	if err := s.orders.CreateOrder(ctx, order, items); err != nil {
		s.mylog.Error("", "order_create_failed", "Failed to persist order", err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.mylog.Info("", "order_created", fmt.Sprintf("Order %d created, total %.2f", order.OrderID, order.TotalAmount))
	return order, nil
}

// List returns all orders newest-first, each with its line items and a
// normalized status.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.GetAllWithItems(ctx)
	if err != nil {
		s.mylog.Error("", "order_list_failed", "Failed to list orders", err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Settle marks a pending order paid. Payment is accepted only when the
// amount exactly matches the stored total; over- and underpayment are both
// rejected with the required/provided breakdown.
func (s *OrderService) Settle(ctx context.Context, orderID int, amountPaid float64, paymentMethod, actor string) (*models.Order, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: order ID required", repository.ErrInvalidInput)
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return nil, fmt.Errorf("%w: payment method required", repository.ErrInvalidInput)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}

	switch models.NormalizeStatus(order.Status) {
	case models.StatusPaid:
		return nil, ErrAlreadyPaid
	case models.StatusCancelled:
		return nil, ErrOrderCancelled
	}

	if math.IsNaN(amountPaid) || math.IsInf(amountPaid, 0) || amountPaid <= 0 {
		return nil, ErrInvalidAmount
	}

	required := decimal.NewFromFloat(order.TotalAmount).Round(2)
	provided := decimal.NewFromFloat(amountPaid).Round(2)
	if !provided.Equal(required) {
		return nil, &AmountMismatchError{Required: required, Provided: provided}
	}

	updated, err := s.orders.MarkPaid(ctx, orderID, paymentMethod, actor)
	if err != nil {
		// A concurrent settlement may have won between the read and the
		// conditional update; re-read so the caller sees the real state.
		if errors.Is(err, repository.ErrNotPending) {
			return nil, s.settleStateError(ctx, orderID)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		s.mylog.Error("", "payment_failed", fmt.Sprintf("Failed to mark order %d paid", orderID), err)
		return nil, fmt.Errorf("failed to settle order %d: %w", orderID, err)
	}

	s.mylog.Info("", "payment_recorded", fmt.Sprintf("Order %d paid via %s by %s", orderID, paymentMethod, actor))
	return updated, nil
}

// Cancel marks a pending order cancelled. Paid orders stay paid.
func (s *OrderService) Cancel(ctx context.Context, orderID int, actor string) (*models.Order, error) {
	if orderID <= 0 {
		return nil, fmt.Errorf("%w: order ID required", repository.ErrInvalidInput)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}

	switch models.NormalizeStatus(order.Status) {
	case models.StatusPaid:
		return nil, ErrPaidNotCancellable
	case models.StatusCancelled:
		return nil, ErrAlreadyCancelled
	}

	updated, err := s.orders.MarkCancelled(ctx, orderID, actor)
	if err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, s.cancelStateError(ctx, orderID)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		s.mylog.Error("", "cancel_failed", fmt.Sprintf("Failed to cancel order %d", orderID), err)
		return nil, fmt.Errorf("failed to cancel order %d: %w", orderID, err)
	}

	s.mylog.Info("", "order_cancelled", fmt.Sprintf("Order %d cancelled by %s", orderID, actor))
	return updated, nil
}

func (s *OrderService) settleStateError(ctx context.Context, orderID int) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return ErrOrderNotFound
	}
	if models.NormalizeStatus(order.Status) == models.StatusCancelled {
		return ErrOrderCancelled
	}
	return ErrAlreadyPaid
}

func (s *OrderService) cancelStateError(ctx context.Context, orderID int) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return ErrOrderNotFound
	}
	if models.NormalizeStatus(order.Status) == models.StatusPaid {
		return ErrPaidNotCancellable
	}
	return ErrAlreadyCancelled
}
