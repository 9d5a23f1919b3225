package handlers

import (
	"context"
	"errors"
	"net/http"

	"pos-service/internal/models"
	"pos-service/internal/repository"
	"pos-service/internal/service"
)

// OrderManager is the slice of the order service the HTTP layer needs.
type OrderManager interface {
	Create(ctx context.Context, customerName string, lines []models.OrderLine) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Settle(ctx context.Context, orderID int, amountPaid float64, paymentMethod, actor string) (*models.Order, error)
	Cancel(ctx context.Context, orderID int, actor string) (*models.Order, error)
}

type OrderHandler struct {
	orders OrderManager
}

func NewOrderHandler(orders OrderManager) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type OrderCreateRequest struct {
	CustomerName string             `json:"customer_name"`
	Products     []models.OrderLine `json:"products"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req OrderCreateRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	order, err := h.orders.Create(r.Context(), req.CustomerName, req.Products)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Order created successfully!",
		"order_id": order.OrderID,
		"order":    order,
	})
}

func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get orders", nil)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// writeOrderError maps order/settlement errors onto the response taxonomy.
func writeOrderError(w http.ResponseWriter, err error) {
	var productNotFound *service.ProductNotFoundError
	var mismatch *service.AmountMismatchError

	switch {
	case errors.Is(err, service.ErrNoProducts):
		writeError(w, http.StatusBadRequest, "invalid_input", "No products selected.", nil)
	case errors.As(err, &productNotFound):
		writeError(w, http.StatusBadRequest, "product_not_found", productNotFound.Error(), nil)
	case errors.Is(err, service.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", "order not found", nil)
	case errors.Is(err, service.ErrAlreadyPaid):
		writeError(w, http.StatusConflict, "invalid_state", "Order is already paid.", nil)
	case errors.Is(err, service.ErrOrderCancelled):
		writeError(w, http.StatusConflict, "invalid_state", "Order is cancelled and cannot be paid.", nil)
	case errors.Is(err, service.ErrPaidNotCancellable):
		writeError(w, http.StatusConflict, "invalid_state", "Paid orders cannot be cancelled.", nil)
	case errors.Is(err, service.ErrAlreadyCancelled):
		writeError(w, http.StatusConflict, "invalid_state", "Order is already cancelled.", nil)
	case errors.Is(err, service.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid_amount", "Amount paid must be a positive number.", nil)
	case errors.As(err, &mismatch):
		writeError(w, http.StatusBadRequest, "amount_mismatch", mismatch.Error(), mismatch.Details())
	case errors.Is(err, repository.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
