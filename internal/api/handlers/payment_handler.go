package handlers

import (
	"net/http"

	"pos-service/internal/auth"
	"pos-service/internal/models"
)

// PaymentHandler settles and cancels orders. The acting party stamped on
// the order comes from the verified session, never from the request body.
type PaymentHandler struct {
	orders OrderManager
}

func NewPaymentHandler(orders OrderManager) *PaymentHandler {
	return &PaymentHandler{orders: orders}
}

type PaymentRequest struct {
	OrderID       int     `json:"order_id"`
	AmountPaid    float64 `json:"amount_paid"`
	PaymentMethod string  `json:"payment_method"`
}

type CancelRequest struct {
	OrderID int `json:"order_id"`
}

func (h *PaymentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
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

func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if req.OrderID == 0 || req.AmountPaid == 0 || req.PaymentMethod == "" {
		writeError(w, http.StatusBadRequest, "invalid_input", "Order ID, amount paid and payment method are required.", nil)
		return
	}

	order, err := h.orders.Settle(r.Context(), req.OrderID, req.AmountPaid, req.PaymentMethod, actorFrom(r))
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Payment recorded successfully.",
		"order":   order,
	})
}

func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	if req.OrderID == 0 {
		writeError(w, http.StatusBadRequest, "invalid_input", "Order ID is required.", nil)
		return
	}

	order, err := h.orders.Cancel(r.Context(), req.OrderID, actorFrom(r))
	if err != nil {
		writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order cancelled successfully.",
		"order":   order,
	})
}

func actorFrom(r *http.Request) string {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		return claims.Username
	}
	return ""
}
