package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type orderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `
	order_id,
	customer_name,
	total_amount,
	status,
	payment_method,
	processed_by,
	created_at,
	paid_at,
	cancelled_at`

// pendingCondition matches every stored spelling of "awaiting settlement",
// including legacy rows with NULL or 'unpaid' statuses.
const pendingCondition = `(status IS NULL OR btrim(lower(status)) IN ('', 'pending', 'unpaid'))`

func (r *orderRepo) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	if order == nil {
		return fmt.Errorf("%w: order cannot be nil", ErrInvalidInput)
	}

	if len(items) == 0 {
		return fmt.Errorf("slice items cannot be empty: %w", ErrInvalidInput)
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive: %w", ErrInvalidInput)
		}
		if item.Price < 0 {
			return fmt.Errorf("price cannot be negative: %w", ErrInvalidInput)
		}
		if item.ProductID <= 0 {
			return fmt.Errorf("product ID cannot be empty: %w", ErrInvalidInput)
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `INSERT INTO orders (
	customer_name,
	total_amount,
	status,
	created_at
	) VALUES ($1, $2, $3, $4)
	RETURNING order_id, created_at
	`

	err = tx.QueryRow(ctx, insert,
		order.CustomerName,
		order.TotalAmount,
		models.StatusPending,
		time.Now(),
	).Scan(&order.OrderID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	order.Status = models.StatusPending

	insertItemSQL := `INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING order_item_id
	`

	for i := range items {
		items[i].OrderID = order.OrderID

		err = tx.QueryRow(ctx, insertItemSQL,
			order.OrderID,
			items[i].ProductID,
			items[i].ProductName,
			items[i].Quantity,
			items[i].Price,
		).Scan(&items[i].OrderItemID)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	order.Items = items
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int) (*models.Order, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	sql := `SELECT` + orderColumns + `
		FROM orders
		WHERE order_id = $1
	`

	order, err := scanOrder(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	return order, nil
}

func (r *orderRepo) GetAllWithItems(ctx context.Context) ([]models.Order, error) {
	sql := `SELECT` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan all orders: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	itemsSQL := `SELECT
		order_item_id,
		order_id,
		product_id,
		product_name,
		quantity,
		price
		FROM order_items
		ORDER BY order_id DESC`

	itemRows, err := r.db.Query(ctx, itemsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	defer itemRows.Close()

	itemsByOrder := make(map[int][]models.OrderItem)

	for itemRows.Next() {
		var it models.OrderItem

		err := itemRows.Scan(&it.OrderItemID,
			&it.OrderID,
			&it.ProductID,
			&it.ProductName,
			&it.Quantity,
			&it.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order items: %w", err)
		}
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it)
	}

	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	for i := range orders {
		items := itemsByOrder[orders[i].OrderID]
		if items == nil {
			items = []models.OrderItem{}
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *orderRepo) MarkPaid(ctx context.Context, id int, paymentMethod, actor string) (*models.Order, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}
	if paymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method required", ErrInvalidInput)
	}

	sql := `UPDATE orders
		SET status = $2,
			payment_method = $3,
			processed_by = $4,
			paid_at = $5
		WHERE order_id = $1 AND ` + pendingCondition + `
		RETURNING` + orderColumns

	order, err := scanOrder(r.db.QueryRow(ctx, sql,
		id, models.StatusPaid, paymentMethod, actor, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMiss(ctx, id)
		}
		return nil, fmt.Errorf("mark order %d paid: %w", id, err)
	}

	return order, nil
}

func (r *orderRepo) MarkCancelled(ctx context.Context, id int, actor string) (*models.Order, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: order ID must be positive", ErrInvalidInput)
	}

	sql := `UPDATE orders
		SET status = $2,
			processed_by = $3,
			cancelled_at = $4
		WHERE order_id = $1 AND ` + pendingCondition + `
		RETURNING` + orderColumns

	order, err := scanOrder(r.db.QueryRow(ctx, sql,
		id, models.StatusCancelled, actor, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMiss(ctx, id)
		}
		return nil, fmt.Errorf("mark order %d cancelled: %w", id, err)
	}

	return order, nil
}

// classifyMiss distinguishes "order does not exist" from "order exists but
// already left the pending state" after a conditional update hit no rows.
func (r *orderRepo) classifyMiss(ctx context.Context, id int) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE order_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check order %d: %w", id, err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrNotPending
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var status pgtype.Text
	var paymentMethod pgtype.Text
	var processedBy pgtype.Text
	var paidAt pgtype.Timestamptz
	var cancelledAt pgtype.Timestamptz

	err := row.Scan(
		&o.OrderID,
		&o.CustomerName,
		&o.TotalAmount,
		&status,
		&paymentMethod,
		&processedBy,
		&o.CreatedAt,
		&paidAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	o.Status = models.NormalizeStatus(status.String)
	if paymentMethod.Valid {
		o.PaymentMethod = &paymentMethod.String
	}
	if processedBy.Valid {
		o.ProcessedBy = &processedBy.String
	}
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	if cancelledAt.Valid {
		o.CancelledAt = &cancelledAt.Time
	}

	return &o, nil
}
