package repository

import (
	"context"

	"pos-service/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []int) ([]models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByID(ctx context.Context, id int) (*models.Order, error)
	GetAllWithItems(ctx context.Context) ([]models.Order, error)

	// MarkPaid and MarkCancelled update only orders still awaiting
	// settlement and return ErrNotPending otherwise.
	MarkPaid(ctx context.Context, id int, paymentMethod, actor string) (*models.Order, error)
	MarkCancelled(ctx context.Context, id int, actor string) (*models.Order, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsernameAndRole(ctx context.Context, username, role string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
