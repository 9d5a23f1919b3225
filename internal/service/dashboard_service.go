package service

import (
	"context"
	"fmt"

	"pos-service/internal/logger"
	"pos-service/internal/models"
	"pos-service/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardData is the combined read model behind the admin dashboard.
type DashboardData struct {
	Products []models.Product `json:"products"`
	Orders   []models.Order   `json:"orders"`
	Summary  models.Summary   `json:"summary"`
}

// DashboardService folds catalog and order data into summary figures. No
// caching; every call recomputes from full scans.
type DashboardService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	mylog    *logger.Logger
}

func NewDashboardService(products repository.ProductRepository, orders repository.OrderRepository, mylog *logger.Logger) *DashboardService {
	return &DashboardService{
		products: products,
		orders:   orders,
		mylog:    mylog,
	}
}

func (s *DashboardService) Summary(ctx context.Context) (*DashboardData, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		s.mylog.Error("", "dashboard_failed", "Failed to load products", err)
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	orders, err := s.orders.GetAllWithItems(ctx)
	if err != nil {
		s.mylog.Error("", "dashboard_failed", "Failed to load orders", err)
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	income := decimal.Zero
	var pending, cancelled int

	for _, order := range orders {
		switch models.NormalizeStatus(order.Status) {
		case models.StatusPaid:
			income = income.Add(decimal.NewFromFloat(order.TotalAmount))
		case models.StatusPending:
			pending++
		case models.StatusCancelled:
			cancelled++
		}
	}

	if products == nil {
		products = []models.Product{}
	}
	if orders == nil {
		orders = []models.Order{}
	}

	return &DashboardData{
		Products: products,
		Orders:   orders,
		Summary: models.Summary{
			TotalIncome: income.Round(2).InexactFloat64(),
			Pending:     pending,
			Cancelled:   cancelled,
		},
	}, nil
}
