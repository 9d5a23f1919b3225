package service

import (
	"context"
	"testing"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummary(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockOrders := new(MockOrderRepository)
	svc := NewDashboardService(mockProducts, mockOrders, testLog)

	mockProducts.On("GetAll", mock.Anything).
		Return([]models.Product{{ProductID: 1, Name: "Espresso", Price: 50}}, nil)

	mockOrders.On("GetAllWithItems", mock.Anything).Return([]models.Order{
		{OrderID: 5, TotalAmount: 100.50, Status: models.StatusPaid},
		{OrderID: 4, TotalAmount: 49.50, Status: models.StatusPaid},
		{OrderID: 3, TotalAmount: 20.00, Status: "unpaid"},
		{OrderID: 2, TotalAmount: 10.00, Status: ""},
		{OrderID: 1, TotalAmount: 30.00, Status: models.StatusCancelled},
	}, nil)

	data, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 150.00, data.Summary.TotalIncome)
	assert.Equal(t, 2, data.Summary.Pending)
	assert.Equal(t, 1, data.Summary.Cancelled)
	assert.Len(t, data.Products, 1)
	assert.Len(t, data.Orders, 5)
}

func TestDashboardSummary_Empty(t *testing.T) {
	mockProducts := new(MockProductRepository)
	mockOrders := new(MockOrderRepository)
	svc := NewDashboardService(mockProducts, mockOrders, testLog)

	mockProducts.On("GetAll", mock.Anything).Return([]models.Product{}, nil)
	mockOrders.On("GetAllWithItems", mock.Anything).Return([]models.Order{}, nil)

	data, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0.00, data.Summary.TotalIncome)
	assert.Zero(t, data.Summary.Pending)
	assert.Zero(t, data.Summary.Cancelled)
	assert.NotNil(t, data.Products)
	assert.NotNil(t, data.Orders)
}
