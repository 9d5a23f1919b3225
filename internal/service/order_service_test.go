package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"pos-service/internal/logger"
	"pos-service/internal/models"
	"pos-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testLog = logger.NewLogger("test")

func newOrderService() (*OrderService, *MockProductRepository, *MockOrderRepository) {
	mockProducts := new(MockProductRepository)
	mockOrders := new(MockOrderRepository)
	return NewOrderService(mockProducts, mockOrders, testLog), mockProducts, mockOrders
}

func TestCreateOrder_ComputesTotalAndSnapshots(t *testing.T) {
	svc, mockProducts, mockOrders := newOrderService()
	ctx := context.Background()

	mockProducts.On("GetByIDs", mock.Anything, []int{1}).
		Return([]models.Product{{ProductID: 1, Name: "Espresso", Price: 50.00}}, nil)

	mockOrders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*models.Order"), mock.AnythingOfType("[]models.OrderItem")).
		Return(nil).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*models.Order)
			order.OrderID = 7
		})

	order, err := svc.Create(ctx, "Alice", []models.OrderLine{{ProductID: 1, Quantity: 2}})

	require.NoError(t, err)
	assert.Equal(t, 7, order.OrderID)
	assert.Equal(t, 100.00, order.TotalAmount)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "Alice", order.CustomerName)

	items := mockOrders.Calls[0].Arguments.Get(2).([]models.OrderItem)
	require.Len(t, items, 1)
	assert.Equal(t, "Espresso", items[0].ProductName)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 50.00, items[0].Price)

	mockProducts.AssertExpectations(t)
	mockOrders.AssertExpectations(t)
}

func TestCreateOrder_EmptyLines(t *testing.T) {
	svc, mockProducts, mockOrders := newOrderService()

	order, err := svc.Create(context.Background(), "Alice", nil)

	assert.ErrorIs(t, err, ErrNoProducts)
	assert.Nil(t, order)
	mockProducts.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	mockOrders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	svc, mockProducts, mockOrders := newOrderService()

	mockProducts.On("GetByIDs", mock.Anything, []int{1, 99}).
		Return([]models.Product{{ProductID: 1, Name: "Espresso", Price: 50.00}}, nil)

	order, err := svc.Create(context.Background(), "", []models.OrderLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	})

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 99, notFound.ProductID)
	assert.Nil(t, order)
	mockOrders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrder_NoMatchingProducts(t *testing.T) {
	svc, mockProducts, _ := newOrderService()

	mockProducts.On("GetByIDs", mock.Anything, []int{5}).
		Return([]models.Product{}, nil)

	_, err := svc.Create(context.Background(), "", []models.OrderLine{{ProductID: 5, Quantity: 1}})

	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestCreateOrder_InvalidQuantity(t *testing.T) {
	svc, mockProducts, _ := newOrderService()

	_, err := svc.Create(context.Background(), "", []models.OrderLine{{ProductID: 1, Quantity: 0}})

	assert.ErrorIs(t, err, repository.ErrInvalidInput)
	mockProducts.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestCreateOrder_DefaultCustomerName(t *testing.T) {
	svc, mockProducts, mockOrders := newOrderService()

	mockProducts.On("GetByIDs", mock.Anything, []int{1}).
		Return([]models.Product{{ProductID: 1, Name: "Espresso", Price: 2.50}}, nil)
	mockOrders.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	order, err := svc.Create(context.Background(), "   ", []models.OrderLine{{ProductID: 1, Quantity: 1}})

	require.NoError(t, err)
	assert.Equal(t, DefaultCustomerName, order.CustomerName)
}

func TestCreateOrder_DecimalTotals(t *testing.T) {
	svc, mockProducts, mockOrders := newOrderService()

	// 0.1 * 3 drifts under plain float64 arithmetic.
	mockProducts.On("GetByIDs", mock.Anything, []int{1}).
		Return([]models.Product{{ProductID: 1, Name: "Candy", Price: 0.10}}, nil)
	mockOrders.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	order, err := svc.Create(context.Background(), "", []models.OrderLine{{ProductID: 1, Quantity: 3}})

	require.NoError(t, err)
	assert.Equal(t, 0.30, order.TotalAmount)
}

func pendingOrder(id int, total float64) *models.Order {
	return &models.Order{OrderID: id, TotalAmount: total, Status: models.StatusPending}
}

func TestSettle_ExactAmount(t *testing.T) {
	svc, _, mockOrders := newOrderService()
	ctx := context.Background()

	paid := &models.Order{OrderID: 1, TotalAmount: 100.00, Status: models.StatusPaid}

	mockOrders.On("GetByID", mock.Anything, 1).Return(pendingOrder(1, 100.00), nil)
	mockOrders.On("MarkPaid", mock.Anything, 1, "Cash", "alice").Return(paid, nil)

	order, err := svc.Settle(ctx, 1, 100.00, "Cash", "alice")

	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, order.Status)
	mockOrders.AssertExpectations(t)
}

func TestSettle_AmountMismatch(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	mockOrders.On("GetByID", mock.Anything, 1).Return(pendingOrder(1, 100.00), nil)

	_, err := svc.Settle(context.Background(), 1, 99.99, "Cash", "alice")

	var mismatch *AmountMismatchError
	require.ErrorAs(t, err, &mismatch)

	details := mismatch.Details()
	assert.Equal(t, 100.00, details["required_amount"])
	assert.Equal(t, 99.99, details["provided_amount"])
	assert.Equal(t, 0.01, details["difference"])

	mockOrders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettle_Overpayment(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	mockOrders.On("GetByID", mock.Anything, 1).Return(pendingOrder(1, 100.00), nil)

	_, err := svc.Settle(context.Background(), 1, 100.01, "Cash", "alice")

	var mismatch *AmountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 0.01, mismatch.Details()["difference"])
}

func TestSettle_InvalidAmounts(t *testing.T) {
	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		svc, _, mockOrders := newOrderService()
		mockOrders.On("GetByID", mock.Anything, 1).Return(pendingOrder(1, 100.00), nil)

		_, err := svc.Settle(context.Background(), 1, amount, "Cash", "alice")

		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", amount)
	}
}

func TestSettle_AlreadyPaid(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	mockOrders.On("GetByID", mock.Anything, 1).
		Return(&models.Order{OrderID: 1, TotalAmount: 100, Status: models.StatusPaid}, nil)

	_, err := svc.Settle(context.Background(), 1, 100.00, "Cash", "alice")

	assert.ErrorIs(t, err, ErrAlreadyPaid)
	mockOrders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettle_Cancelled(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	mockOrders.On("GetByID", mock.Anything, 1).
		Return(&models.Order{OrderID: 1, TotalAmount: 100, Status: models.StatusCancelled}, nil)

	_, err := svc.Settle(context.Background(), 1, 100.00, "Cash", "alice")

	assert.ErrorIs(t, err, ErrOrderCancelled)
}

func TestSettle_LegacyUnpaidStatusIsSettleable(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	paid := &models.Order{OrderID: 1, TotalAmount: 100.00, Status: models.StatusPaid}
	mockOrders.On("GetByID", mock.Anything, 1).
		Return(&models.Order{OrderID: 1, TotalAmount: 100, Status: "unpaid"}, nil)
	mockOrders.On("MarkPaid", mock.Anything, 1, "Card", "bob").Return(paid, nil)

	order, err := svc.Settle(context.Background(), 1, 100.00, "Card", "bob")

	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, order.Status)
}

func TestSettle_NotFound(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	mockOrders.On("GetByID", mock.Anything, 42).Return(nil, repository.ErrNotFound)

	_, err := svc.Settle(context.Background(), 42, 10.00, "Cash", "alice")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSettle_MissingPaymentMethod(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	_, err := svc.Settle(context.Background(), 1, 100.00, "  ", "alice")

	assert.ErrorIs(t, err, repository.ErrInvalidInput)
	mockOrders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSettle_LostRaceReportsFinalState(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	// Pending at read time, but a concurrent request settles it before the
	// conditional update lands.
	mockOrders.On("GetByID", mock.Anything, 1).
		Return(pendingOrder(1, 100.00), nil).Once()
	mockOrders.On("MarkPaid", mock.Anything, 1, "Cash", "alice").
		Return(nil, repository.ErrNotPending)
	mockOrders.On("GetByID", mock.Anything, 1).
		Return(&models.Order{OrderID: 1, TotalAmount: 100, Status: models.StatusPaid}, nil)

	_, err := svc.Settle(context.Background(), 1, 100.00, "Cash", "alice")

	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestCancel_Pending(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	cancelled := &models.Order{OrderID: 1, Status: models.StatusCancelled}
	mockOrders.On("GetByID", mock.Anything, 1).Return(pendingOrder(1, 50.00), nil)
	mockOrders.On("MarkCancelled", mock.Anything, 1, "alice").Return(cancelled, nil)

	order, err := svc.Cancel(context.Background(), 1, "alice")

	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, order.Status)
}

func TestCancel_PaidOrder(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	mockOrders.On("GetByID", mock.Anything, 1).
		Return(&models.Order{OrderID: 1, Status: models.StatusPaid}, nil)

	_, err := svc.Cancel(context.Background(), 1, "alice")

	assert.ErrorIs(t, err, ErrPaidNotCancellable)
	mockOrders.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	mockOrders.On("GetByID", mock.Anything, 1).
		Return(&models.Order{OrderID: 1, Status: models.StatusCancelled}, nil)

	_, err := svc.Cancel(context.Background(), 1, "alice")

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_NotFound(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	mockOrders.On("GetByID", mock.Anything, 9).Return(nil, repository.ErrNotFound)

	_, err := svc.Cancel(context.Background(), 9, "alice")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestList_PassesThrough(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	stored := []models.Order{
		{OrderID: 2, Status: models.StatusPending},
		{OrderID: 1, Status: models.StatusPaid},
	}
	mockOrders.On("GetAllWithItems", mock.Anything).Return(stored, nil)

	orders, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, stored, orders)
}

func TestList_RepositoryError(t *testing.T) {
	svc, _, mockOrders := newOrderService()

	mockOrders.On("GetAllWithItems", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.List(context.Background())

	assert.Error(t, err)
}
