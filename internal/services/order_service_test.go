package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/h4ks-com/palay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type marketplace struct {
	env     *testEnv
	farmer  *models.User
	buyer   *models.User
	product *models.RiceProduct
}

func setupMarketplace(t *testing.T, stock, price string) *marketplace {
	env := setupTestEnv(t)
	farmer := env.createUser(t, "farmer", models.RoleFarmer)
	buyer := env.createUser(t, "buyer", models.RoleBuyer)

	product, err := env.products.CreateProduct(farmer.ID, ProductInput{
		Name:              "Dinorado",
		Unit:              models.UnitKg,
		PricePerUnit:      dec(price),
		QuantityAvailable: dec(stock),
	})
	require.NoError(t, err)

	return &marketplace{env: env, farmer: farmer, buyer: buyer, product: product}
}

func (m *marketplace) place(t *testing.T, quantity string) *models.RiceOrder {
	order, err := m.env.orders.PlaceOrder(m.buyer.ID, PlaceOrderInput{
		ProductID: m.product.ID,
		Quantity:  dec(quantity),
	})
	require.NoError(t, err)
	return order
}

func (m *marketplace) stock(t *testing.T) *models.RiceProduct {
	product, err := m.env.productRepo.FindByID(m.product.ID)
	require.NoError(t, err)
	return product
}

func TestOrderService_PlaceOrderLocksPriceAndDecrementsStock(t *testing.T) {
	m := setupMarketplace(t, "100", "50")

	order := m.place(t, "10")

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, m.farmer.ID, order.FarmerID)
	assert.Equal(t, "50.00", order.UnitPrice.StringFixed(2))
	assert.Equal(t, "500.00", order.TotalAmount.StringFixed(2))
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.DeliveryPickup, order.DeliveryMethod)
	assert.Len(t, order.ReferenceCode, 36)

	assert.Equal(t, "90.00", m.stock(t).QuantityAvailable.StringFixed(2))
	assert.Len(t, m.env.notificationsOfType(t, m.farmer.ID, EventOrderPlaced), 1)
	assert.Empty(t, m.env.notificationsOfType(t, m.farmer.ID, EventLowStock))
}

func TestOrderService_PlaceOrderInsufficientStock(t *testing.T) {
	m := setupMarketplace(t, "100", "50")

	_, err := m.env.orders.PlaceOrder(m.buyer.ID, PlaceOrderInput{ProductID: m.product.ID, Quantity: dec("150")})
	assert.Equal(t, ErrInsufficientStock, err)
	assert.True(t, IsKind(err, KindInsufficientStock))

	assert.Equal(t, "100.00", m.stock(t).QuantityAvailable.StringFixed(2))

	orders, err := m.env.orders.ListBuyerOrders(m.buyer.ID, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_PlaceOrderValidation(t *testing.T) {
	m := setupMarketplace(t, "100", "50")

	_, err := m.env.orders.PlaceOrder(m.buyer.ID, PlaceOrderInput{ProductID: m.product.ID, Quantity: dec("0")})
	assert.Equal(t, ErrInvalidQuantity, err)

	_, err = m.env.orders.PlaceOrder(m.buyer.ID, PlaceOrderInput{ProductID: m.product.ID, Quantity: dec("-3")})
	assert.Equal(t, ErrInvalidQuantity, err)

	_, err = m.env.orders.PlaceOrder(m.buyer.ID, PlaceOrderInput{ProductID: 9999, Quantity: dec("1")})
	assert.Equal(t, ErrProductNotFound, err)

	_, err = m.env.orders.PlaceOrder(m.buyer.ID, PlaceOrderInput{ProductID: m.product.ID, Quantity: dec("1"), DeliveryMethod: "courier"})
	assert.True(t, IsKind(err, KindValidation))
}

func TestOrderService_PlaceOrderRejectsQuantityRoundingToZero(t *testing.T) {
	m := setupMarketplace(t, "10", "50")

	_, err := m.env.orders.PlaceOrder(m.buyer.ID, PlaceOrderInput{ProductID: m.product.ID, Quantity: dec("0.004")})
	assert.Equal(t, ErrInvalidQuantity, err)

	orders, err := m.env.orders.ListBuyerOrders(m.buyer.ID, "")
	require.NoError(t, err)
	assert.Empty(t, orders)

	product, err := m.env.products.GetProduct(m.product.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", product.QuantityAvailable.StringFixed(2))

	order, err := m.env.orders.PlaceOrder(m.buyer.ID, PlaceOrderInput{ProductID: m.product.ID, Quantity: dec("0.005")})
	require.NoError(t, err)
	assert.Equal(t, "0.01", order.Quantity.StringFixed(2))
}

func TestOrderService_ConcurrentPlacementNeverOversells(t *testing.T) {
	m := setupMarketplace(t, "10", "50")

	var placed, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < 25; i++ {
		g.Go(func() error {
			_, err := m.env.orders.PlaceOrder(m.buyer.ID, PlaceOrderInput{ProductID: m.product.ID, Quantity: dec("1")})
			switch err {
			case nil:
				placed.Add(1)
			case ErrInsufficientStock:
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(10), placed.Load())
	assert.Equal(t, int32(15), rejected.Load())

	product := m.stock(t)
	assert.True(t, product.QuantityAvailable.IsZero())
	assert.False(t, product.IsAvailable)
}

func TestOrderService_LowStockAlert(t *testing.T) {
	m := setupMarketplace(t, "15", "50")

	m.place(t, "6")
	alerts := m.env.notificationsOfType(t, m.farmer.ID, EventLowStock)
	require.Len(t, alerts, 1)
	assert.Equal(t, SeverityWarning, alerts[0].Severity)

	m.place(t, "9")
	alerts = m.env.notificationsOfType(t, m.farmer.ID, EventLowStock)
	require.Len(t, alerts, 2)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
	assert.Equal(t, "Out of stock", alerts[0].Title)
	assert.False(t, m.stock(t).IsAvailable)
}

func TestOrderService_FullLifecycleRecordsOneSale(t *testing.T) {
	m := setupMarketplace(t, "100", "50")
	order := m.place(t, "10")

	expected := time.Now().Add(48 * time.Hour)
	accepted, err := m.env.orders.AcceptOrder(m.farmer.ID, order.ID, &expected, "Ready by Friday")
	require.NoError(t, err)
	assert.Equal(t, models.OrderAccepted, accepted.Status)
	assert.NotNil(t, accepted.AcceptedAt)
	assert.NotNil(t, accepted.ExpectedDeliveryDate)
	assert.Equal(t, "Ready by Friday", accepted.FarmerNotes)

	// Price changes after placement must not touch the order.
	_, err = m.env.products.UpdateProduct(m.farmer.ID, m.product.ID, ProductInput{
		Name:         "Dinorado",
		Unit:         models.UnitKg,
		PricePerUnit: dec("80"),
	})
	require.NoError(t, err)

	ready, err := m.env.orders.MarkReadyForPickup(m.farmer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderReadyForPickup, ready.Status)
	require.NotNil(t, ready.ReadyAt)
	require.NotNil(t, ready.AutoConfirmAt)
	assert.WithinDuration(t, ready.ReadyAt.Add(30*24*time.Hour), *ready.AutoConfirmAt, time.Second)

	picked, err := m.env.orders.ConfirmPickup(m.buyer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPickedUp, picked.Status)
	assert.NotNil(t, picked.PickedUpAt)

	sales, err := m.env.saleRepo.FindByOrderID(order.ID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, m.farmer.ID, sales[0].UserID)
	assert.Equal(t, m.buyer.ID, sales[0].BuyerID)
	assert.Equal(t, "10.00", sales[0].Quantity.StringFixed(2))
	assert.Equal(t, "50.00", sales[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "500.00", sales[0].TotalAmount.StringFixed(2))

	assert.Equal(t, "90.00", m.stock(t).QuantityAvailable.StringFixed(2))
	assert.Len(t, m.env.notificationsOfType(t, m.buyer.ID, EventOrderDelivered), 1)
	assert.Len(t, m.env.notificationsOfType(t, m.buyer.ID, EventOrderStatus), 2)
}

func TestOrderService_ConfirmPickupTwiceFails(t *testing.T) {
	m := setupMarketplace(t, "100", "50")
	order := m.place(t, "10")

	_, err := m.env.orders.AcceptOrder(m.farmer.ID, order.ID, nil, "")
	require.NoError(t, err)
	_, err = m.env.orders.MarkReadyForPickup(m.farmer.ID, order.ID)
	require.NoError(t, err)
	_, err = m.env.orders.ConfirmPickup(m.farmer.ID, order.ID)
	require.NoError(t, err)

	_, err = m.env.orders.ConfirmPickup(m.farmer.ID, order.ID)
	assert.Equal(t, ErrInvalidTransition, err)

	sales, err := m.env.saleRepo.FindByOrderID(order.ID)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestOrderService_ConcurrentPickupRecordsOneSale(t *testing.T) {
	m := setupMarketplace(t, "100", "50")
	order := m.place(t, "10")

	_, err := m.env.orders.AcceptOrder(m.farmer.ID, order.ID, nil, "")
	require.NoError(t, err)
	_, err = m.env.orders.MarkReadyForPickup(m.farmer.ID, order.ID)
	require.NoError(t, err)

	var succeeded atomic.Int32
	var g errgroup.Group
	for i := 0; i < 6; i++ {
		g.Go(func() error {
			_, err := m.env.orders.ConfirmPickup(m.buyer.ID, order.ID)
			if err == nil {
				succeeded.Add(1)
				return nil
			}
			if err != ErrInvalidTransition {
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), succeeded.Load())

	sales, err := m.env.saleRepo.FindByOrderID(order.ID)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestOrderService_InvalidTransitions(t *testing.T) {
	m := setupMarketplace(t, "1000", "50")
	orders := m.env.orders
	farmer := m.farmer.ID

	pending := m.place(t, "1")
	_, err := orders.MarkReadyForPickup(farmer, pending.ID)
	assert.Equal(t, ErrInvalidTransition, err)
	_, err = orders.ConfirmPickup(farmer, pending.ID)
	assert.Equal(t, ErrInvalidTransition, err)

	accepted := m.place(t, "1")
	_, err = orders.AcceptOrder(farmer, accepted.ID, nil, "")
	require.NoError(t, err)
	_, err = orders.AcceptOrder(farmer, accepted.ID, nil, "")
	assert.Equal(t, ErrInvalidTransition, err)
	_, err = orders.ConfirmPickup(farmer, accepted.ID)
	assert.Equal(t, ErrInvalidTransition, err)
	_, err = orders.RejectOrder(farmer, accepted.ID, "")
	assert.Equal(t, ErrInvalidTransition, err)

	ready := m.place(t, "1")
	_, err = orders.AcceptOrder(farmer, ready.ID, nil, "")
	require.NoError(t, err)
	_, err = orders.MarkReadyForPickup(farmer, ready.ID)
	require.NoError(t, err)
	_, err = orders.CancelOrder(farmer, ready.ID, "")
	assert.Equal(t, ErrInvalidTransition, err)
	_, err = orders.AcceptOrder(farmer, ready.ID, nil, "")
	assert.Equal(t, ErrInvalidTransition, err)

	_, err = orders.ConfirmPickup(farmer, ready.ID)
	require.NoError(t, err)
	_, err = orders.CancelOrder(farmer, ready.ID, "")
	assert.Equal(t, ErrInvalidTransition, err)
	_, err = orders.MarkReadyForPickup(farmer, ready.ID)
	assert.Equal(t, ErrInvalidTransition, err)

	cancelled := m.place(t, "1")
	_, err = orders.CancelOrder(m.buyer.ID, cancelled.ID, "")
	require.NoError(t, err)
	_, err = orders.AcceptOrder(farmer, cancelled.ID, nil, "")
	assert.Equal(t, ErrInvalidTransition, err)
	_, err = orders.CancelOrder(m.buyer.ID, cancelled.ID, "")
	assert.Equal(t, ErrInvalidTransition, err)
	assert.True(t, IsKind(err, KindInvalidTransition))
}

func TestOrderService_CancelRestoresStock(t *testing.T) {
	m := setupMarketplace(t, "100", "50")
	order := m.place(t, "10")
	assert.Equal(t, "90.00", m.stock(t).QuantityAvailable.StringFixed(2))

	cancelled, err := m.env.orders.CancelOrder(m.buyer.ID, order.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "Cancelled by buyer", cancelled.CancelReason)

	assert.Equal(t, "100.00", m.stock(t).QuantityAvailable.StringFixed(2))
	assert.Len(t, m.env.notificationsOfType(t, m.farmer.ID, EventOrderStatus), 1)
}

func TestOrderService_CancelAcceptedRestoresStockAndAvailability(t *testing.T) {
	m := setupMarketplace(t, "10", "50")
	order := m.place(t, "10")
	assert.False(t, m.stock(t).IsAvailable)

	_, err := m.env.orders.AcceptOrder(m.farmer.ID, order.ID, nil, "")
	require.NoError(t, err)

	cancelled, err := m.env.orders.CancelOrder(m.farmer.ID, order.ID, "Flooded warehouse")
	require.NoError(t, err)
	assert.Equal(t, "Flooded warehouse", cancelled.CancelReason)

	product := m.stock(t)
	assert.Equal(t, "10.00", product.QuantityAvailable.StringFixed(2))
	assert.True(t, product.IsAvailable)
	assert.Len(t, m.env.notificationsOfType(t, m.buyer.ID, EventOrderStatus), 2)
}

func TestOrderService_RejectRestoresStock(t *testing.T) {
	m := setupMarketplace(t, "100", "50")
	order := m.place(t, "25")

	rejected, err := m.env.orders.RejectOrder(m.farmer.ID, order.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, rejected.Status)
	assert.Equal(t, "Rejected by farmer", rejected.CancelReason)
	assert.Equal(t, "100.00", m.stock(t).QuantityAvailable.StringFixed(2))
}

func TestOrderService_Authorization(t *testing.T) {
	m := setupMarketplace(t, "100", "50")
	stranger := m.env.createUser(t, "stranger", models.RoleBuyer)
	order := m.place(t, "5")

	_, err := m.env.orders.AcceptOrder(m.buyer.ID, order.ID, nil, "")
	assert.Equal(t, ErrNotOwner, err)
	assert.True(t, IsKind(err, KindAuthorization))

	_, err = m.env.orders.CancelOrder(stranger.ID, order.ID, "")
	assert.Equal(t, ErrNotParticipant, err)

	_, err = m.env.orders.GetOrder(stranger.ID, order.ID)
	assert.Equal(t, ErrNotParticipant, err)

	_, err = m.env.orders.AcceptOrder(m.farmer.ID, 9999, nil, "")
	assert.Equal(t, ErrOrderNotFound, err)

	stored, err := m.env.orders.GetOrder(m.buyer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, stored.Status)
}

func TestOrderService_MarkAsPaid(t *testing.T) {
	m := setupMarketplace(t, "100", "50")
	order := m.place(t, "5")

	paid, err := m.env.orders.MarkAsPaid(m.farmer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, models.OrderPending, paid.Status)

	_, err = m.env.orders.MarkAsPaid(m.farmer.ID, order.ID)
	assert.Equal(t, ErrAlreadyPaid, err)

	_, err = m.env.orders.MarkAsPaid(m.buyer.ID, order.ID)
	assert.Equal(t, ErrNotOwner, err)
}

func TestOrderService_Listings(t *testing.T) {
	m := setupMarketplace(t, "100", "50")
	first := m.place(t, "1")
	m.place(t, "2")

	_, err := m.env.orders.AcceptOrder(m.farmer.ID, first.ID, nil, "")
	require.NoError(t, err)

	buyerOrders, err := m.env.orders.ListBuyerOrders(m.buyer.ID, "")
	require.NoError(t, err)
	assert.Len(t, buyerOrders, 2)

	accepted, err := m.env.orders.ListFarmerOrders(m.farmer.ID, models.OrderAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, first.ID, accepted[0].ID)

	_, err = m.env.orders.ListFarmerOrders(m.farmer.ID, "shipped")
	assert.True(t, IsKind(err, KindValidation))
}
