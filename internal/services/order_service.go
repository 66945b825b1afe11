package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PlaceOrderInput struct {
	ProductID       uint
	Quantity        decimal.Decimal
	PaymentMethod   string
	DeliveryMethod  string
	DeliveryAddress string
	Notes           string
}

type OrderService struct {
	orderRepo         *repository.OrderRepository
	productRepo       *repository.ProductRepository
	saleRepo          *repository.SaleRepository
	notifier          Notifier
	db                *gorm.DB
	lowStockThreshold decimal.Decimal
	autoConfirmAfter  time.Duration
}

func NewOrderService(
	orderRepo *repository.OrderRepository,
	productRepo *repository.ProductRepository,
	saleRepo *repository.SaleRepository,
	notifier Notifier,
	db *gorm.DB,
	lowStockThreshold decimal.Decimal,
	autoConfirmDays int,
) *OrderService {
	return &OrderService{
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		saleRepo:          saleRepo,
		notifier:          notifier,
		db:                db,
		lowStockThreshold: lowStockThreshold,
		autoConfirmAfter:  time.Duration(autoConfirmDays) * 24 * time.Hour,
	}
}

// PlaceOrder reserves stock and records a pending order at the product's
// current price. The stock guard and the order insert share one
// transaction, so a rejected decrement leaves nothing behind.
func (s *OrderService) PlaceOrder(buyerID uint, input PlaceOrderInput) (*models.RiceOrder, error) {
	quantity := input.Quantity.Round(2)
	if !quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	deliveryMethod := input.DeliveryMethod
	if deliveryMethod == "" {
		deliveryMethod = models.DeliveryPickup
	}
	if deliveryMethod != models.DeliveryPickup {
		return nil, newError(KindValidation, "only pickup delivery is supported")
	}

	var order *models.RiceOrder
	var product *models.RiceProduct

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = s.productRepo.FindByIDForUpdate(tx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if !product.IsAvailable {
			return ErrInsufficientStock
		}

		ok, err := s.productRepo.DecrementStockInTx(tx, product.ID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}

		now := time.Now()
		order = &models.RiceOrder{
			ReferenceCode:   uuid.NewString(),
			BuyerID:         buyerID,
			FarmerID:        product.FarmerID,
			RiceProductID:   product.ID,
			Quantity:        quantity,
			UnitPrice:       product.PricePerUnit,
			TotalAmount:     quantity.Mul(product.PricePerUnit).Round(2),
			Status:          models.OrderPending,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   input.PaymentMethod,
			DeliveryMethod:  deliveryMethod,
			DeliveryAddress: input.DeliveryAddress,
			BuyerNotes:      input.Notes,
			OrderDate:       now,
		}
		if err := s.orderRepo.Create(tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		product, err = s.productRepo.FindByIDInTx(tx, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[OrderService] Order %s placed by user %d for %s %s of product %d", order.ReferenceCode, buyerID, quantity.String(), product.Unit, product.ID)

	s.notifier.Publish(EventOrderPlaced, NotificationPayload{
		UserID:     order.FarmerID,
		Title:      "New order received",
		Message:    printer.Sprintf("New order for %s %s of %s, total %s.", formatAmount(quantity), product.Unit, product.Name, formatAmount(order.TotalAmount)),
		Severity:   SeverityInfo,
		EntityType: "order",
		EntityID:   order.ID,
		Link:       orderLink(order.ID),
	})
	s.checkLowStock(product)

	return s.GetOrder(buyerID, order.ID)
}

func (s *OrderService) AcceptOrder(farmerID, orderID uint, expectedDelivery *time.Time, notes string) (*models.RiceOrder, error) {
	return s.transition(farmerID, orderID, orderStep{
		to:        models.OrderAccepted,
		authorize: farmerOf,
		updates: func(order *models.RiceOrder, now time.Time) map[string]interface{} {
			return map[string]interface{}{
				"accepted_at":            now,
				"expected_delivery_date": expectedDelivery,
				"farmer_notes":           notes,
			}
		},
		notify: func(order *models.RiceOrder) {
			s.notifyBuyer(order, EventOrderStatus, "Order accepted", fmt.Sprintf("Your order %s was accepted by the farmer.", order.ReferenceCode))
		},
	})
}

// RejectOrder is a farmer-side cancel limited to orders not yet accepted.
func (s *OrderService) RejectOrder(farmerID, orderID uint, reason string) (*models.RiceOrder, error) {
	if strings.TrimSpace(reason) == "" {
		reason = "Rejected by farmer"
	}
	return s.transition(farmerID, orderID, orderStep{
		to:        models.OrderCancelled,
		from:      []models.OrderStatus{models.OrderPending},
		authorize: farmerOf,
		updates:   cancelUpdates(reason),
		after:     s.restoreStock,
		notify: func(order *models.RiceOrder) {
			s.notifyBuyer(order, EventOrderStatus, "Order rejected", fmt.Sprintf("Your order %s was rejected: %s", order.ReferenceCode, reason))
		},
	})
}

func (s *OrderService) MarkReadyForPickup(farmerID, orderID uint) (*models.RiceOrder, error) {
	return s.transition(farmerID, orderID, orderStep{
		to:        models.OrderReadyForPickup,
		authorize: farmerOf,
		updates: func(order *models.RiceOrder, now time.Time) map[string]interface{} {
			return map[string]interface{}{
				"ready_at":        now,
				"auto_confirm_at": now.Add(s.autoConfirmAfter),
			}
		},
		notify: func(order *models.RiceOrder) {
			s.notifyBuyer(order, EventOrderStatus, "Order ready for pickup", fmt.Sprintf("Your order %s is ready for pickup.", order.ReferenceCode))
		},
	})
}

// ConfirmPickup closes the order and records its sale at the price locked
// when the order was placed.
func (s *OrderService) ConfirmPickup(actorID, orderID uint) (*models.RiceOrder, error) {
	return s.transition(actorID, orderID, orderStep{
		to:        models.OrderPickedUp,
		authorize: participantOf,
		updates: func(order *models.RiceOrder, now time.Time) map[string]interface{} {
			return map[string]interface{}{"picked_up_at": now}
		},
		after: s.recordSale,
		notify: func(order *models.RiceOrder) {
			s.notifyBuyer(order, EventOrderDelivered, "Order picked up", fmt.Sprintf("Your order %s has been picked up. Thank you!", order.ReferenceCode))
			s.notifier.Publish(EventOrderDelivered, NotificationPayload{
				UserID:     order.FarmerID,
				Title:      "Sale recorded",
				Message:    printer.Sprintf("Order %s was picked up. Sale of %s recorded.", order.ReferenceCode, formatAmount(order.TotalAmount)),
				Severity:   SeverityInfo,
				EntityType: "order",
				EntityID:   order.ID,
				Link:       orderLink(order.ID),
			})
		},
	})
}

func (s *OrderService) CancelOrder(actorID, orderID uint, reason string) (*models.RiceOrder, error) {
	return s.transition(actorID, orderID, orderStep{
		to:        models.OrderCancelled,
		authorize: participantOf,
		updates: func(order *models.RiceOrder, now time.Time) map[string]interface{} {
			r := strings.TrimSpace(reason)
			if r == "" {
				if actorID == order.BuyerID {
					r = "Cancelled by buyer"
				} else {
					r = "Cancelled by farmer"
				}
			}
			return cancelUpdates(r)(order, now)
		},
		after: s.restoreStock,
		notify: func(order *models.RiceOrder) {
			recipient := order.FarmerID
			if actorID == order.FarmerID {
				recipient = order.BuyerID
			}
			s.notifier.Publish(EventOrderStatus, NotificationPayload{
				UserID:     recipient,
				Title:      "Order cancelled",
				Message:    printer.Sprintf("Order %s was cancelled.", order.ReferenceCode),
				Severity:   SeverityWarning,
				EntityType: "order",
				EntityID:   order.ID,
				Link:       orderLink(order.ID),
			})
		},
	})
}

// MarkAsPaid records payment. It does not move the order between states.
func (s *OrderService) MarkAsPaid(farmerID, orderID uint) (*models.RiceOrder, error) {
	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := farmerOf(order, farmerID); err != nil {
		return nil, err
	}
	if order.Status == models.OrderCancelled {
		return nil, ErrInvalidTransition
	}

	affected, err := s.orderRepo.MarkPaid(orderID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAlreadyPaid
	}
	return s.findOrder(orderID)
}

func (s *OrderService) GetOrder(actorID, orderID uint) (*models.RiceOrder, error) {
	order, err := s.findOrder(orderID)
	if err != nil {
		return nil, err
	}
	if err := participantOf(order, actorID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListBuyerOrders(buyerID uint, status models.OrderStatus) ([]models.RiceOrder, error) {
	if status != "" && !status.Valid() {
		return nil, newError(KindValidation, fmt.Sprintf("unknown order status %q", status))
	}
	return s.orderRepo.ListByBuyer(buyerID, status)
}

func (s *OrderService) ListFarmerOrders(farmerID uint, status models.OrderStatus) ([]models.RiceOrder, error) {
	if status != "" && !status.Valid() {
		return nil, newError(KindValidation, fmt.Sprintf("unknown order status %q", status))
	}
	return s.orderRepo.ListByFarmer(farmerID, status)
}

type orderStep struct {
	to models.OrderStatus
	// from narrows the statuses this step accepts beyond the transition table.
	from      []models.OrderStatus
	authorize func(order *models.RiceOrder, actorID uint) error
	updates   func(order *models.RiceOrder, now time.Time) map[string]interface{}
	after     func(tx *gorm.DB, order *models.RiceOrder, now time.Time) error
	notify    func(order *models.RiceOrder)
}

// transition runs one state change as a compare-and-swap on the current
// status. Side effects in step.after only run for the request that won.
func (s *OrderService) transition(actorID, orderID uint, step orderStep) (*models.RiceOrder, error) {
	var order *models.RiceOrder

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orderRepo.FindByIDForUpdate(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := step.authorize(order, actorID); err != nil {
			return err
		}

		from := order.Status
		if !from.CanTransitionTo(step.to) || !statusIn(from, step.from) {
			return ErrInvalidTransition
		}

		now := time.Now()
		var updates map[string]interface{}
		if step.updates != nil {
			updates = step.updates(order, now)
		}

		affected, err := s.orderRepo.TransitionInTx(tx, order.ID, from, step.to, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInvalidTransition
		}
		order.Status = step.to

		if step.after != nil {
			return step.after(tx, order, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[OrderService] Order %s moved to %s by user %d", order.ReferenceCode, step.to, actorID)
	if step.notify != nil {
		step.notify(order)
	}

	return s.findOrder(order.ID)
}

func (s *OrderService) restoreStock(tx *gorm.DB, order *models.RiceOrder, now time.Time) error {
	return s.productRepo.RestoreStockInTx(tx, order.RiceProductID, order.Quantity)
}

func (s *OrderService) recordSale(tx *gorm.DB, order *models.RiceOrder, now time.Time) error {
	existing, err := s.saleRepo.CountByOrderInTx(tx, order.ID)
	if err != nil {
		return err
	}
	if existing > 0 {
		return ErrInvalidTransition
	}

	sale := &models.Sale{
		UserID:        order.FarmerID,
		BuyerID:       order.BuyerID,
		RiceOrderID:   order.ID,
		Quantity:      order.Quantity,
		UnitPrice:     order.UnitPrice,
		TotalAmount:   order.TotalAmount,
		SaleDate:      now,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		Notes:         fmt.Sprintf("Marketplace order %s", order.ReferenceCode),
	}
	if err := s.saleRepo.Create(tx, sale); err != nil {
		return fmt.Errorf("failed to record sale: %w", err)
	}
	return nil
}

func (s *OrderService) checkLowStock(product *models.RiceProduct) {
	if product.QuantityAvailable.GreaterThan(s.lowStockThreshold) {
		return
	}

	severity := SeverityWarning
	title := "Low stock"
	if !product.QuantityAvailable.IsPositive() {
		severity = SeverityCritical
		title = "Out of stock"
	}

	s.notifier.Publish(EventLowStock, NotificationPayload{
		UserID:     product.FarmerID,
		Title:      title,
		Message:    printer.Sprintf("%s has %s %s left.", product.Name, formatAmount(product.QuantityAvailable), product.Unit),
		Severity:   severity,
		EntityType: "product",
		EntityID:   product.ID,
		Link:       fmt.Sprintf("/products/%d", product.ID),
	})
}

func (s *OrderService) notifyBuyer(order *models.RiceOrder, event Event, title, message string) {
	s.notifier.Publish(event, NotificationPayload{
		UserID:     order.BuyerID,
		Title:      title,
		Message:    message,
		Severity:   SeverityInfo,
		EntityType: "order",
		EntityID:   order.ID,
		Link:       orderLink(order.ID),
	})
}

func (s *OrderService) findOrder(orderID uint) (*models.RiceOrder, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func cancelUpdates(reason string) func(order *models.RiceOrder, now time.Time) map[string]interface{} {
	return func(order *models.RiceOrder, now time.Time) map[string]interface{} {
		return map[string]interface{}{
			"cancelled_at":  now,
			"cancel_reason": reason,
		}
	}
}

func farmerOf(order *models.RiceOrder, actorID uint) error {
	if order.FarmerID != actorID {
		return ErrNotOwner
	}
	return nil
}

func participantOf(order *models.RiceOrder, actorID uint) error {
	if order.BuyerID != actorID && order.FarmerID != actorID {
		return ErrNotParticipant
	}
	return nil
}

func statusIn(status models.OrderStatus, allowed []models.OrderStatus) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

func orderLink(orderID uint) string {
	return fmt.Sprintf("/orders/%d", orderID)
}
