package services

import (
	"log"
	"strings"
	"time"

	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Event string

const (
	EventOrderPlaced    Event = "order_placed"
	EventOrderStatus    Event = "order_status"
	EventOrderDelivered Event = "order_delivered"
	EventLowStock       Event = "low_stock"
	EventTaskCompleted  Event = "task_completed"
	EventWeatherAlert   Event = "weather_alert"
)

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

type NotificationPayload struct {
	UserID     uint
	Title      string
	Message    string
	Severity   string
	EntityType string
	EntityID   uint
	Link       string
}

// Notifier delivers domain events to users. Implementations must not fail
// the caller; delivery problems are theirs to log.
type Notifier interface {
	Publish(event Event, payload NotificationPayload)
}

var printer = message.NewPrinter(language.English)

// formatAmount renders money and quantities for notification text with
// two decimals and thousands separators, working on the decimal string so
// no digits are lost.
func formatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
}

func NewNotificationService(notificationRepo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) Publish(event Event, payload NotificationPayload) {
	if payload.UserID == 0 {
		log.Printf("[Notifier] Dropping %s event without recipient", event)
		return
	}

	severity := payload.Severity
	if severity == "" {
		severity = SeverityInfo
	}

	notification := &models.Notification{
		UserID:     payload.UserID,
		Type:       string(event),
		Title:      payload.Title,
		Message:    payload.Message,
		Severity:   severity,
		EntityType: payload.EntityType,
		EntityID:   payload.EntityID,
		Link:       payload.Link,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		log.Printf("[Notifier] Failed to store %s notification for user %d: %v", event, payload.UserID, err)
	}
}

func (s *NotificationService) List(userID uint, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notificationRepo.ListByUser(userID, unreadOnly, limit)
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	affected, err := s.notificationRepo.MarkRead(notificationID, userID, time.Now())
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	return s.notificationRepo.MarkAllRead(userID, time.Now())
}
