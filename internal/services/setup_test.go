package services

import (
	"testing"

	"github.com/h4ks-com/palay/internal/database"
	"github.com/h4ks-com/palay/internal/models"
	"github.com/h4ks-com/palay/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db               *gorm.DB
	userRepo         *repository.UserRepository
	productRepo      *repository.ProductRepository
	orderRepo        *repository.OrderRepository
	saleRepo         *repository.SaleRepository
	taskRepo         *repository.TaskRepository
	wageRepo         *repository.LaborWageRepository
	expenseRepo      *repository.ExpenseRepository
	notificationRepo *repository.NotificationRepository
	inventoryRepo    *repository.InventoryRepository

	notifications *NotificationService
	accounts      *AccountService
	tokens        *TokenService
	laborers      *LaborerService
	tasks         *TaskService
	products      *ProductService
	orders        *OrderService
	reports       *ReportService
	inventory     *InventoryService
}

func setupTestEnv(t *testing.T) *testEnv {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	err = database.Migrate(db)
	require.NoError(t, err)

	env := &testEnv{
		db:               db,
		userRepo:         repository.NewUserRepository(db),
		productRepo:      repository.NewProductRepository(db),
		orderRepo:        repository.NewOrderRepository(db),
		saleRepo:         repository.NewSaleRepository(db),
		taskRepo:         repository.NewTaskRepository(db),
		wageRepo:         repository.NewLaborWageRepository(db),
		expenseRepo:      repository.NewExpenseRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		inventoryRepo:    repository.NewInventoryRepository(db),
	}
	laborerRepo := repository.NewLaborerRepository(db)
	groupRepo := repository.NewLaborerGroupRepository(db)

	env.notifications = NewNotificationService(env.notificationRepo)
	env.accounts = NewAccountService(env.userRepo)
	env.tokens = NewTokenService(repository.NewTokenRepository(db), env.userRepo, "test-secret")
	env.laborers = NewLaborerService(laborerRepo, groupRepo)
	env.tasks = NewTaskService(env.taskRepo, laborerRepo, groupRepo, env.wageRepo, env.expenseRepo, env.notifications, db)
	env.products = NewProductService(env.productRepo, env.userRepo, db)
	env.orders = NewOrderService(env.orderRepo, env.productRepo, env.saleRepo, env.notifications, db, dec("10"), 30)
	env.reports = NewReportService(env.saleRepo, env.expenseRepo, env.wageRepo)
	env.inventory = NewInventoryService(env.inventoryRepo, env.expenseRepo, env.notifications, db)

	return env
}

func (e *testEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	user := &models.User{Username: username, Name: username, Role: role}
	require.NoError(t, e.userRepo.Create(user))
	return user
}

func (e *testEnv) notificationsOfType(t *testing.T, userID uint, event Event) []models.Notification {
	all, err := e.notificationRepo.ListByUser(userID, false, 100)
	require.NoError(t, err)

	var matched []models.Notification
	for _, n := range all {
		if n.Type == string(event) {
			matched = append(matched, n)
		}
	}
	return matched
}
