package services

import (
	"fmt"
	"testing"

	"backend/entity"
	"backend/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	T      *testing.T
	DB     *gorm.DB
	Tenant *entity.Tenant

	Orders   *OrderService
	Sessions *SessionService
	Chat     *ChatService
	Payments *PaymentService

	OrderRepo   *repository.OrderRepository
	TableRepo   *repository.TableRepository
	SessionRepo *repository.SessionRepository
}

// newTestEnv builds a fully wired service stack on a private in-memory
// database, seeded with one tenant, a small menu and two tables. The oracle
// is absent, so every turn exercises the deterministic extractor.
func newTestEnv(t *testing.T) *testEnv {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.Tenant{}, &entity.User{},
		&entity.Category{}, &entity.MenuItem{},
		&entity.Table{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.Payment{},
		&entity.ChatSession{}, &entity.CartLine{}, &entity.ChatMessage{},
	))

	tenant := &entity.Tenant{
		Slug: "himalayan-bites", Name: "Himalayan Bites", Currency: "NPR",
		ServiceChargePct: 10, TaxPct: 13, Active: true,
	}
	require.NoError(t, db.Create(tenant).Error)

	menu := []entity.MenuItem{
		{Name: "Momo", Price: 150, TenantID: tenant.ID, Available: true},
		{Name: "Chowmein", Price: 120, TenantID: tenant.ID, Available: true},
		{Name: "Masala Tea", Price: 40, TenantID: tenant.ID, Available: true},
	}
	for i := range menu {
		require.NoError(t, db.Create(&menu[i]).Error)
	}

	for _, label := range []string{"T-01", "T-02"} {
		require.NoError(t, db.Create(&entity.Table{
			Label: label, Status: entity.TableAvailable, TenantID: tenant.ID,
		}).Error)
	}

	log := zap.NewNop()
	tenantRepo := repository.NewTenantRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	tableRepo := repository.NewTableRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	orders := NewOrderService(db, orderRepo, tableRepo, sessionRepo, NewEventPublisher(nil, "", log), nil, log)
	sessions := NewSessionService(db, sessionRepo, NewMemoryLinkGuard(), log)
	extractor := NewExtractor(nil, log)
	chat := NewChatService(db, tenantRepo, menuRepo, sessionRepo, sessions, orders, extractor, NewGuardrail(), log)
	payments := NewPaymentService(db, paymentRepo, orders)

	return &testEnv{
		T: t, DB: db, Tenant: tenant,
		Orders: orders, Sessions: sessions, Chat: chat, Payments: payments,
		OrderRepo: orderRepo, TableRepo: tableRepo, SessionRepo: sessionRepo,
	}
}

func (env *testEnv) table(label string) *entity.Table {
	t, err := env.TableRepo.ByLabel(env.DB, env.Tenant.ID, label)
	require.NoError(env.T, err)
	return t
}

func (env *testEnv) menuItems() []entity.MenuItem {
	var items []entity.MenuItem
	require.NoError(env.T, env.DB.Where("tenant_id = ?", env.Tenant.ID).Order("id ASC").Find(&items).Error)
	return items
}

func line(item entity.MenuItem, qty int) entity.CartLine {
	return entity.CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Qty:        qty,
		LineTotal:  item.Price * int64(qty),
	}
}
