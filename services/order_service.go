package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// orderNumberAttempts bounds the optimistic retry loop around tenant-scoped
// order-number allocation.
const orderNumberAttempts = 3

// OrderService reconciles carts into the live order/table model. It is the
// only writer of Order/Table rows besides the dashboard transition path in
// order_transitions.go; every mutation runs inside one store transaction.
type OrderService struct {
	DB          *gorm.DB
	Repo        *repository.OrderRepository
	TableRepo   *repository.TableRepository
	SessionRepo *repository.SessionRepository
	Events      *EventPublisher
	Feed        OrderFeed
	Log         *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	tableRepo *repository.TableRepository,
	sessionRepo *repository.SessionRepository,
	events *EventPublisher,
	feed OrderFeed,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, TableRepo: tableRepo, SessionRepo: sessionRepo,
		Events: events, Feed: feed, Log: log,
	}
}

// Totals derives charge/tax from the tenant's configured percentages of the
// subtotal, rounded to integer currency units.
func Totals(tenant *entity.Tenant, subtotal int64) (serviceCharge, tax, total int64) {
	serviceCharge = int64(math.Round(float64(subtotal) * tenant.ServiceChargePct / 100))
	tax = int64(math.Round(float64(subtotal) * tenant.TaxPct / 100))
	return serviceCharge, tax, subtotal + serviceCharge + tax
}

// retryableConflict marks a unique-constraint collision inside the create
// transaction so the loop can re-run the whole lookup-or-create.
var retryableConflict = errors.New("order number collision")

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "duplicate key")
}

// PlaceOrUpdate merges the cart into the table's open order, or creates a
// new order with a freshly allocated order number. The merge-vs-create
// decision keys strictly on "does a non-terminal order exist for this exact
// table", never on session identity, so two sessions ordering for one table
// share one open tab. An empty cart is a no-op.
//
// When session is non-nil its cart is cleared in the same transaction, so a
// committed order never leaves staged lines behind.
func (s *OrderService) PlaceOrUpdate(
	ctx context.Context,
	tenant *entity.Tenant,
	session *entity.ChatSession,
	tableLabel string,
	cart []entity.CartLine,
	notes string,
) (*entity.Order, error) {
	if len(cart) == 0 {
		return nil, nil
	}

	var out *entity.Order
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			var table *entity.Table
			if tableLabel != "" {
				t, err := s.TableRepo.ByLabel(tx, tenant.ID, tableLabel)
				if err != nil {
					return err
				}
				table = t
			}

			var order *entity.Order
			if table != nil {
				open, err := s.Repo.OpenOrderForTable(tx, tenant.ID, table.ID)
				if err != nil {
					return err
				}
				order = open
			}

			if order != nil {
				if err := s.mergeIntoOrder(tx, tenant, order, cart); err != nil {
					return err
				}
			} else {
				created, err := s.createOrder(tx, tenant, session, table, cart, notes)
				if err != nil {
					return err
				}
				order = created
			}

			if table != nil {
				if err := s.TableRepo.SetStatus(tx, table.ID, entity.TableOccupied); err != nil {
					return err
				}
			}

			if session != nil {
				if err := s.SessionRepo.ClearCart(tx, session.ID); err != nil {
					return err
				}
			}

			out = order
			return nil
		})
		if err == nil {
			s.publish(ctx, out)
			return out, nil
		}
		if errors.Is(err, retryableConflict) {
			s.Log.Warn("order number collision, retrying",
				zap.Uint("tenantId", tenant.ID), zap.Int("attempt", attempt))
			continue
		}
		return nil, err
	}
	return nil, apperr.ErrOrderNumberExhausted
}

// mergeIntoOrder folds cart lines into an existing open order: same-item
// lines add quantities, new items append, totals recompute from the merged
// subtotal. Snapshotted names/prices on existing lines are never touched.
func (s *OrderService) mergeIntoOrder(tx *gorm.DB, tenant *entity.Tenant, order *entity.Order, cart []entity.CartLine) error {
	for _, line := range cart {
		merged := false
		for i := range order.Items {
			if order.Items[i].MenuItemID == line.MenuItemID {
				order.Items[i].Qty += line.Qty
				order.Items[i].LineTotal = order.Items[i].UnitPrice * int64(order.Items[i].Qty)
				if err := s.Repo.SaveOrderItem(tx, &order.Items[i]); err != nil {
					return err
				}
				merged = true
				break
			}
		}
		if merged {
			continue
		}
		item := entity.OrderItem{
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			ItemName:   line.Name,
			UnitPrice:  line.UnitPrice,
			Qty:        line.Qty,
			LineTotal:  line.LineTotal,
		}
		if err := s.Repo.CreateOrderItem(tx, &item); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}

	var subtotal int64
	for _, it := range order.Items {
		subtotal += it.LineTotal
	}
	order.Subtotal = subtotal
	order.ServiceCharge, order.Tax, order.Total = Totals(tenant, subtotal)
	return s.Repo.SaveOrder(tx, order)
}

func (s *OrderService) createOrder(
	tx *gorm.DB,
	tenant *entity.Tenant,
	session *entity.ChatSession,
	table *entity.Table,
	cart []entity.CartLine,
	notes string,
) (*entity.Order, error) {
	number, err := s.Repo.NextOrderNumber(tx, tenant.ID)
	if err != nil {
		return nil, err
	}

	subtotal := CartSubtotal(cart)
	sc, tax, total := Totals(tenant, subtotal)

	order := entity.Order{
		OrderNumber:   number,
		TenantID:      tenant.ID,
		Status:        entity.OrderConfirmed,
		PaymentStatus: entity.PaymentUnpaid,
		Subtotal:      subtotal,
		ServiceCharge: sc,
		Tax:           tax,
		Total:         total,
		Notes:         notes,
	}
	if table != nil {
		order.TableID = &table.ID
	}
	if session != nil {
		order.ChatSessionID = &session.ID
	}

	if err := s.Repo.CreateOrder(tx, &order); err != nil {
		if isUniqueViolation(err) {
			return nil, retryableConflict
		}
		return nil, err
	}

	for _, line := range cart {
		item := entity.OrderItem{
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			ItemName:   line.Name,
			UnitPrice:  line.UnitPrice,
			Qty:        line.Qty,
			LineTotal:  line.LineTotal,
		}
		if err := s.Repo.CreateOrderItem(tx, &item); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	return &order, nil
}

// CancelForTable transitions the table's most recent open order to
// CANCELLED. Any session for the table may cancel its order; session linkage
// is ignored for the lookup and only used as a fallback when no table can be
// resolved.
func (s *OrderService) CancelForTable(ctx context.Context, tenant *entity.Tenant, session *entity.ChatSession, tableRef string) (*entity.Order, error) {
	return s.closeForTable(ctx, tenant, session, tableRef, entity.OrderCancelled)
}

// PayForTable marks the table's most recent open order PAID.
func (s *OrderService) PayForTable(ctx context.Context, tenant *entity.Tenant, session *entity.ChatSession, tableRef string) (*entity.Order, error) {
	return s.closeForTable(ctx, tenant, session, tableRef, entity.OrderPaid)
}

func (s *OrderService) closeForTable(ctx context.Context, tenant *entity.Tenant, session *entity.ChatSession, tableRef, to string) (*entity.Order, error) {
	var out *entity.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.resolveOpenOrder(tx, tenant, session, tableRef)
		if err != nil {
			return err
		}
		if err := s.finalizeTerminal(tx, order, to, terminalOpts{narrate: false}); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, out)
	return out, nil
}

func (s *OrderService) resolveOpenOrder(tx *gorm.DB, tenant *entity.Tenant, session *entity.ChatSession, tableRef string) (*entity.Order, error) {
	label := tableRef
	if label == "" && session != nil {
		label = session.TableLabel
	}
	if label != "" {
		table, err := s.TableRepo.ByLabel(tx, tenant.ID, label)
		if err != nil {
			return nil, err
		}
		order, err := s.Repo.OpenOrderForTable(tx, tenant.ID, table.ID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, apperr.NotFoundf("no open order for table %q", label)
		}
		return order, nil
	}
	if session != nil {
		order, err := s.Repo.OpenOrderForSession(tx, tenant.ID, session.ID)
		if err != nil {
			return nil, err
		}
		if order != nil {
			return order, nil
		}
	}
	return nil, apperr.NotFoundf("no open order to act on")
}

type terminalOpts struct {
	// narrate appends a bot message into the linked session; chat-initiated
	// closes narrate through the turn's own reply instead.
	narrate bool
}

// finalizeTerminal performs the shared consequences of reaching PAID or
// CANCELLED: guarded status flip, payment status, table vacancy check, and
// force-completing the linked chat session. All inside the caller's
// transaction; a failure partway must not leave an occupied table with no
// open order behind it.
func (s *OrderService) finalizeTerminal(tx *gorm.DB, order *entity.Order, to string, opts terminalOpts) error {
	affected, err := s.Repo.UpdateStatusGuard(tx, order.ID, order.Status, to)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.Conflictf("order %d is not %s anymore", order.ID, order.Status)
	}
	order.Status = to

	if to == entity.OrderPaid {
		if err := tx.Model(&entity.Order{}).Where("id = ?", order.ID).
			Update("payment_status", entity.PaymentPaid).Error; err != nil {
			return err
		}
		order.PaymentStatus = entity.PaymentPaid
	}

	if order.TableID != nil {
		open, err := s.Repo.CountOpenForTable(tx, *order.TableID, order.ID)
		if err != nil {
			return err
		}
		if open == 0 {
			if err := s.TableRepo.SetStatus(tx, *order.TableID, entity.TableAvailable); err != nil {
				return err
			}
		}
	}

	if order.ChatSessionID != nil {
		if err := s.completeLinkedSession(tx, *order.ChatSessionID, order, opts.narrate); err != nil {
			return err
		}
	}
	return nil
}

// completeLinkedSession freezes the originating session: COMPLETED state,
// cart force-cleared, optional narration appended. Messages may still be
// appended to a completed session; cart mutations may not.
func (s *OrderService) completeLinkedSession(tx *gorm.DB, sessionID uint, order *entity.Order, narrate bool) error {
	if err := s.SessionRepo.SetState(tx, sessionID, entity.SessionCompleted); err != nil {
		return err
	}
	if err := s.SessionRepo.ClearCart(tx, sessionID); err != nil {
		return err
	}
	if narrate {
		return s.SessionRepo.AppendMessage(tx, &entity.ChatMessage{
			ChatSessionID: sessionID,
			Role:          entity.RoleBot,
			Body:          narrationFor(order),
		})
	}
	return nil
}

func narrationFor(order *entity.Order) string {
	switch order.Status {
	case entity.OrderPaid:
		return fmt.Sprintf("Order #%d has been paid. Thank you for dining with us!", order.OrderNumber)
	case entity.OrderCancelled:
		return fmt.Sprintf("Order #%d has been cancelled.", order.OrderNumber)
	default:
		return fmt.Sprintf("Order #%d is now %s.", order.OrderNumber, order.Status)
	}
}

func (s *OrderService) publish(ctx context.Context, order *entity.Order) {
	if order == nil {
		return
	}
	ev := OrderEvent{
		TenantID:    order.TenantID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		TableID:     order.TableID,
		Total:       order.Total,
		At:          time.Now(),
	}
	s.Events.Publish(ctx, ev)
	if s.Feed != nil {
		s.Feed.Broadcast(order.TenantID, ev)
	}
}
