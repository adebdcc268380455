package services

import (
	"context"

	"backend/entity"
	"backend/pkg/apperr"

	"gorm.io/gorm"
)

// Dashboard-driven status walk: CONFIRMED → PREPARING → READY →
// OUT_FOR_DELIVERY → PAID, with CANCELLED reachable from any non-terminal
// state. PAID and CANCELLED are terminal.
var statusPredecessor = map[string]string{
	entity.OrderPreparing:      entity.OrderConfirmed,
	entity.OrderReady:          entity.OrderPreparing,
	entity.OrderOutForDelivery: entity.OrderReady,
	entity.OrderPaid:           entity.OrderOutForDelivery,
}

// UpdateStatus drives one dashboard transition. Terminal targets trigger the
// full close-out (table vacancy, linked session force-complete); any change
// on a chat-linked order pushes a narration message back into the session.
func (s *OrderService) UpdateStatus(ctx context.Context, tenant *entity.Tenant, orderID uint, to string) (*entity.Order, error) {
	var out *entity.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.Repo.GetOrderTx(tx, tenant.ID, orderID)
		if err != nil {
			return err
		}
		if entity.OrderTerminal(order.Status) {
			return apperr.Conflictf("order %d is %s and cannot change", orderID, order.Status)
		}

		switch to {
		case entity.OrderCancelled, entity.OrderPaid:
			if to == entity.OrderPaid && statusPredecessor[to] != order.Status {
				return apperr.Conflictf("cannot move order %d from %s to %s", orderID, order.Status, to)
			}
			if err := s.finalizeTerminal(tx, order, to, terminalOpts{narrate: true}); err != nil {
				return err
			}
		case entity.OrderPreparing, entity.OrderReady, entity.OrderOutForDelivery:
			if statusPredecessor[to] != order.Status {
				return apperr.Conflictf("cannot move order %d from %s to %s", orderID, order.Status, to)
			}
			affected, err := s.Repo.UpdateStatusGuard(tx, order.ID, order.Status, to)
			if err != nil {
				return err
			}
			if affected == 0 {
				return apperr.Conflictf("order %d changed concurrently", orderID)
			}
			order.Status = to
			if order.ChatSessionID != nil {
				if err := s.SessionRepo.AppendMessage(tx, &entity.ChatMessage{
					ChatSessionID: *order.ChatSessionID,
					Role:          entity.RoleBot,
					Body:          narrationFor(order),
				}); err != nil {
					return err
				}
			}
		default:
			return apperr.Validationf("unknown status %q", to)
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
