package services

import (
	"context"
	"strings"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const historyWindow = 10

// ChatService runs one conversational turn end to end:
// guardrail → persist user message → snapshot menu/cart/order → extract
// actions → reduce cart → reconcile orders → session state → bot reply.
// All state lives in the store; any instance may serve any session.
type ChatService struct {
	DB          *gorm.DB
	Tenants     *repository.TenantRepository
	Menus       *repository.MenuRepository
	SessionRepo *repository.SessionRepository
	Sessions    *SessionService
	Orders      *OrderService
	Extractor   *Extractor
	Guardrail   *Guardrail
	Log         *zap.Logger
}

func NewChatService(
	db *gorm.DB,
	tenants *repository.TenantRepository,
	menus *repository.MenuRepository,
	sessionRepo *repository.SessionRepository,
	sessions *SessionService,
	orders *OrderService,
	extractor *Extractor,
	guardrail *Guardrail,
	log *zap.Logger,
) *ChatService {
	return &ChatService{
		DB: db, Tenants: tenants, Menus: menus,
		SessionRepo: sessionRepo, Sessions: sessions, Orders: orders,
		Extractor: extractor, Guardrail: guardrail, Log: log,
	}
}

type ChatTurnIn struct {
	Message    string `json:"message" binding:"required"`
	SessionKey string `json:"sessionId"`
	TenantSlug string `json:"tenantSlug" binding:"required"`
	TableLabel string `json:"tableLabel"`
	ClientID   string `json:"clientId"`
}

type ChatTurnOut struct {
	SessionKey     string            `json:"sessionId"`
	State          string            `json:"state"`
	Message        string            `json:"message"`
	Cart           []entity.CartLine `json:"cart"`
	OrderPlaced    bool              `json:"orderPlaced"`
	Order          *entity.Order     `json:"orderDetails,omitempty"`
	OpenMenuWizard bool              `json:"openMenuWizard"`
}

func (s *ChatService) HandleTurn(ctx context.Context, in *ChatTurnIn) (*ChatTurnOut, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, apperr.Validationf("message is required")
	}

	tenant, err := s.Tenants.BySlug(in.TenantSlug)
	if err != nil {
		return nil, err
	}
	sess, err := s.Sessions.Resolve(ctx, tenant, in.SessionKey, in.TableLabel, in.ClientID)
	if err != nil {
		return nil, err
	}

	kind, locale := s.Guardrail.Classify(in.Message)
	if sess.Locale != locale {
		sess.Locale = locale
		if err := s.SessionRepo.Save(s.DB, sess); err != nil {
			return nil, err
		}
	}

	// Non-clean turns: both messages persist, nothing else moves.
	if kind != GuardClean {
		reply := GuardrailReply(kind, locale)
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.SessionRepo.AppendMessage(tx, &entity.ChatMessage{
				ChatSessionID: sess.ID, Role: entity.RoleUser, Body: in.Message,
			}); err != nil {
				return err
			}
			return s.SessionRepo.AppendMessage(tx, &entity.ChatMessage{
				ChatSessionID: sess.ID, Role: entity.RoleBot, Body: reply,
				GuardrailKind: kind,
			})
		})
		if err != nil {
			return nil, err
		}
		return &ChatTurnOut{
			SessionKey: sess.SessionKey,
			State:      sess.State,
			Message:    reply,
			Cart:       sess.Cart,
		}, nil
	}

	if err := s.SessionRepo.AppendMessage(s.DB, &entity.ChatMessage{
		ChatSessionID: sess.ID, Role: entity.RoleUser, Body: in.Message,
	}); err != nil {
		return nil, err
	}

	// per-turn read-only snapshots
	menu, err := s.Menus.AvailableItems(tenant.ID)
	if err != nil {
		return nil, err
	}
	history, err := s.SessionRepo.RecentMessages(sess.ID, historyWindow)
	if err != nil {
		return nil, err
	}
	linked, err := s.Orders.Repo.OpenOrderForSession(s.DB, tenant.ID, sess.ID)
	if err != nil {
		return nil, err
	}

	turn := &TurnContext{
		Tenant:     tenant,
		Menu:       menu,
		Cart:       sess.Cart,
		Order:      linked,
		History:    history,
		Message:    in.Message,
		Locale:     locale,
		TableLabel: sess.TableLabel,
	}
	res := s.Extractor.Extract(ctx, turn)

	cart := ReduceCart(menu, sess.Cart, res.Actions)
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.SessionRepo.ReplaceCart(tx, sess.ID, cart)
	}); err != nil {
		return nil, err
	}

	var (
		placed    bool
		completed bool
		order     *entity.Order
	)
	for _, a := range res.Actions {
		switch a.Type {
		case ActionPlaceOrder, ActionUpdateOrder:
			// empty-cart place/update is a quiet no-op
			if len(cart) == 0 {
				continue
			}
			o, err := s.Orders.PlaceOrUpdate(ctx, tenant, sess, s.resolveTableLabel(a, in, sess), cart, "")
			if err != nil {
				return nil, err
			}
			if o != nil {
				placed = true
				order = o
				cart = nil
			}
		case ActionCancelOrder:
			o, err := s.Orders.CancelForTable(ctx, tenant, sess, s.resolveTableLabel(a, in, sess))
			if err != nil {
				return nil, err
			}
			completed = true
			order = o
			cart = nil
		case ActionConfirmPayment:
			o, err := s.Orders.PayForTable(ctx, tenant, sess, s.resolveTableLabel(a, in, sess))
			if err != nil {
				return nil, err
			}
			completed = true
			order = o
			cart = nil
		}
	}

	state := NextSessionState(completed, placed, len(cart))
	reply := res.Reply
	if reply == "" && order != nil {
		reply = narrationFor(order)
	}

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.SessionRepo.SetState(tx, sess.ID, state); err != nil {
			return err
		}
		// a completed session keeps no cart, even when the closed order was
		// placed by a different session on the same table
		if state == entity.SessionCompleted {
			if err := s.SessionRepo.ClearCart(tx, sess.ID); err != nil {
				return err
			}
			cart = nil
		}
		return s.SessionRepo.AppendMessage(tx, &entity.ChatMessage{
			ChatSessionID: sess.ID, Role: entity.RoleBot, Body: reply,
		})
	}); err != nil {
		return nil, err
	}

	return &ChatTurnOut{
		SessionKey:     sess.SessionKey,
		State:          state,
		Message:        reply,
		Cart:           cart,
		OrderPlaced:    placed,
		Order:          order,
		OpenMenuWizard: len(res.Actions) == 0 && WantsMenu(in.Message),
	}, nil
}

// table resolution precedence: action reference, then request label, then
// the label remembered on the session
func (s *ChatService) resolveTableLabel(a Action, in *ChatTurnIn, sess *entity.ChatSession) string {
	if a.TableRef != "" {
		return a.TableRef
	}
	if in.TableLabel != "" {
		return in.TableLabel
	}
	return sess.TableLabel
}

type SessionView struct {
	SessionKey string               `json:"sessionId"`
	State      string               `json:"state"`
	Cart       []entity.CartLine    `json:"cart"`
	Messages   []entity.ChatMessage `json:"messages"`
	Order      *entity.Order        `json:"order,omitempty"`
}

// View is the GET side of the chat endpoint.
func (s *ChatService) View(sessionKey string) (*SessionView, error) {
	sess, err := s.SessionRepo.ByKeyGlobal(sessionKey)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperr.NotFoundf("session %q", sessionKey)
	}
	msgs, err := s.SessionRepo.Messages(sess.ID)
	if err != nil {
		return nil, err
	}
	order, err := s.Orders.Repo.OpenOrderForSession(s.DB, sess.TenantID, sess.ID)
	if err != nil {
		return nil, err
	}
	return &SessionView{
		SessionKey: sess.SessionKey,
		State:      sess.State,
		Cart:       sess.Cart,
		Messages:   msgs,
		Order:      order,
	}, nil
}
