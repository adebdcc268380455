package services

import (
	"context"

	"backend/entity"
	"backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionService owns chat session lifecycle. A session id arriving via a
// shared link is honored only for the client context that claimed it first;
// anyone else, and anyone presenting a COMPLETED session, gets a fresh one.
type SessionService struct {
	DB    *gorm.DB
	Repo  *repository.SessionRepository
	Guard LinkGuard
	Log   *zap.Logger
}

func NewSessionService(db *gorm.DB, repo *repository.SessionRepository, guard LinkGuard, log *zap.Logger) *SessionService {
	return &SessionService{DB: db, Repo: repo, Guard: guard, Log: log}
}

// Resolve returns the session for this turn: the existing one when the key
// is known, claimable and not completed, otherwise a freshly minted one.
func (s *SessionService) Resolve(ctx context.Context, tenant *entity.Tenant, sessionKey, tableLabel, clientID string) (*entity.ChatSession, error) {
	if sessionKey != "" {
		sess, err := s.Repo.ByKey(tenant.ID, sessionKey)
		if err != nil {
			return nil, err
		}
		if sess != nil && sess.State != entity.SessionCompleted {
			owned, err := s.Guard.Claim(ctx, sessionKey, clientID)
			if err != nil {
				// claim-store trouble should not break ordering; err on the
				// side of minting a fresh session
				s.Log.Warn("link guard unavailable", zap.Error(err))
				owned = false
			}
			if owned {
				if tableLabel != "" && sess.TableLabel != tableLabel {
					sess.TableLabel = tableLabel
					if err := s.Repo.Save(s.DB, sess); err != nil {
						return nil, err
					}
				}
				return sess, nil
			}
		}
	}
	return s.mint(ctx, tenant, tableLabel, clientID)
}

func (s *SessionService) mint(ctx context.Context, tenant *entity.Tenant, tableLabel, clientID string) (*entity.ChatSession, error) {
	sess := &entity.ChatSession{
		SessionKey: uuid.NewString(),
		State:      entity.SessionBrowsing,
		TableLabel: tableLabel,
		TenantID:   tenant.ID,
	}
	if err := s.Repo.Create(sess); err != nil {
		return nil, err
	}
	if _, err := s.Guard.Claim(ctx, sess.SessionKey, clientID); err != nil {
		s.Log.Warn("link guard unavailable", zap.Error(err))
	}
	return sess, nil
}

// NextSessionState is the once-per-turn transition rule, evaluated after all
// actions: COMPLETED wins, then CONFIRMING, then cart-driven ORDERING,
// else BROWSING.
func NextSessionState(completedThisTurn, placedThisTurn bool, cartLen int) string {
	switch {
	case completedThisTurn:
		return entity.SessionCompleted
	case placedThisTurn:
		return entity.SessionConfirming
	case cartLen > 0:
		return entity.SessionOrdering
	default:
		return entity.SessionBrowsing
	}
}
