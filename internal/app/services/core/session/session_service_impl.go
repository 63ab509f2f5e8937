package session

import (
	"context"
	"errors"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	sessionServiceInstance contracts.SessionService
	onceSessionService     sync.Once
)

type sessionService struct {
	RedisRepository contracts.RedisRepository
	Log             *zap.Logger
}

func NewSessionService(redisRepository contracts.RedisRepository, logger *zap.Logger) contracts.SessionService {
	onceSessionService.Do(func() {
		sessionServiceInstance = &sessionService{
			RedisRepository: redisRepository,
			Log:             logger,
		}
	})
	return sessionServiceInstance
}

// GetSessionData returns the raw session JSON stored by the identity service.
func (svc *sessionService) GetSessionData(ctx context.Context, sessionID string) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	sessionData, err := svc.RedisRepository.Get(ctx, fmt.Sprintf(constvars.SessionKeyFormat, sessionID))
	if err != nil {
		svc.Log.Error("sessionService.GetSessionData error calling RedisRepository.Get",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", err
	}

	if sessionData == "" {
		return "", exceptions.ErrSessionNotFound(nil)
	}
	return sessionData, nil
}

func (svc *sessionService) ParseSessionData(ctx context.Context, sessionData string) (*models.Session, error) {
	if sessionData == "" {
		return nil, exceptions.ErrMissingSessionData(nil)
	}

	session := new(models.Session)
	err := json.Unmarshal([]byte(sessionData), session)
	if err != nil {
		return nil, exceptions.ErrMissingSessionData(err)
	}

	if strings.TrimSpace(session.UserID) == "" || strings.TrimSpace(session.Role) == "" {
		return nil, exceptions.ErrMissingSessionData(errors.New("session without user or role"))
	}

	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		return nil, exceptions.ErrTokenInvalidOrExpired(errors.New("session expired"))
	}

	return session, nil
}
