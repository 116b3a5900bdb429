package service

import (
	"hexaboard_backend/internal/config"
	"hexaboard_backend/internal/model"
	"hexaboard_backend/internal/util"
	"hexaboard_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CredentialStore is the slice of the user store authentication needs.
type CredentialStore interface {
	FindByID(id string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	UpdateLastLogin(userID string) error
}

// LoginRecorder appends the audit trail entry for each successful login;
// satisfied by repository.LoginLogRepository.
type LoginRecorder interface {
	Create(entry *model.LoginLog) error
}

type AuthService struct {
	Users CredentialStore
	Logs  LoginRecorder
	Cfg   *config.Config
}

func NewAuthService(users CredentialStore, logs LoginRecorder, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Logs: logs, Cfg: cfg}
}

// Login verifies credentials and issues a JWT. The login-log append and
// last-login refresh are fire-and-forget; their failure never blocks a
// valid login.
func (s *AuthService) Login(email, password, ip string) (string, *model.User, error) {
	user, err := s.Users.FindByEmail(email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}
	if user.Status == model.StatusDisabled {
		return "", nil, util.ErrAccountDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	go func() {
		if err := s.Logs.Create(&model.LoginLog{
			UserID: user.ID,
			Role:   user.Role,
			IP:     ip,
		}); err != nil {
			logger.Log.Error("failed to write login log",
				zap.String("userId", user.ID), zap.Error(err))
		}
		if err := s.Users.UpdateLastLogin(user.ID); err != nil {
			logger.Log.Error("failed to update last login",
				zap.String("userId", user.ID), zap.Error(err))
		}
	}()

	return token, user, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, err := s.Users.FindByID(claims.UserID)
	if err != nil {
		return nil
	}
	return user
}
