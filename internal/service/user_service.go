package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"GreenArmy/internal/model"
	"GreenArmy/internal/pkg"
	"GreenArmy/internal/repository/store"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionStore 登录态登记，nil 表示只校验令牌本身
type SessionStore interface {
	Save(ctx context.Context, userID, token string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

type RegisterCommand struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=191"`
	Password string `validate:"required,min=6,max=72"`
	Phone    string `validate:"omitempty,max=32"`
}

type LoginCommand struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type AuthResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

const (
	TabJoined  = "joined"
	TabCreated = "created"
)

type UserService struct {
	repo     *store.UserRepository
	events   *store.EventRepository
	tokens   *pkg.TokenIssuer
	sessions SessionStore
}

func NewUserService(repo *store.UserRepository, events *store.EventRepository, tokens *pkg.TokenIssuer, sessions SessionStore) *UserService {
	return &UserService{repo: repo, events: events, tokens: tokens, sessions: sessions}
}

// Register 注册后直接返回登录态
func (s *UserService) Register(ctx context.Context, cmd RegisterCommand) (*AuthResult, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = strings.ToLower(strings.TrimSpace(cmd.Email))
	if err := validateCmd(cmd); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, Internal(err)
	}
	user := &model.User{
		Name:     cmd.Name,
		Email:    cmd.Email,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	if phone := strings.TrimSpace(cmd.Phone); phone != "" {
		user.Phone = &phone
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Conflict("email already registered")
		}
		return nil, Internal(err)
	}
	return s.issue(ctx, user)
}

func (s *UserService) Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error) {
	cmd.Email = strings.ToLower(strings.TrimSpace(cmd.Email))
	if err := validateCmd(cmd); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthenticated("invalid email or password")
		}
		return nil, Internal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(cmd.Password)) != nil {
		return nil, Unauthenticated("invalid email or password")
	}
	return s.issue(ctx, user)
}

// Me 当前登录用户资料
func (s *UserService) Me(ctx context.Context, caller model.Caller) (*model.User, error) {
	if caller.IsAnonymous() {
		return nil, Unauthenticated("login required")
	}
	user, err := s.repo.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthenticated("account no longer exists")
		}
		return nil, Internal(err)
	}
	return user, nil
}

func (s *UserService) Logout(ctx context.Context, caller model.Caller) error {
	if caller.IsAnonymous() {
		return Unauthenticated("login required")
	}
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, caller.UserID); err != nil {
		return Internal(err)
	}
	return nil
}

// MyEvents joined 为实际报名的活动，created 为自己组织的活动
func (s *UserService) MyEvents(ctx context.Context, caller model.Caller, tab string) ([]model.EventSummary, error) {
	if caller.IsAnonymous() {
		return nil, Unauthenticated("login required")
	}
	var f store.EventFilter
	switch strings.ToLower(tab) {
	case "", TabJoined:
		f.ParticipantID = caller.UserID
	case TabCreated:
		f.OrganizerID = caller.UserID
	default:
		return nil, InvalidInput("tab must be joined or created")
	}
	list, err := s.events.List(ctx, f)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

func (s *UserService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// issue 签发令牌并登记，新的登录会顶掉旧令牌
func (s *UserService) issue(ctx context.Context, user *model.User) (*AuthResult, error) {
	token, exp, err := s.tokens.Generate(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, Internal(err)
	}
	if s.sessions != nil {
		if err := s.sessions.Save(ctx, user.ID, token, s.tokens.TTL()); err != nil {
			return nil, Internal(err)
		}
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
