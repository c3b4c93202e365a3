package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"Campus_Portal/internal/model"
	"Campus_Portal/internal/pkg"
	"Campus_Portal/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type UserService struct {
	store    repository.Store
	sessions repository.SessionRepository
	jwt      *pkg.JWTManager
	logger   *logrus.Logger
}

func NewUserService(store repository.Store, sessions repository.SessionRepository, jwt *pkg.JWTManager, logger *logrus.Logger) *UserService {
	return &UserService{store: store, sessions: sessions, jwt: jwt, logger: logger}
}

type AuthResult struct {
	Tokens *pkg.Pair   `json:"tokens"`
	User   *model.User `json:"user"`
}

// Profile 个人主页：加入的社团包含担任负责人的社团
type Profile struct {
	User         *model.User       `json:"user"`
	ClubsJoined  []model.ClubBrief `json:"clubsJoined"`
	ClubsLeading []model.ClubBrief `json:"clubsLeading"`
	Favorites    []model.News      `json:"favorites"`
}

// Register 注册的用户角色固定为 user
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, pkg.ErrInvalidInput.WithMsg("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkg.ErrInvalidInput.WithMsg("invalid email")
	}
	if len(password) < minPasswordLen {
		return nil, pkg.ErrInvalidInput.WithMsg(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	user, err := s.createUser(ctx, name, email, password, model.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, pkg.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	return s.sessions.Delete(ctx, userID)
}

// Refresh 只接受当前登录态中的 refresh，签发后旧的一对失效
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwt.ParseRefresh(refreshToken)
	if err != nil {
		return nil, pkg.ErrInvalidToken
	}
	sess, err := s.sessions.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, pkg.ErrInvalidToken
		}
		return nil, err
	}
	if sess.RefreshToken != refreshToken {
		return nil, pkg.ErrInvalidToken
	}
	user, err := s.store.Users().FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, pkg.ErrInvalidToken
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return s.issue(ctx, user)
}

func (s *UserService) Me(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, pkg.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *UserService) Profile(ctx context.Context, userID uint64) (*Profile, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	joined, err := s.store.Clubs().ListByMember(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("list joined clubs: %w", err)
	}
	leading, err := s.store.Clubs().ListByMember(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("list leading clubs: %w", err)
	}
	favorites, err := listFavorites(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User:         user,
		ClubsJoined:  clubBriefs(joined),
		ClubsLeading: clubBriefs(leading),
		Favorites:    favorites,
	}, nil
}

// EnsureAdmin 启动时创建管理员账号，已存在则跳过
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		s.logger.Info("admin seed skipped: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}
	existing, err := s.store.Users().FindByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin() {
			s.logger.WithField("email", email).Warn("admin seed email belongs to a non-admin user")
		}
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("find admin: %w", err)
	}
	if _, err := s.createUser(ctx, name, email, password, model.RoleAdmin); err != nil {
		if errors.Is(err, pkg.ErrEmailTaken) {
			return nil
		}
		return err
	}
	s.logger.WithField("email", email).Info("admin account created")
	return nil
}

func (s *UserService) createUser(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, pkg.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// issue 签发 token 并覆盖 redis 中的登录态
func (s *UserService) issue(ctx context.Context, user *model.User) (*AuthResult, error) {
	pair, err := s.jwt.GeneratePair(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, user.ID, repository.Session{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, pkg.RefreshTTL); err != nil {
		return nil, err
	}
	return &AuthResult{Tokens: pair, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func clubBriefs(clubs []model.Club) []model.ClubBrief {
	out := make([]model.ClubBrief, 0, len(clubs))
	for i := range clubs {
		out = append(out, clubs[i].Brief())
	}
	return out
}
