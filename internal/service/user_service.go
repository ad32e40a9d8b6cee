package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/hash"
	"mall-admin-go/pkg/log"
	"mall-admin-go/pkg/token"
)

// UserService 接口定义了所有与用户认证相关的业务操作。
type UserService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error)
	GetProfile(ctx context.Context, userID uint) (*model.User, error)
	Logout(ctx context.Context, tokenString string) error
	RefreshToken(ctx context.Context, refreshTokenString string) (newAccessToken, newRefreshToken string, err error)
}

// userService 是 UserService 接口的实现。
type userService struct {
	userRepo   repository.UserRepository
	levelRepo  repository.MemberLevelRepository
	blacklist  repository.TokenBlacklist
	jwtManager *token.JWTManager
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo repository.UserRepository, levelRepo repository.MemberLevelRepository, blacklist repository.TokenBlacklist, jwtManager *token.JWTManager) UserService {
	return &userService{
		userRepo:   userRepo,
		levelRepo:  levelRepo,
		blacklist:  blacklist,
		jwtManager: jwtManager,
	}
}

// Register 处理用户注册的业务逻辑。新用户默认启用，并挂到默认会员等级上。
func (s *userService) Register(ctx context.Context, username, password string) (*model.User, error) {
	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	newUser := &model.User{
		Username: username,
		Password: hashedPassword,
		Nickname: username,
		Status:   model.StatusEnabled,
	}
	level, err := s.levelRepo.FindDefault(ctx)
	switch {
	case err == nil:
		newUser.MemberLevelID = &level.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		log.Warnf("[UserService] 查询默认会员等级失败: %v", err)
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

// Login 处理用户登录的业务逻辑。
func (s *userService) Login(ctx context.Context, username, password string) (accessToken, refreshToken string, err error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrInvalidCredential
		}
		return "", "", err
	}

	if !hash.CheckPasswordHash(password, user.Password) {
		return "", "", ErrInvalidCredential
	}
	if user.Status != model.StatusEnabled {
		return "", "", ErrUserDisabled
	}
	return s.issue(user)
}

// GetProfile 根据用户 ID 获取用户详细信息。
func (s *userService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

// Logout 处理用户登出逻辑，将 token 加入 Redis 黑名单，剩余有效期作为过期时间。
func (s *userService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		return err
	}
	return s.blacklist.Add(ctx, tokenString, time.Until(claims.ExpiresAt.Time))
}

// RefreshToken 验证 refresh token 并签发新的 access token 和 refresh token。
// 旧的 refresh token 会被拉黑，不能重复使用。
func (s *userService) RefreshToken(ctx context.Context, refreshTokenString string) (newAccessToken, newRefreshToken string, err error) {
	claims, err := s.jwtManager.VerifyTokenOfType(refreshTokenString, token.TypeRefresh)
	if err != nil {
		return "", "", ErrInvalidCredential
	}
	revoked, err := s.blacklist.Contains(ctx, refreshTokenString)
	if err != nil {
		return "", "", err
	}
	if revoked {
		return "", "", ErrInvalidCredential
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrInvalidCredential
		}
		return "", "", err
	}
	if user.Status != model.StatusEnabled {
		return "", "", ErrUserDisabled
	}

	newAccessToken, newRefreshToken, err = s.issue(user)
	if err != nil {
		return "", "", err
	}
	if err := s.blacklist.Add(ctx, refreshTokenString, time.Until(claims.ExpiresAt.Time)); err != nil {
		log.Warnf("[UserService] 拉黑旧 refresh token 失败: %v", err)
	}
	return newAccessToken, newRefreshToken, nil
}

func (s *userService) issue(user *model.User) (string, string, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.RoleCode())
	if err != nil {
		return "", "", err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Username, user.RoleCode())
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
