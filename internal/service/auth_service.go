package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/canvascore/qr_go_server/config"
	"github.com/canvascore/qr_go_server/internal/model"
	"github.com/canvascore/qr_go_server/internal/model/dto"
	"github.com/canvascore/qr_go_server/internal/pkg/jwt"
	"github.com/canvascore/qr_go_server/internal/repository"
	"github.com/canvascore/qr_go_server/internal/store"
)

var (
	ErrUsernameExists     = errors.New("用户名已被使用")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrForbidden          = errors.New("权限不足")
)

// 注册字段校验规则
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// + 国家码（1-4 位）+ 号码（7-15 位）
	mobilePattern = regexp.MustCompile(`^\+\d{1,4}\d{7,15}$`)
)

const minPasswordLength = 6

// ValidationError 字段级校验错误，列出所有不合法的字段
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, field+": "+msg)
	}
	return strings.Join(msgs, "; ")
}

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Register 用户注册
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := validateRegister(req); err != nil {
		return nil, err
	}

	// 唯一性检查为全量等值扫描，存在并发窗口（last-write-wins），属已知限制
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	// 加密密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		ID:               newID("user"),
		Username:         req.Username,
		Name:             req.Name,
		Email:            req.Email,
		MobileNumber:     req.MobileNumber,
		PasswordHash:     string(hashedPassword),
		Role:             model.RoleUser,
		SubscriptionTier: model.TierFree,
		QRCodesGenerated: 0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User:  BuildUserInfo(user),
	}, nil
}

// Login 用户登录。邮箱不存在与密码错误返回同一个错误，避免泄露账号是否存在。
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User:  BuildUserInfo(user),
	}, nil
}

// GetUserByID 根据 ID 获取用户
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Authorize 角色检查，纯断言，无副作用
func (s *AuthService) Authorize(user *model.User, roles ...model.Role) error {
	if user == nil || !user.Role.In(roles...) {
		return ErrForbidden
	}
	return nil
}

// BuildUserInfo 构造对外用户信息（剥离密码散列）
func BuildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:                 user.ID,
		Username:           user.Username,
		Name:               user.Name,
		Email:              user.Email,
		MobileNumber:       user.MobileNumber,
		Role:               string(user.Role),
		SubscriptionTier:   user.SubscriptionTier,
		QRCodesGenerated:   user.QRCodesGenerated,
		SubscriptionActive: user.SubscriptionActive,
	}
	if !user.SubscriptionSince.IsZero() {
		info.SubscriptionSince = user.SubscriptionSince.Format(time.RFC3339)
	}
	if !user.CreatedAt.IsZero() {
		info.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	}
	return info
}

func validateRegister(req *dto.RegisterRequest) error {
	fields := make(map[string]string)

	if !usernamePattern.MatchString(req.Username) {
		fields["username"] = "用户名须为 3-20 位字母、数字或下划线"
	}
	if !emailPattern.MatchString(req.Email) {
		fields["email"] = "邮箱格式不正确"
	}
	if !mobilePattern.MatchString(req.MobileNumber) {
		fields["mobileNumber"] = "手机号须以 + 开头并包含国家码"
	}
	if len(req.Password) < minPasswordLength {
		fields["password"] = "密码至少 6 位"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
