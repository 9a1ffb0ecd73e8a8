package member

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// Service 会员领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（如密码加密、验证）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. 认证协议(Token签发、会话)属于接口层,这里只处理业务规则
type Service interface {
	// Register 会员注册
	Register(ctx context.Context, email, password, nickname string, address Address) (*Member, error)

	// Login 会员登录
	Login(ctx context.Context, email, password string) (*Member, error)

	// GetMemberByID 根据ID获取会员
	GetMemberByID(ctx context.Context, id uint) (*Member, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	repo Repository
}

// NewService 创建会员服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 会员注册
// 业务规则：
// 1. 邮箱格式校验
// 2. 密码强度校验（8-20位，包含字母和数字）
// 3. 密码bcrypt加密（cost=12）
// 4. 邮箱唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, email, password, nickname string, address Address) (*Member, error) {
	// 1. 邮箱格式校验
	if !isValidEmail(email) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}

	// 2. 密码强度校验
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	// 3. 昵称校验
	if len(nickname) < 2 || len(nickname) > 50 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "昵称长度应为2-50个字符")
	}

	// 4. 密码加密
	// bcrypt自动加盐,cost=12平衡安全性与性能
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	// 5. 创建会员实体
	m := NewMember(email, string(hashedPassword), nickname, address)

	// 6. 持久化到数据库
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err // Repository已转换为业务错误
	}

	return m, nil
}

// Login 会员登录
func (s *service) Login(ctx context.Context, email, password string) (*Member, error) {
	// 1. 根据邮箱查找会员
	m, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// 2. 验证密码
	if err := s.ValidatePassword(m.Password, password); err != nil {
		return nil, err
	}

	return m, nil
}

// GetMemberByID 根据ID获取会员
func (s *service) GetMemberByID(ctx context.Context, id uint) (*Member, error) {
	return s.repo.FindByID(ctx, id)
}

// ValidatePassword 验证密码
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// isValidEmail 邮箱格式校验
func isValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

// validatePasswordStrength 密码强度校验
// 规则：8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasDigit := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasLetter || !hasDigit {
		return apperrors.ErrWeakPassword
	}

	return nil
}
