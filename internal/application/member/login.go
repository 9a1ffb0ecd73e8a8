package member

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/eshop/internal/domain/member"
	"github.com/xiebiao/eshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/eshop/pkg/jwt"
)

// LoginUseCase 会员登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token对（Claims携带会员ID与管理员标记）
// 3. 保存会话到Redis
type LoginUseCase struct {
	memberService member.Service
	jwtManager    *jwt.Manager
	sessionStore  *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	memberService member.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		memberService: memberService,
		jwtManager:    jwtManager,
		sessionStore:  sessionStore,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	m, err := uc.memberService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对
	// 管理员标记进入Claims,取消他人订单等管理操作据此授权
	tokenPair, err := uc.jwtManager.GenerateToken(m.ID, m.Email, m.IsAdmin)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis
	sessionData := map[string]interface{}{
		"member_id": m.ID,
		"email":     m.Email,
		"nickname":  m.Nickname,
		"is_admin":  m.IsAdmin,
		"login_at":  time.Now().Unix(),
	}

	// 会话有效期 = Refresh Token有效期
	if err := uc.sessionStore.SaveSession(ctx, m.ID, sessionData, 7*24*time.Hour); err != nil {
		// 会话保存失败不影响登录
		log.Printf("保存会话失败: member_id=%d, err=%v", m.ID, err)
	}

	// 4. 返回登录响应
	return &LoginResponse{
		Member: MemberInfo{
			ID:       m.ID,
			Email:    m.Email,
			Nickname: m.Nickname,
			IsAdmin:  m.IsAdmin,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 会员登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, memberID uint, accessToken string) error {
	// 1. 删除会话
	if err := uc.sessionStore.DeleteSession(ctx, memberID); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单（防止Token在过期前继续使用）
	if err := uc.sessionStore.AddToBlacklist(ctx, accessToken, 2*time.Hour); err != nil {
		return err
	}

	return nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Member       MemberInfo `json:"member"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"` // Access Token过期时间（秒）
}

// MemberInfo 会员信息
type MemberInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	IsAdmin  bool   `json:"is_admin"`
}
