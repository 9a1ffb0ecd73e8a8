package member

import (
	"context"

	"github.com/xiebiao/eshop/internal/domain/member"
)

// RegisterUseCase 会员注册用例
// 设计说明：
// 1. Application层负责用例编排，协调多个领域服务
// 2. 当前注册用例比较简单，只调用一个领域服务
// 3. 未来可能扩展：发送欢迎邮件、记录审计日志、触发事件等
type RegisterUseCase struct {
	memberService member.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(memberService member.Service) *RegisterUseCase {
	return &RegisterUseCase{
		memberService: memberService,
	}
}

// Execute 执行注册
// 返回：RegisterResponse（应用层DTO，不是领域实体）
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	// 1. 调用领域服务执行注册
	m, err := uc.memberService.Register(ctx, req.Email, req.Password, req.Nickname, member.Address{
		City:    req.City,
		Street:  req.Street,
		Zipcode: req.Zipcode,
	})
	if err != nil {
		return nil, err
	}

	// 2. 领域实体 → 应用层DTO
	// 说明：不直接返回领域实体，领域模型变更不影响API契约
	return &RegisterResponse{
		ID:       m.ID,
		Email:    m.Email,
		Nickname: m.Nickname,
	}, nil
}

// =========================================
// 应用层DTO（数据传输对象）
// =========================================

// RegisterRequest 注册请求
// 地址字段可选,留空时下单必须显式指定收货地址
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
	City     string
	Street   string
	Zipcode  string
}

// RegisterResponse 注册响应
// 说明：不返回密码字段（安全考虑）
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}
