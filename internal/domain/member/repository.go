package member

import (
	"context"
)

// Repository 会员仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 订单核心只通过FindByID消费会员信息,不反向持有会员对象引用
type Repository interface {
	// Create 创建会员
	// 注意：如果邮箱已存在，应返回ErrEmailDuplicate
	Create(ctx context.Context, member *Member) error

	// FindByID 根据ID查找会员
	// 如果不存在，返回ErrMemberNotFound
	FindByID(ctx context.Context, id uint) (*Member, error)

	// FindByEmail 根据邮箱查找会员
	FindByEmail(ctx context.Context, email string) (*Member, error)

	// Update 更新会员信息
	Update(ctx context.Context, member *Member) error
}
