package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/eshop/internal/domain/member"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// memberRepository 会员仓储实现（MySQL）
// 设计说明：
// 1. 实现domain/member/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误（如邮箱重复），转换为业务错误
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 创建会员仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewMemberRepository(db *gorm.DB) member.Repository {
	return &memberRepository{db: db}
}

// Create 创建会员
// 学习要点：
// 1. 邮箱唯一性由数据库UNIQUE索引保证（而非应用层SELECT再INSERT）
// 2. 捕获MySQL的Duplicate Entry错误，转换为业务错误ErrEmailDuplicate
func (r *memberRepository) Create(ctx context.Context, m *member.Member) error {
	model := toMemberModel(m)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// MySQL错误码1062: Duplicate entry
		if isDuplicateError(err) {
			return member.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建会员失败")
	}

	// 回填自增ID（GORM自动填充）
	m.ID = model.ID
	m.CreatedAt = model.CreatedAt
	m.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找会员
func (r *memberRepository) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	var model MemberModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "查询会员失败")
	}

	return toMemberEntity(&model), nil
}

// FindByEmail 根据邮箱查找会员
// 学习要点：邮箱字段有UNIQUE索引，使用First只取一条
func (r *memberRepository) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	var model MemberModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "查询会员失败")
	}

	return toMemberEntity(&model), nil
}

// Update 更新会员信息
func (r *memberRepository) Update(ctx context.Context, m *member.Member) error {
	model := toMemberModel(m)

	// 使用Save更新所有字段
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新会员失败")
	}

	m.UpdatedAt = model.UpdatedAt
	return nil
}

// =========================================
// 辅助函数：模型转换
// =========================================

// toMemberModel 领域实体 → GORM模型
func toMemberModel(m *member.Member) *MemberModel {
	return &MemberModel{
		ID:            m.ID,
		Email:         m.Email,
		Password:      m.Password,
		Nickname:      m.Nickname,
		AddressCity:   m.Address.City,
		AddressStreet: m.Address.Street,
		AddressZip:    m.Address.Zipcode,
		IsAdmin:       m.IsAdmin,
	}
}

// toMemberEntity GORM模型 → 领域实体
// 说明：这是Repository的重要职责之一，隔离infrastructure层与domain层
func toMemberEntity(model *MemberModel) *member.Member {
	return &member.Member{
		ID:       model.ID,
		Email:    model.Email,
		Password: model.Password,
		Nickname: model.Nickname,
		Address: member.Address{
			City:    model.AddressCity,
			Street:  model.AddressStreet,
			Zipcode: model.AddressZip,
		},
		IsAdmin:   model.IsAdmin,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
