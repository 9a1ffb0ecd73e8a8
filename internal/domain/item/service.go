package item

import (
	"context"

	"github.com/xiebiao/eshop/internal/domain/money"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// Service 商品领域服务接口
// 设计说明:
// 1. 商品目录管理本身不是订单核心,但库存账本需要有商品行可扣,
//    所以保留一个薄的上架/查询服务
// 2. 依赖Repository接口,不依赖具体实现
type Service interface {
	// PublishItem 商品上架
	// 业务规则:
	// - 价格必须在1-99999900分之间
	// - 初始库存必须>=0
	// - 类型专属字段按Kind校验(如图书必须有ISBN)
	PublishItem(ctx context.Context, name string, price money.Money, stock int, kind Kind, detail Detail) (*Item, error)

	// GetItemByID 根据ID获取商品详情
	GetItemByID(ctx context.Context, id uint) (*Item, error)

	// UpdateItemPrice 更新商品价格
	UpdateItemPrice(ctx context.Context, id uint, newPrice money.Money) error

	// ListItems 分页查询商品列表
	ListItems(ctx context.Context, params ListParams) ([]*Item, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建商品领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PublishItem 商品上架
func (s *service) PublishItem(ctx context.Context, name string, price money.Money, stock int, kind Kind, detail Detail) (*Item, error) {
	// 1. 价格范围校验
	if price <= 0 || price > 99999900 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须在0.01-999999元之间")
	}

	// 2. 类型专属字段校验
	if err := validateDetail(kind, detail); err != nil {
		return nil, err
	}

	// 3. 创建实体(工厂方法内完成通用校验)
	it, err := NewItem(name, price, stock, kind, detail)
	if err != nil {
		return nil, err
	}

	// 4. 持久化
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	return it, nil
}

// GetItemByID 根据ID获取商品详情
func (s *service) GetItemByID(ctx context.Context, id uint) (*Item, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateItemPrice 更新商品价格
// 说明:改价只影响后续订单,历史订单保存的是下单时的价格快照
func (s *service) UpdateItemPrice(ctx context.Context, id uint, newPrice money.Money) error {
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := it.UpdatePrice(newPrice); err != nil {
		return err
	}

	return s.repo.Update(ctx, it)
}

// ListItems 分页查询商品列表
func (s *service) ListItems(ctx context.Context, params ListParams) ([]*Item, int64, error) {
	// 分页参数兜底
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 || params.PageSize > 100 {
		params.PageSize = 20
	}
	return s.repo.List(ctx, params)
}

// validateDetail 按商品类型校验专属字段
func validateDetail(kind Kind, detail Detail) error {
	switch kind {
	case KindBook:
		if detail.ISBN == "" {
			return apperrors.New(apperrors.ErrCodeInvalidParams, "图书必须填写ISBN")
		}
	case KindAlbum:
		if detail.Artist == "" {
			return apperrors.New(apperrors.ErrCodeInvalidParams, "唱片必须填写艺术家")
		}
	case KindDvd:
		if detail.Director == "" {
			return apperrors.New(apperrors.ErrCodeInvalidParams, "DVD必须填写导演")
		}
	default:
		return ErrInvalidKind
	}
	return nil
}
