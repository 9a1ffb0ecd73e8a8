package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/eshop/internal/domain/item"
	"github.com/xiebiao/eshop/internal/domain/money"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// itemRepository 商品仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/item/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 同一商品的库存变更在这里串行化:
//    下单路径走LockByID+UpdateStock(行锁+条件更新),
//    补货路径走CompareAndSetStock(乐观锁版本列)
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository 创建商品仓储
func NewItemRepository(db *gorm.DB) item.Repository {
	return &itemRepository{db: db}
}

// Create 创建商品
func (r *itemRepository) Create(ctx context.Context, it *item.Item) error {
	model := toItemModel(it)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建商品失败")
	}

	// 回填自增ID
	it.ID = model.ID
	it.CreatedAt = model.CreatedAt
	it.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找商品
func (r *itemRepository) FindByID(ctx context.Context, id uint) (*item.Item, error) {
	var model ItemModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, item.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}

	return toItemEntity(&model), nil
}

// LockByID 悲观锁查询商品(用于下单流程)
// 教学要点:
// 1. SELECT ... FOR UPDATE锁定行,锁在事务COMMIT/ROLLBACK时释放
// 2. 必须通过getDB(ctx)参与事务,否则锁不住
func (r *itemRepository) LockByID(ctx context.Context, id uint) (*item.Item, error) {
	var model ItemModel
	err := getDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, item.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "锁定商品失败")
	}

	return toItemEntity(&model), nil
}

// Update 更新商品信息
func (r *itemRepository) Update(ctx context.Context, it *item.Item) error {
	model := toItemModel(it)

	// 使用Save更新所有字段
	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新商品失败")
	}

	it.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdateStock 原子更新库存(下单/取消路径)
// 教学要点:
// UPDATE items SET stock = stock + delta WHERE id = ? AND stock + delta >= 0
// 条件更新确保任何时刻库存不为负;0行受影响时再查一次区分
// "商品不存在"和"库存不足"两种原因
func (r *itemRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&ItemModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta). // 防止库存为负
		Update("stock", gorm.Expr("stock + ?", delta))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 可能是商品不存在,或者库存不足,再查一次确定原因
		var model ItemModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return item.ErrItemNotFound
			}
			return apperrors.Wrap(err, "查询商品失败")
		}
		// 商品存在,说明是库存不足
		return item.NewInsufficientStockError(id, -delta, model.Stock)
	}

	return nil
}

// CompareAndSetStock 乐观锁更新库存(补货/核销路径)
// 教学要点:
// UPDATE items SET stock = ?, version = version + 1
// WHERE id = ? AND version = ?
// 版本不匹配说明有并发修改,返回ErrStockConflict由调用方重试
func (r *itemRepository) CompareAndSetStock(ctx context.Context, id uint, version int64, newStock int) error {
	db := getDB(ctx, r.db)
	result := db.Model(&ItemModel{}).
		Where("id = ?", id).
		Where("version = ?", version).
		Updates(map[string]interface{}{
			"stock":   newStock,
			"version": gorm.Expr("version + 1"),
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 区分"商品不存在"和"版本冲突"
		var model ItemModel
		if err := db.First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return item.ErrItemNotFound
			}
			return apperrors.Wrap(err, "查询商品失败")
		}
		return item.ErrStockConflict
	}

	return nil
}

// List 分页查询商品列表
func (r *itemRepository) List(ctx context.Context, params item.ListParams) ([]*item.Item, int64, error) {
	var models []ItemModel
	var total int64

	query := r.db.WithContext(ctx).Model(&ItemModel{})

	// 关键词搜索(商品名称)
	if params.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+params.Keyword+"%")
	}

	// 商品类型过滤
	if params.Kind != "" {
		query = query.Where("kind = ?", string(params.Kind))
	}

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品总数失败")
	}

	// 排序
	switch params.SortBy {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	case "created_at_desc":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("created_at DESC") // 默认按创建时间降序
	}

	// 分页
	offset := (params.Page - 1) * params.PageSize
	query = query.Limit(params.PageSize).Offset(offset)

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品列表失败")
	}

	// 转换为领域实体
	items := make([]*item.Item, len(models))
	for i := range models {
		items[i] = toItemEntity(&models[i])
	}

	return items, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toItemModel 领域实体 → GORM模型
func toItemModel(it *item.Item) *ItemModel {
	return &ItemModel{
		ID:       it.ID,
		Name:     it.Name,
		Price:    it.Price.Amount(),
		Stock:    it.Stock,
		Version:  it.Version,
		Kind:     string(it.Kind),
		ISBN:     it.Detail.ISBN,
		Author:   it.Detail.Author,
		Artist:   it.Detail.Artist,
		Director: it.Detail.Director,
	}
}

// toItemEntity GORM模型 → 领域实体
func toItemEntity(model *ItemModel) *item.Item {
	return &item.Item{
		ID:      model.ID,
		Name:    model.Name,
		Price:   money.Money(model.Price),
		Stock:   model.Stock,
		Version: model.Version,
		Kind:    item.Kind(model.Kind),
		Detail: item.Detail{
			ISBN:     model.ISBN,
			Author:   model.Author,
			Artist:   model.Artist,
			Director: model.Director,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
