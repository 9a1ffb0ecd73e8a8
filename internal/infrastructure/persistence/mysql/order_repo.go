package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/eshop/internal/domain/money"
	"github.com/xiebiao/eshop/internal/domain/order"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 教学要点:
// 1. Order、OrderItem、Delivery是聚合关系,必须一起保存
// 2. 详情查询使用Preload预加载明细与配送,避免N+1问题;
//    只需状态判断的场景走FindSummaryByID,不做JOIN
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单
// 教学要点:
// 1. GORM会自动保存关联的Items和Delivery(通过foreignKey)
// 2. 必须在事务中调用(通过getDB从context获取事务DB)
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	// 插入数据库(包含明细与配送)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			// 订单号撞车,几乎只会出现在时钟回拨场景
			return apperrors.Wrap(err, "订单号冲突")
		}
		return apperrors.Wrap(err, "创建订单失败")
	}

	// 回填自增ID
	o.ID = model.ID
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	o.Delivery.ID = model.Delivery.ID
	o.Delivery.OrderID = model.ID

	return nil
}

// FindByID 根据ID查找订单(预加载明细与配送)
// 教学要点:Preload会执行:
// 1. SELECT * FROM orders WHERE id = ?
// 2. SELECT * FROM order_items WHERE order_id IN (?)
// 3. SELECT * FROM deliveries WHERE order_id IN (?)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Items").Preload("Delivery").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return toOrderEntity(&model), nil
}

// LockByID 根据ID查找订单并加行锁(SELECT ... FOR UPDATE)
// 教学要点:
// 1. REPEATABLE READ下普通SELECT是一致性快照读,两个并发取消
//    都会看到"已下单";FOR UPDATE改为当前读并持有行锁,
//    后到的事务会等前一个提交,再看到的就是"已取消"
// 2. 锁加在orders行上;Preload的明细/配送查询不需要锁,
//    它们只会被持有订单行锁的事务修改
// 3. 必须在事务中调用,锁随事务提交/回滚释放
func (r *orderRepository) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").Preload("Delivery").
		First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "锁定订单失败")
	}

	return toOrderEntity(&model), nil
}

// FindSummaryByID 根据ID查找订单(只读订单行)
// 用于只需要状态判断的场景,不加载明细与配送
func (r *orderRepository) FindSummaryByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return toOrderEntity(&model), nil
}

// FindByOrderNo 根据订单号查找订单
func (r *orderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Items").Preload("Delivery").
		Where("order_no = ?", orderNo).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return toOrderEntity(&model), nil
}

// Update 更新订单状态(条件流转),同时落盘配送状态——
// 取消会把配送强制回到待处理,两张表必须一起更新
// 教学要点:WHERE带上流转前的状态,0行命中说明有并发事务
// 抢先改过了(如两次取消的双击),返回状态错误而不是静默覆盖
func (r *orderRepository) Update(ctx context.Context, o *order.Order, from order.OrderStatus) error {
	db := getDB(ctx, r.db)

	// 只更新Status和UpdatedAt,不触碰明细快照
	result := db.Model(&OrderModel{}).
		Where("id = ? AND status = ?", o.ID, int(from)).
		Updates(map[string]interface{}{
			"status":     int(o.Status),
			"updated_at": o.UpdatedAt,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单失败")
	}

	if result.RowsAffected == 0 {
		// 区分"订单不存在"与"状态已被并发修改"
		var count int64
		if err := db.Model(&OrderModel{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "更新订单失败")
		}
		if count == 0 {
			return order.ErrOrderNotFound
		}
		return order.ErrInvalidStatusTransition
	}

	// 同步配送状态
	err := db.Model(&DeliveryModel{}).Where("order_id = ?", o.ID).Updates(map[string]interface{}{
		"status":     int(o.Delivery.Status),
		"updated_at": o.Delivery.UpdatedAt,
	}).Error
	if err != nil {
		return apperrors.Wrap(err, "更新配送状态失败")
	}

	return nil
}

// UpdateDeliveryStatus 单独更新配送状态(快递回传场景)
// 同样是条件流转:配送状态必须从from单步推进到to,
// 并发推进/取消抢先落盘时0行命中,报状态错误
func (r *orderRepository) UpdateDeliveryStatus(ctx context.Context, orderID uint, from, to order.DeliveryStatus) error {
	db := getDB(ctx, r.db)

	result := db.Model(&DeliveryModel{}).
		Where("order_id = ? AND status = ?", orderID, int(from)).
		Update("status", int(to))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新配送状态失败")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&DeliveryModel{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "更新配送状态失败")
		}
		if count == 0 {
			return order.ErrOrderNotFound
		}
		return order.ErrInvalidStatusTransition
	}

	return nil
}

// ListByMemberID 查询会员的订单列表(分页)
func (r *orderRepository) ListByMemberID(ctx context.Context, memberID uint, page, pageSize int) ([]*order.Order, int64, error) {
	var models []OrderModel
	var total int64

	query := r.db.WithContext(ctx).Model(&OrderModel{}).Where("member_id = ?", memberID)

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	// 分页查询(包含明细与配送)
	offset := (page - 1) * pageSize
	err := query.Preload("Items").Preload("Delivery").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	// 转换为领域实体
	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}

	return orders, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toOrderModel 领域实体 → GORM模型
func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemModel{
			ID:       it.ID,
			OrderID:  it.OrderID,
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			Price:    it.Price.Amount(),
		}
	}

	return &OrderModel{
		ID:            o.ID,
		OrderNo:       o.OrderNo,
		MemberID:      o.MemberID,
		PaymentMethod: int(o.PaymentMethod),
		Status:        int(o.Status),
		Items:         items,
		Delivery: DeliveryModel{
			ID:      o.Delivery.ID,
			OrderID: o.Delivery.OrderID,
			City:    o.Delivery.Address.City,
			Street:  o.Delivery.Address.Street,
			Zipcode: o.Delivery.Address.Zipcode,
			Status:  int(o.Delivery.Status),
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) *order.Order {
	items := make([]order.OrderItem, len(model.Items))
	for i, it := range model.Items {
		items[i] = order.OrderItem{
			ID:       it.ID,
			OrderID:  it.OrderID,
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			Price:    money.Money(it.Price),
		}
	}

	return &order.Order{
		ID:       model.ID,
		OrderNo:  model.OrderNo,
		MemberID: model.MemberID,
		Items:    items,
		Delivery: order.Delivery{
			ID:      model.Delivery.ID,
			OrderID: model.Delivery.OrderID,
			Address: order.Address{
				City:    model.Delivery.City,
				Street:  model.Delivery.Street,
				Zipcode: model.Delivery.Zipcode,
			},
			Status:    order.DeliveryStatus(model.Delivery.Status),
			CreatedAt: model.Delivery.CreatedAt,
			UpdatedAt: model.Delivery.UpdatedAt,
		},
		PaymentMethod: order.PaymentMethod(model.PaymentMethod),
		Status:        order.OrderStatus(model.Status),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
