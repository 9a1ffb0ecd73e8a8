package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/eshop/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	// 注意：这里使用GORM的模型定义（带tag），不是domain层的实体
	return db.AutoMigrate(
		&MemberModel{},
		&ItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&DeliveryModel{},
	)
}

// MemberModel GORM会员模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/member/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type MemberModel struct {
	ID            uint           `gorm:"primaryKey"`
	Email         string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password      string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname      string         `gorm:"size:50;not null;comment:昵称"`
	AddressCity   string         `gorm:"size:50;comment:默认收货城市"`
	AddressStreet string         `gorm:"size:200;comment:默认收货街道"`
	AddressZip    string         `gorm:"size:20;comment:默认收货邮编"`
	IsAdmin       bool           `gorm:"default:false;comment:是否具备管理能力"`
	CreatedAt     time.Time      `gorm:"comment:创建时间"`
	UpdatedAt     time.Time      `gorm:"comment:更新时间"`
	DeletedAt     gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (MemberModel) TableName() string {
	return "members"
}

// ItemModel GORM商品模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. Version是补货路径乐观锁的版本列
// 3. 商品子类型用Kind列+类型专属列表达(单表继承),
//    下单流程只关心Price和Stock两列
type ItemModel struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"index:idx_search;size:200;not null;comment:商品名称"` // 搜索索引
	Price     int64          `gorm:"index:idx_list;not null;comment:价格(分)"`           // 排序索引
	Stock     int            `gorm:"default:0;comment:库存数量"`
	Version   int64          `gorm:"default:0;comment:乐观锁版本号"`
	Kind      string         `gorm:"index;size:20;not null;comment:商品类型(book/album/dvd)"`
	ISBN      string         `gorm:"size:20;comment:ISBN号(图书)"`
	Author    string         `gorm:"size:100;comment:作者(图书)"`
	Artist    string         `gorm:"size:100;comment:艺人(唱片)"`
	Director  string         `gorm:"size:100;comment:导演(DVD)"`
	CreatedAt time.Time      `gorm:"index:idx_list;comment:创建时间"` // 排序索引
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (ItemModel) TableName() string {
	return "items"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderItemModel是一对多、与DeliveryModel是一对一关系
// 2. OrderNo有唯一索引(业务主键)
// 3. 取消是状态变更而非删除,订单表不做软删除
// 4. 总金额不冗余存储,读取时按明细快照计算
type OrderModel struct {
	ID            uint             `gorm:"primaryKey"`
	OrderNo       string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	MemberID      uint             `gorm:"index;not null;comment:买家会员ID"`
	PaymentMethod int              `gorm:"type:tinyint;not null;comment:支付方式(1银行卡2转账3货到付款)"`
	Status        int              `gorm:"index;type:tinyint;default:1;comment:订单状态(1已下单2待支付3已取消)"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID"` // 一对多关联
	Delivery      DeliveryModel    `gorm:"foreignKey:OrderID"` // 一对一关联
	CreatedAt     time.Time        `gorm:"index;comment:下单时间"`
	UpdatedAt     time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 教学要点:
// 1. 记录下单时的价格快照(Price字段)
// 2. OrderID外键关联orders表
type OrderItemModel struct {
	ID       uint  `gorm:"primaryKey"`
	OrderID  uint  `gorm:"index;not null;comment:订单ID"`
	ItemID   uint  `gorm:"index;not null;comment:商品ID"`
	Quantity int   `gorm:"not null;comment:购买数量"`
	Price    int64 `gorm:"not null;comment:下单时单价(分)"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}

// DeliveryModel GORM配送模型
// 教学要点:
// 1. 与OrderModel是一对一关系,随订单创建
// 2. 地址是下单时刻的快照,会员改地址不影响本单
type DeliveryModel struct {
	ID        uint      `gorm:"primaryKey"`
	OrderID   uint      `gorm:"uniqueIndex;not null;comment:订单ID"`
	City      string    `gorm:"size:50;not null;comment:收货城市"`
	Street    string    `gorm:"size:200;not null;comment:收货街道"`
	Zipcode   string    `gorm:"size:20;comment:收货邮编"`
	Status    int       `gorm:"type:tinyint;default:1;comment:配送状态(1待处理2备货3已发货4已送达)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (DeliveryModel) TableName() string {
	return "deliveries"
}
