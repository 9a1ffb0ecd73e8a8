//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appitem "github.com/xiebiao/eshop/internal/application/item"
	appmember "github.com/xiebiao/eshop/internal/application/member"
	apporder "github.com/xiebiao/eshop/internal/application/order"
	"github.com/xiebiao/eshop/internal/domain/item"
	"github.com/xiebiao/eshop/internal/domain/member"
	"github.com/xiebiao/eshop/internal/infrastructure/config"
	"github.com/xiebiao/eshop/internal/infrastructure/event"
	"github.com/xiebiao/eshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/eshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/eshop/internal/interface/http/handler"
	"github.com/xiebiao/eshop/internal/interface/http/middleware"
	"github.com/xiebiao/eshop/pkg/jwt"
	"github.com/xiebiao/eshop/pkg/metrics"
	"github.com/xiebiao/eshop/pkg/mq"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：配置加载、数据库连接、Redis连接
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
// 包含：所有Repository的构造函数,以及事务管理器的接口绑定
var repositorySet = wire.NewSet(
	mysql.NewMemberRepository, // 会员仓储
	mysql.NewItemRepository,   // 商品仓储
	mysql.NewOrderRepository,  // 订单仓储
	mysql.NewTxManager,        // 事务管理器
	wire.Bind(new(apporder.Transactor), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
// 包含：所有领域服务的构造函数
var domainSet = wire.NewSet(
	member.NewService, // 会员领域服务
	item.NewService,   // 商品领域服务
)

// applicationSet 应用层依赖
// 包含：所有Use Case的构造函数
var applicationSet = wire.NewSet(
	appmember.NewRegisterUseCase,        // 会员注册用例
	appmember.NewLoginUseCase,           // 会员登录用例
	appmember.NewLogoutUseCase,          // 会员登出用例
	appitem.NewPublishItemUseCase,       // 商品上架用例
	appitem.NewListItemsUseCase,         // 商品列表用例
	appitem.NewAdjustStockUseCase,       // 库存调整用例
	apporder.NewPlaceOrderUseCase,       // 下单用例
	apporder.NewCancelOrderUseCase,      // 取消订单用例
	apporder.NewGetOrderUseCase,         // 订单详情用例
	apporder.NewListOrdersUseCase,       // 订单列表用例
	apporder.NewAdvanceDeliveryUseCase,  // 配送推进用例
)

// middlewareSet 中间件依赖
// 包含：JWT管理器、认证中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,            // JWT管理器（需要从config提取参数）
	provideSessionStore,          // Session存储
	provideOrderCache,            // 订单缓存(绑定应用层接口)
	provideEventPublisher,        // 订单事件发布器(MQ或空实现)
	middleware.NewAuthMiddleware, // 认证中间件
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewMemberHandler, // 会员处理器
	handler.NewItemHandler,   // 商品处理器
	handler.NewOrderHandler,  // 订单处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================

// provideJWTManager 从配置创建JWT管理器
// 教学要点：config.Config包含多个字段，但jwt.NewManager只需要JWT相关的配置
// Wire无法自动知道如何从Config提取参数，所以需要手动编写Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideOrderCache 从Redis客户端创建订单缓存
// 返回应用层接口类型,用例依赖接口而非具体实现
func provideOrderCache(client *goredis.Client) apporder.OrderCache {
	return redis.NewOrderCache(client)
}

// provideEventPublisher 创建订单事件发布器
// MQ未启用时返回空实现,下单主链路无感知
func provideEventPublisher(cfg *config.Config) (apporder.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return event.NewNoopPublisher(), nil
	}

	mqPublisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, err
	}

	return event.NewPublisher(mqPublisher, cfg.MQ.Exchange), nil
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	memberHandler *handler.MemberHandler,
	itemHandler *handler.ItemHandler,
	orderHandler *handler.OrderHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	metrics.InitMetrics()

	// 设置运行模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing("eshop-api"))
	}

	// 健康检查、/metrics、/swagger与API路由统一在registerRoutes注册
	registerRoutes(r, memberHandler, itemHandler, orderHandler, authMiddleware)

	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================
// 依赖链示例：
// *gin.Engine 需要 → *handler.OrderHandler
// *handler.OrderHandler 需要 → *apporder.PlaceOrderUseCase
// *apporder.PlaceOrderUseCase 需要 → order.Repository + apporder.Transactor
// order.Repository 需要 → *gorm.DB
// *gorm.DB 需要 → *config.Config

// InitializeApp 初始化整个应用
// 返回：配置好的Gin引擎
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		// 基础设施层
		infrastructureSet,

		// 仓储层
		repositorySet,

		// 领域层
		domainSet,

		// 应用层
		applicationSet,

		// 中间件层
		middlewareSet,

		// 接口层
		handlerSet,

		// Gin引擎
		provideGinEngine,
	)

	// 返回值是占位符,实际运行时由wire gen生成的wire_gen.go替代
	return nil, nil
}
