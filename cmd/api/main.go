package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	"github.com/xiebiao/eshop/pkg/response"
	"github.com/xiebiao/eshop/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入,与wire.go中的注入器等价
// （wire gen生成wire_gen.go后可切换到InitializeApp）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化指标与追踪
	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer("eshop-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化追踪失败: %v", err)
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Printf("关闭追踪失败: %v", err)
			}
		}()
	}

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化事件发布器
	// MQ未启用时注入空实现,下单主链路无感知
	var eventPublisher apporder.EventPublisher = event.NewNoopPublisher()
	if cfg.MQ.Enabled {
		mqPublisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
		if err != nil {
			log.Fatalf("初始化MQ失败: %v", err)
		}
		defer mqPublisher.Close()
		eventPublisher = event.NewPublisher(mqPublisher, cfg.MQ.Exchange)
	}

	// 6. 依赖注入（手动组装）
	// 学习要点：依赖注入链
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	memberRepo := mysql.NewMemberRepository(db)
	itemRepo := mysql.NewItemRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	orderCache := redis.NewOrderCache(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	memberService := member.NewService(memberRepo)
	itemService := item.NewService(itemRepo)

	// 应用层
	registerUseCase := appmember.NewRegisterUseCase(memberService)
	loginUseCase := appmember.NewLoginUseCase(memberService, jwtManager, sessionStore)
	logoutUseCase := appmember.NewLogoutUseCase(sessionStore)
	publishItemUseCase := appitem.NewPublishItemUseCase(itemService)
	listItemsUseCase := appitem.NewListItemsUseCase(itemService)
	adjustStockUseCase := appitem.NewAdjustStockUseCase(itemRepo)
	placeOrderUseCase := apporder.NewPlaceOrderUseCase(orderRepo, itemRepo, memberRepo, txManager, eventPublisher)
	cancelOrderUseCase := apporder.NewCancelOrderUseCase(orderRepo, itemRepo, txManager, eventPublisher, orderCache)
	getOrderUseCase := apporder.NewGetOrderUseCase(orderRepo, orderCache)
	listOrdersUseCase := apporder.NewListOrdersUseCase(orderRepo)
	advanceDeliveryUseCase := apporder.NewAdvanceDeliveryUseCase(orderRepo, txManager, orderCache)

	// 接口层
	memberHandler := handler.NewMemberHandler(registerUseCase, loginUseCase, logoutUseCase, jwtManager)
	itemHandler := handler.NewItemHandler(publishItemUseCase, listItemsUseCase, adjustStockUseCase)
	orderHandler := handler.NewOrderHandler(placeOrderUseCase, cancelOrderUseCase, getOrderUseCase, listOrdersUseCase, advanceDeliveryUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing("eshop-api"))
	}

	// 8. 注册路由
	registerRoutes(r, memberHandler, itemHandler, orderHandler, authMiddleware)

	// 9. 启动服务（支持优雅停机）
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// 给在途请求10秒完成时间
	log.Println("正在停止服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务停止失败: %v", err)
	}
	log.Println("服务已停止")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	memberHandler *handler.MemberHandler,
	itemHandler *handler.ItemHandler,
	orderHandler *handler.OrderHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 会员模块
		members := v1.Group("/members")
		{
			members.POST("/register", memberHandler.Register)
			members.POST("/login", memberHandler.Login)
			members.POST("/refresh", memberHandler.RefreshToken)
			members.POST("/logout", authMiddleware.RequireAuth(), memberHandler.Logout)
		}

		// 商品模块
		items := v1.Group("/items")
		{
			// 商品列表(公开接口,不需要登录)
			items.GET("", itemHandler.ListItems)

			// 运营接口(需要管理权限)
			items.POST("", authMiddleware.RequireAuth(), authMiddleware.RequireAdmin(), itemHandler.PublishItem)
			items.PUT("/:id/stock", authMiddleware.RequireAuth(), authMiddleware.RequireAdmin(), itemHandler.AdjustStock)
		}

		// 订单模块（全部需要登录）
		orders := v1.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			orders.POST("", orderHandler.PlaceOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)

			// 配送推进(仓库/快递回传,需要管理权限)
			orders.POST("/:id/delivery/advance", authMiddleware.RequireAdmin(), orderHandler.AdvanceDelivery)
		}
	}
}
