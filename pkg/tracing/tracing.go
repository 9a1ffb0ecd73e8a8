// Package tracing 提供基于OpenTelemetry的分布式追踪框架
//
// # 核心概念
//
// 1. **Trace（追踪）**：一个完整的请求链路,包含多个Span
// 2. **Span（跨度）**：一个操作单元,记录名称、起止时间、状态
// 3. **SpanContext**：跨边界传递的元数据（TraceID/SpanID/ParentSpanID）
//
// 单体内同样有价值:下单请求的链路是
// HTTP处理 → 下单用例 → 行锁等待 → 订单落库 → 事件发布,
// 锁等待慢还是落库慢,在Jaeger UI里一眼可见。
//
// # 使用示例
//
//	shutdown, err := tracing.InitTracer("eshop-api", "localhost:4317")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shutdown(context.Background())
//
//	func (uc *PlaceOrderUseCase) Execute(ctx context.Context, ...) {
//	    ctx, span := tracing.StartSpan(ctx, "eshop-api", "PlaceOrder")
//	    defer span.End()
//	    ...
//	}
//
// # 最佳实践
//
// 1. Span用操作名命名（PlaceOrder），动态值放属性里
// 2. 失败时span.RecordError(err)并SetStatus(codes.Error, ...)
// 3. 必须用返回的ctx调用下游,否则无法构建调用树
// 4. 日志里记录ExtractTraceID(ctx),从日志直达Jaeger链路
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer 初始化全局Tracer Provider
//
// 参数：
//   - serviceName: 服务名称（在Jaeger UI中显示）
//   - endpoint: OTLP gRPC端点（如 localhost:4317）
//
// 返回关闭函数,程序退出前调用以刷新未发送的Span
//
// 设计要点：
// 1. 使用OTLP协议而非Jaeger原生协议,厂商中立,
//    未来可无缝切换到Zipkin、Datadog
// 2. 采样策略:AlwaysSample适合开发/测试环境,
//    生产环境建议TraceIDRatioBased按比例采样
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. 创建OTLP gRPC Exporter
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 禁用TLS（生产环境应启用）
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	// 2. 创建Resource（资源属性）
	// 这些属性附加到所有Span上,便于在Jaeger UI中筛选和分组
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	// 3. 创建Tracer Provider
	// BatchSpanProcessor批量发送Span,性能优于SimpleSpanProcessor
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 4. 设置全局TracerProvider
	// 业务代码直接用otel.Tracer()获取,无需逐层传递
	otel.SetTracerProvider(tp)

	// 5. 设置全局上下文传播器
	// W3C Trace Context（traceparent头）+ Baggage（自定义键值对）
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	// 6. 返回关闭函数
	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// StartSpan 创建一个新的Span（便捷函数）
//
// ctx包含父Span时新Span自动成为子Span,否则成为根Span。
// 必须用返回的ctx调用下游函数。
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, spanName)
}

// ExtractTraceID 从Context提取TraceID（用于关联日志）
//
//	traceID := tracing.ExtractTraceID(ctx)
//	log.Printf("trace_id=%s 下单成功 order_no=%s", traceID, orderNo)
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
