// Package tracing 基于OpenTelemetry的分布式追踪
//
// 链路结构：
//
//	HTTP中间件（根Span：GET /api/v1/books/:id）
//	  └─ 应用服务（子Span：book.GetBook）
//
// 追踪默认关闭（tracing.enabled=false），此时全局TracerProvider为noop实现，
// StartSpan仍然可以调用，只是不产生任何数据。
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName 本服务使用的Tracer名称
const TracerName = "github.com/xiebiao/bookshelf"

// InitTracer 初始化OTLP gRPC导出的TracerProvider
//
// 参数：
//   - serviceName: 服务名称（Jaeger UI中的service）
//   - endpoint: OTLP gRPC地址，如localhost:4317（不带协议）
//
// 返回shutdown函数，程序退出前必须调用，否则可能丢失最后一批Span
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 生产环境应启用TLS
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	tp, err := Install(serviceName, sdktrace.WithBatcher(exporter))
	if err != nil {
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}

// Install 创建TracerProvider并设置为全局Provider
// opts用于指定Span处理器（生产环境为Batcher，测试中为SpanRecorder）
func Install(serviceName string, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
	}, opts...)
	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, // W3C Trace Context
			propagation.Baggage{},
		),
	)
	return tp, nil
}

// StartSpan 创建Span，ctx中有父Span时自动成为子Span
func StartSpan(ctx context.Context, tracerName, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName, opts...)
}

// RecordError 在Span上记录错误并标记为失败，err为nil时标记为成功
func RecordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ExtractTraceID 从context提取TraceID（用于日志关联），没有有效Span时返回空字符串
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// ExtractSpanID 从context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
