package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp, err := Install("test-service", sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder
}

// TestStartSpan 子Span继承TraceID，SpanID不同
func TestStartSpan(t *testing.T) {
	recorder := installRecorder(t)

	ctx, root := StartSpan(context.Background(), TracerName, "RootOperation")
	childCtx, child := StartSpan(ctx, TracerName, "ChildOperation")

	assert.True(t, root.SpanContext().IsValid())
	assert.Equal(t, ExtractTraceID(ctx), ExtractTraceID(childCtx))
	assert.NotEqual(t, ExtractSpanID(ctx), ExtractSpanID(childCtx))

	child.End()
	root.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "ChildOperation", ended[0].Name())
	assert.Equal(t, root.SpanContext().SpanID(), ended[0].Parent().SpanID())
}

// TestRecordError 错误状态与事件
func TestRecordError(t *testing.T) {
	recorder := installRecorder(t)

	_, ok := StartSpan(context.Background(), TracerName, "Success")
	RecordError(ok, nil)
	ok.End()

	_, failed := StartSpan(context.Background(), TracerName, "Failure")
	RecordError(failed, errors.New("数据库连接失败"))
	failed.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "数据库连接失败", ended[1].Status().Description)
	require.Len(t, ended[1].Events(), 1)
	assert.Equal(t, "exception", ended[1].Events()[0].Name)
}

// TestExtractIDs_NoSpan 没有Span时返回空字符串
func TestExtractIDs_NoSpan(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))
}
