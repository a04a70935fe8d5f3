// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velmoras/lectoria/internal/platform/ctxutil"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

func TestRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", ctxutil.GetRequestID(context.Background()))
}

func TestLogger_RoundTrip(t *testing.T) {
	logger := slog.Default().With(slog.String("test", "yes"))
	ctx := ctxutil.WithLogger(context.Background(), logger)
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
}

func TestLogger_FallbackToDefault(t *testing.T) {
	assert.NotNil(t, ctxutil.GetLogger(context.Background()))
}

func TestAdmin_Flag(t *testing.T) {
	assert.False(t, ctxutil.IsAdmin(context.Background()))
	ctx := ctxutil.WithAdmin(context.Background())
	assert.True(t, ctxutil.IsAdmin(ctx))
}
