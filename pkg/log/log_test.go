package log

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestWithCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background(), "")
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, GetCorrelationID(ctx))

	ctx, id = WithCorrelationID(context.Background(), "  req-123 ")
	assert.Equal(t, "req-123", id)
	assert.Equal(t, "req-123", GetCorrelationID(ctx))

	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	_, id = WithCorrelationID(context.Background(), string(long))
	assert.Len(t, id, 36)
}

func TestGetCorrelationID_Empty(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestForContext(t *testing.T) {
	SetupTestLogger()

	ctx, id := WithCorrelationID(context.Background(), "abc")
	l, ok := ForContext(ctx).(*logger)
	assert.True(t, ok)
	assert.Equal(t, id, l.entry.Data[correlationIDField])

	l, ok = ForContext(context.Background()).(*logger)
	assert.True(t, ok)
	assert.NotContains(t, l.entry.Data, correlationIDField)
}

func TestSetup(t *testing.T) {
	defer SetupTestLogger()

	Setup("warn", "production")
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	assert.False(t, IsDevelopment())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	Setup("nao-existe", "dev")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.True(t, IsDevelopment())
	assert.IsType(t, &logrus.TextFormatter{}, logrus.StandardLogger().Formatter)
}
