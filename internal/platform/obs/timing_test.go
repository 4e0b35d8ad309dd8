package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimeLogsFailureWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	ctx := WithRequestID(context.Background(), "abc")
	err := errors.New("boom")
	Time(ctx, logger, "op.fail")(&err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["req_id"])
	assert.Equal(t, "op.fail", fields["op"])
	assert.Equal(t, "boom", fields["error"])
}

func TestTimeLogsSuccessAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	var err error
	Time(context.Background(), logger, "op.ok")(&err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, "", entries[0].ContextMap()["req_id"])
}
