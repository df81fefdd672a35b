package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	require.NoError(t, Init("production"))

	require.NoError(t, SetLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, Level())

	assert.Error(t, SetLevel("loud"))
	assert.Equal(t, zapcore.WarnLevel, Level())
}
