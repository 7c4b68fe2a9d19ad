package logger

import (
	"testing"
	"time"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestLogger_NewLogger(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		log := NewLogger("debug", "testReplay")
		assert.NotNil(t, log)
		assert.True(t, log.IsEnabledFor(logging.DEBUG))
	})

	t.Run("invalid log level", func(t *testing.T) {
		log := NewLogger("LOUD", "testReplay")
		assert.NotNil(t, log)
		assert.True(t, log.IsEnabledFor(logging.INFO))
	})

	t.Run("same module twice", func(t *testing.T) {
		first := NewLogger("info", "testEngine")
		second := NewLogger("warning", "testEngine")
		assert.NotNil(t, first)
		assert.NotNil(t, second)
	})
}

func TestLogger_LogLevelFlag(t *testing.T) {
	assert.Equal(t, "log", LogLevelFlag.Name)
	assert.Equal(t, "info", LogLevelFlag.Value)
	assert.Contains(t, LogLevelFlag.Aliases, "l")
}

func TestLogger_ParseTime(t *testing.T) {
	tests := []struct {
		elapsed                time.Duration
		hours, minutes, second uint32
	}{
		{3661 * time.Second, 1, 1, 1}, // 1 hour, 1 minute, and 1 second
		{42 * time.Second, 0, 0, 42},
		{60 * time.Second, 0, 1, 0},
		{time.Hour, 1, 0, 0},
		{59*time.Minute + 60*time.Second, 1, 0, 0},
		{125*time.Second + 400*time.Millisecond, 0, 2, 5},
		{26 * time.Hour, 26, 0, 0},
	}
	for _, test := range tests {
		hours, minutes, seconds := ParseTime(test.elapsed)
		assert.Equal(t, test.hours, hours, test.elapsed.String())
		assert.Equal(t, test.minutes, minutes, test.elapsed.String())
		assert.Equal(t, test.second, seconds, test.elapsed.String())
	}
}

func TestLogger_MockSatisfiesInterface(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockLogger(ctrl)
	mock.EXPECT().Noticef("%d branches", 3)

	var log Logger = mock
	log.Noticef("%d branches", 3)
}
