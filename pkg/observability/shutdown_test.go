package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewShutdownManagerDefaultTimeout(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})
	sm := NewShutdownManager(logger, nil, 0)
	assert.Equal(t, 30*time.Second, sm.shutdownTimeout)
}

func TestRegisterShutdownFunc(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})
	sm := NewShutdownManager(logger, nil, time.Second)

	sm.RegisterShutdownFunc(func(ctx context.Context) error { return nil })
	sm.RegisterShutdownFunc(func(ctx context.Context) error { return nil })

	assert.Len(t, sm.shutdownFuncs, 2)
}

func TestRecoverPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(ErrorLevel, &buf)

	func() {
		defer RecoverPanic(logger, "test")
		panic("boom")
	}()

	assert.Contains(t, buf.String(), "PANIC recovered")
	assert.Contains(t, buf.String(), "boom")
}

func TestRecoverPanicWithCallback(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(ErrorLevel, &buf)

	called := false
	func() {
		defer RecoverPanicWithCallback(logger, "test", func() { called = true })
		panic("boom")
	}()

	assert.True(t, called)
}

func TestMustRecover(t *testing.T) {
	assert.NoError(t, MustRecover(nil))

	err := MustRecover("boom")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestMustRecoverInDefer(t *testing.T) {
	run := func() (err error) {
		defer func() {
			if e := MustRecover(recover()); e != nil {
				err = e
			}
		}()
		panic(errors.New("bad state"))
	}

	assert.Error(t, run())
}
