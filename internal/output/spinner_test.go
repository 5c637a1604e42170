package output

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunWithSpinner_NonTTYRunsActionDirectly(t *testing.T) {
	if IsTTY() {
		t.Skip("stdout is a terminal")
	}

	called := false
	err := RunWithSpinner(context.Background(), func() error {
		called = true
		return nil
	}, WithTitle("Running npm install"))

	assert.NoError(t, err)
	assert.True(t, called)
}

func TestRunWithSpinner_PropagatesActionError(t *testing.T) {
	if IsTTY() {
		t.Skip("stdout is a terminal")
	}

	boom := errors.New("boom")
	err := RunWithSpinner(context.Background(), func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRunWithIndicator_ReturnsActionError(t *testing.T) {
	boom := errors.New("boom")
	err := runWithIndicator(context.Background(), func() error { return boom }, func(wait func()) error {
		wait()
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunWithIndicator_IndicatorQuitsEarly(t *testing.T) {
	release := make(chan struct{})
	boom := errors.New("boom")

	var err error
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		err = runWithIndicator(context.Background(), func() error {
			<-release
			return boom
		}, func(wait func()) error {
			go wait()
			return nil
		})
	}()

	close(release)
	<-finished
	assert.ErrorIs(t, err, boom)
}

func TestRunWithIndicator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runWithIndicator(ctx, func() error {
		<-ctx.Done()
		return ctx.Err()
	}, func(wait func()) error {
		wait()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunWithIndicator_IndicatorError(t *testing.T) {
	err := runWithIndicator(context.Background(), func() error { return nil }, func(func()) error {
		return errors.New("no tty")
	})
	assert.ErrorContains(t, err, "spinner error: no tty")
}
