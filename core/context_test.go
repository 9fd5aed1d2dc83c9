package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuppressHeader(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(ctx)))

	// A foreign value under the same key type is ignored
	ctx = context.WithValue(ctx, suppressHeaderKey, "yes")
	assert.False(t, shouldSuppressHeader(ctx))
}

func TestSuppressHeaderConcurrentAccess(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	const numGoroutines = 50
	done := make(chan bool, numGoroutines)
	for i := range numGoroutines {
		go func(id int) {
			defer func() { done <- true }()
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: shouldSuppressHeader should be true", id)
		}(i)
	}
	for range numGoroutines {
		<-done
	}
}
