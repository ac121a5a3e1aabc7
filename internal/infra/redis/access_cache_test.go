package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestGrantCacheRemembersGrants(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewGrantCache(client, time.Minute)
	ctx := context.Background()

	if cache.Granted(ctx, "u1", "quiz-1") {
		t.Fatal("expected miss before Remember")
	}

	cache.Remember(ctx, "u1", "quiz-1")
	if !mr.Exists("access:u1:quiz-1") {
		t.Fatal("expected redis key to be set")
	}
	if !cache.Granted(ctx, "u1", "quiz-1") {
		t.Fatal("expected hit after Remember")
	}

	// entries expire with the configured TTL
	mr.FastForward(2 * time.Minute)
	if cache.Granted(ctx, "u1", "quiz-1") {
		t.Fatal("expected expired grant")
	}
}
