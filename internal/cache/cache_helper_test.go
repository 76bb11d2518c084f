package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T, prefix string) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	return NewCacheHelper(client, prefix), srv
}

func TestCacheHelperSetGet(t *testing.T) {
	helper, _ := newTestHelper(t, "exam:")
	ctx := context.Background()

	type payload struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}

	in := payload{ID: 7, Name: "Physics Final"}
	if err := helper.Set(ctx, "id:7", in, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out payload
	if err := helper.Get(ctx, "id:7", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out != in {
		t.Errorf("Get returned %+v, want %+v", out, in)
	}
}

func TestCacheHelperGetMissing(t *testing.T) {
	helper, _ := newTestHelper(t, "exam:")

	var out map[string]any
	err := helper.Get(context.Background(), "id:404", &out)
	if err != ErrCacheNotFound {
		t.Errorf("Get on missing key returned %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelperNilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "exam:")
	ctx := context.Background()

	// Writes degrade to no-ops, reads report unavailability.
	if err := helper.Set(ctx, "id:1", "x", time.Minute); err != nil {
		t.Errorf("Set with nil client returned %v, want nil", err)
	}
	var out string
	if err := helper.Get(ctx, "id:1", &out); err != ErrCacheNotAvailable {
		t.Errorf("Get with nil client returned %v, want ErrCacheNotAvailable", err)
	}
}

func TestCacheHelperInvalidatePattern(t *testing.T) {
	helper, srv := newTestHelper(t, "result:")
	ctx := context.Background()

	for _, key := range []string{"exam:1:list", "exam:1:ranks", "exam:2:list"} {
		if err := helper.Set(ctx, key, 1, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "exam:1:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	if srv.Exists("result:exam:1:list") || srv.Exists("result:exam:1:ranks") {
		t.Error("keys matching pattern should be gone")
	}
	if !srv.Exists("result:exam:2:list") {
		t.Error("key outside pattern should survive")
	}
}

func TestCacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t, "exam:")
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]int{"id": 3}, nil
	}

	var out map[string]int
	if err := helper.CacheOrExecute(ctx, "id:3", &out, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("fetch called %d times, want 1", calls)
	}
	if out["id"] != 3 {
		t.Errorf("got %v, want id=3", out)
	}
}
