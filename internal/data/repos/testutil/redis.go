package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

// Redis starts an in-process redis for tb and a client connected to it. Both are
// closed on cleanup.
func Redis(tb testing.TB) (*miniredis.Miniredis, *goredis.Client) {
	tb.Helper()
	mr := miniredis.RunT(tb)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	tb.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}
