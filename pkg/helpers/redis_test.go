package helpers

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestRedisDel(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	defer func() { _ = rdb.Close() }()

	mr.HSet(SessionKey("v1"), "sid", "s1")
	require.NoError(t, RedisDel(context.Background(), rdb, SessionKey("v1")))
	require.False(t, mr.Exists(SessionKey("v1")))
}

func TestSessionKey(t *testing.T) {
	require.Equal(t, "vendor:session:abc", SessionKey("abc"))
}
