package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"exhibitsurvey/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSnapshotCache(client, ttl, zaptest.NewLogger(t)), mr
}

func TestSnapshotSaveLoad(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Hour)

	got, err := c.Load(ctx, "feedback", "s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	in := model.Responses{
		"name":  model.StringValue("Ray"),
		"mood":  model.ListValue([]string{"A"}),
		"score": model.NumberValue(3),
		"ok":    model.BoolValue(false),
	}
	require.NoError(t, c.Save(ctx, "feedback", "s1", in))
	assert.True(t, mr.Exists("survey:feedback:s:s1:responses"))

	got, err = c.Load(ctx, "feedback", "s1")
	require.NoError(t, err)
	require.Len(t, got, len(in))
	for k, v := range in {
		assert.True(t, v.Equal(got[k]), k)
	}

	// Sessions are scoped by survey type
	other, err := c.Load(ctx, "survey", "s1")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, c.Delete(ctx, "feedback", "s1"))
	got, err = c.Load(ctx, "feedback", "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	require.NoError(t, c.Save(ctx, "feedback", "s1", model.Responses{"name": model.StringValue("Ray")}))
	mr.FastForward(2 * time.Minute)

	got, err := c.Load(ctx, "feedback", "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotCorruptData(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Hour)
	require.NoError(t, mr.Set("survey:feedback:s:s1:responses", "{not json"))

	_, err := c.Load(ctx, "feedback", "s1")
	assert.ErrorContains(t, err, "decode snapshot")
}

func TestSubmittedMarker(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Hour)

	done, err := c.IsSubmitted(ctx, "feedback", "s1")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, c.MarkSubmitted(ctx, "feedback", "s1"))
	done, err = c.IsSubmitted(ctx, "feedback", "s1")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestSnapshotDropsUndecodableEntries(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Hour)
	require.NoError(t, mr.Set("survey:feedback:s:s1:responses", `{"name":"Ray","legacyScores":[1,2],"meta":{"v":1},"ok":true}`))

	got, err := c.Load(ctx, "feedback", "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, model.StringValue("Ray").Equal(got["name"]))
	assert.True(t, model.BoolValue(true).Equal(got["ok"]))
}
