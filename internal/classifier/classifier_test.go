package classifier

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func TestRank(t *testing.T) {
	in := []Prediction{
		{Label: "a", Confidence: 0.1},
		{Label: "b", Confidence: 0.7},
		{Label: "", Confidence: 0.9},
		{Label: "c", Confidence: 0.2},
	}
	got := Rank(in, 2)
	assert.Equal(t, []Prediction{{Label: "b", Confidence: 0.7}, {Label: "c", Confidence: 0.2}}, got)
}

func TestNop(t *testing.T) {
	assert.Empty(t, Nop{}.Classify(context.Background(), pngHeader))
}

func TestHTTPClassifier_ScoreObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, pngHeader, body)
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tabby": 0.1, "ashcan": 0.6, "umbrella": 0.3}`))
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, time.Second, 2, zap.NewNop())
	got := c.Classify(context.Background(), pngHeader)

	require.Len(t, got, 2)
	assert.Equal(t, "ashcan", got[0].Label)
	assert.Equal(t, "umbrella", got[1].Label)
}

func TestHTTPClassifier_PredictionList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"label":"broom","confidence":0.2},{"label":"garbage_truck","confidence":0.75}]`))
	}))
	defer srv.Close()

	got := NewHTTPClassifier(srv.URL, time.Second, 10, zap.NewNop()).Classify(context.Background(), pngHeader)
	require.Len(t, got, 2)
	assert.Equal(t, "garbage_truck", got[0].Label)
}

func TestHTTPClassifier_FailuresYieldEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken":
			http.Error(w, "model crashed", http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	assert.Empty(t, NewHTTPClassifier(srv.URL+"/broken", time.Second, 10, zap.NewNop()).Classify(context.Background(), pngHeader))
	assert.Empty(t, NewHTTPClassifier(srv.URL+"/garbled", time.Second, 10, zap.NewNop()).Classify(context.Background(), pngHeader))
	assert.Empty(t, NewHTTPClassifier("http://127.0.0.1:1", 200*time.Millisecond, 10, zap.NewNop()).Classify(context.Background(), pngHeader))
	assert.Empty(t, NewHTTPClassifier(srv.URL, time.Second, 10, zap.NewNop()).Classify(context.Background(), nil))
}

func TestCachedClassifier(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	var calls int32
	inner := Func(func(ctx context.Context, image []byte) []Prediction {
		atomic.AddInt32(&calls, 1)
		return []Prediction{{Label: "ashcan", Confidence: 0.8}}
	})
	c := NewCachedClassifier(inner, client, time.Hour, zap.NewNop())

	first := c.Classify(context.Background(), pngHeader)
	second := c.Classify(context.Background(), pngHeader)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, mr.Exists(CacheKey(pngHeader)))
	assert.Equal(t, time.Hour, mr.TTL(CacheKey(pngHeader)))
}

func TestCachedClassifier_DoesNotCacheEmpty(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	var calls int32
	inner := Func(func(ctx context.Context, image []byte) []Prediction {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	c := NewCachedClassifier(inner, client, time.Hour, zap.NewNop())

	assert.Empty(t, c.Classify(context.Background(), pngHeader))
	assert.Empty(t, c.Classify(context.Background(), pngHeader))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.False(t, mr.Exists(CacheKey(pngHeader)))
}

func TestCachedClassifier_RedisDownFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	inner := Func(func(ctx context.Context, image []byte) []Prediction {
		return []Prediction{{Label: "puddle", Confidence: 0.5}}
	})
	got := NewCachedClassifier(inner, client, time.Hour, zap.NewNop()).Classify(context.Background(), pngHeader)
	require.Len(t, got, 1)
	assert.Equal(t, "puddle", got[0].Label)
}
