package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/coffee-shop-api/internal/config"
)

// bodyCapture tees the response body into a buffer while forwarding it
// to the client, so successful responses can be stored after the fact.
type bodyCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (bc *bodyCapture) WriteHeader(code int) {
	bc.status = code
	bc.ResponseWriter.WriteHeader(code)
}

func (bc *bodyCapture) Write(b []byte) (int, error) {
	if bc.limit <= 0 || bc.size+int64(len(b)) <= bc.limit {
		bc.buf.Write(b)
	} else {
		// never cache a truncated payload
		bc.buf.Reset()
	}
	bc.size += int64(len(b))
	return bc.ResponseWriter.Write(b)
}

// cacheKey derives a stable key from the route and query string. The
// menu endpoints are the only cached surface and they carry no
// per-user state, so identity never enters the key.
func cacheKey(prefix string, c echo.Context) string {
	r := c.Request()
	sum := sha1.Sum([]byte(r.Method + " " + c.Path() + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// encodeEntry packs [4 bytes status][content-type][0x00][body].
func encodeEntry(status int, contentType string, body []byte) []byte {
	out := make([]byte, 4, 4+len(contentType)+1+len(body))
	binary.BigEndian.PutUint32(out, uint32(status))
	out = append(out, contentType...)
	out = append(out, 0)
	return append(out, body...)
}

func decodeEntry(bs []byte) (status int, contentType string, body []byte, ok bool) {
	if len(bs) < 5 {
		return 0, "", nil, false
	}
	sep := bytes.IndexByte(bs[4:], 0)
	if sep < 0 {
		return 0, "", nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[:4]))
	contentType = string(bs[4 : 4+sep])
	body = bs[4+sep+1:]
	return status, contentType, body, true
}

// ResponseCache serves repeated GETs for the public menu from Redis.
// Only 200 responses are stored; a nil client disables the middleware.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cacheKey(cfg.Prefix, c)

			if bs, err := rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				if status, ct, body, ok := decodeEntry(bs); ok {
					h := c.Response().Header()
					if ct != "" {
						h.Set(echo.HeaderContentType, ct)
					}
					h.Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, werr := c.Response().Write(body)
					return werr
				}
			}

			bc := &bodyCapture{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = bc
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if bc.status == http.StatusOK && bc.buf.Len() > 0 {
				ct := c.Response().Header().Get(echo.HeaderContentType)
				entry := encodeEntry(bc.status, ct, bc.buf.Bytes())
				_ = rdb.SetEx(context.Background(), key, entry, ttl).Err()
			}
			return nil
		}
	}
}

// CacheInvalidator deletes cached entries under a prefix. Admin menu
// mutations call it so public reads never serve stale items.
type CacheInvalidator struct {
	prefix string
	rdb    *redis.Client
}

// NewCacheInvalidator returns an invalidator for the given key prefix;
// a nil client yields a no-op invalidator.
func NewCacheInvalidator(prefix string, rdb *redis.Client) *CacheInvalidator {
	return &CacheInvalidator{prefix: prefix, rdb: rdb}
}

// Invalidate scans and removes every key under the prefix.
func (ci *CacheInvalidator) Invalidate(ctx context.Context) {
	if ci == nil || ci.rdb == nil {
		return
	}
	iter := ci.rdb.Scan(ctx, 0, ci.prefix+":*", 100).Iterator()
	keys := make([]string, 0, 16)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		_ = ci.rdb.Del(ctx, keys...).Err()
	}
}
