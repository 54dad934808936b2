package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const metaKey = "responseMeta"

// ResponseMeta gives handlers a per-request metadata map that ends up in
// the envelope "meta" field.
func ResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(metaKey, map[string]interface{}{})
		c.Set("requestStart", time.Now())
		c.Next()
	}
}

// SetCacheHit records whether the response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	meta(c)["cache_hit"] = hit
}

// Meta returns the metadata collected so far, with the elapsed time.
func Meta(c *gin.Context) map[string]interface{} {
	m := meta(c)
	if value, ok := c.Get("requestStart"); ok {
		if start, ok := value.(time.Time); ok {
			m["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
	return m
}

func meta(c *gin.Context) map[string]interface{} {
	if value, ok := c.Get(metaKey); ok {
		if m, ok := value.(map[string]interface{}); ok {
			return m
		}
	}
	m := make(map[string]interface{})
	c.Set(metaKey, m)
	return m
}
