package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// newID 生成带前缀的文档 ID：前缀 + 时间戳 + 随机后缀
func newID(prefix string) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand 失败时退化为纯时间戳
		return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), hex.EncodeToString(suffix))
}
