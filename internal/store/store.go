package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
)

var (
	// ErrNotFound 路径上不存在文档
	ErrNotFound = errors.New("文档不存在")
	// ErrConflict 乐观并发更新多次重试后仍失败
	ErrConflict = errors.New("并发更新冲突")
)

// 乐观锁最大重试次数
const guardedUpdateRetries = 5

// Store 层级键值存储适配器。
// 文档以 JSON 形式存储在路径键下（users/{id}、qr_codes/{id} 等），
// 单个路径写入为 last-write-wins，跨路径无事务保证。
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Set 写入文档（整体覆盖）
func (s *Store) Set(ctx context.Context, path string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return s.client.Set(ctx, path, data, 0).Err()
}

// Get 读取文档，不存在时返回 (false, nil)
func (s *Store) Get(ctx context.Context, path string, out interface{}) (bool, error) {
	data, err := s.client.Get(ctx, path).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return true, nil
}

// Update 合并更新文档的部分字段（读取-合并-写回）
func (s *Store) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	data, err := s.client.Get(ctx, path).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}
	for k, v := range fields {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return s.client.Set(ctx, path, merged, 0).Err()
}

// Delete 删除文档
func (s *Store) Delete(ctx context.Context, path string) error {
	return s.client.Del(ctx, path).Err()
}

// Exists 判断文档是否存在
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	n, err := s.client.Exists(ctx, path).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List 列出前缀下的全部文档，key 为完整路径
func (s *Store) List(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	pattern := prefix + "/*"
	result := make(map[string]json.RawMessage)

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue // 扫描与读取之间被删除
				}
				return nil, err
			}
			result[key] = json.RawMessage(data)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return result, nil
}

// QueryByField 按字段值等值查询前缀下的文档，key 为完整路径
func (s *Store) QueryByField(ctx context.Context, prefix, field, value string) (map[string]json.RawMessage, error) {
	all, err := s.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	result := make(map[string]json.RawMessage)
	for key, raw := range all {
		var doc map[string]interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		if v, ok := doc[field].(string); ok && v == value {
			result[key] = raw
		}
	}
	return result, nil
}

// GuardedUpdate 对单个路径做条件写（WATCH/MULTI 乐观锁）。
// fn 收到当前文档内容，返回新内容；fn 返回的业务错误原样透传。
// 写入前若该键被并发修改则整体重试，超过次数返回 ErrConflict。
func (s *Store) GuardedUpdate(ctx context.Context, path string, fn func(raw []byte) ([]byte, error)) error {
	for i := 0; i < guardedUpdateRetries; i++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, path).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return ErrNotFound
				}
				return err
			}

			next, err := fn(raw)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, path, next, 0)
				return nil
			})
			return err
		}, path)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}

// IDFromPath 从完整路径取出文档 ID
func IDFromPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
