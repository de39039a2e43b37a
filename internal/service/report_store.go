package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// MemoryReportStore keeps the last import report in process memory.
type MemoryReportStore struct {
	mu     sync.RWMutex
	report *ImportReport
}

// NewMemoryReportStore returns an empty in-process report store.
func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{}
}

// Save replaces the stored report with a copy of r.
func (s *MemoryReportStore) Save(_ context.Context, r *ImportReport) error {
	cp := *r
	cp.FailedAccounts = append([]FailedItem(nil), r.FailedAccounts...)
	s.mu.Lock()
	s.report = &cp
	s.mu.Unlock()
	return nil
}

// Load returns a copy of the stored report, or nil.
func (s *MemoryReportStore) Load(_ context.Context) (*ImportReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil, nil
	}
	cp := *s.report
	cp.FailedAccounts = append([]FailedItem{}, s.report.FailedAccounts...)
	return &cp, nil
}

// ImportReportKey is the Redis key holding the last import report.
const ImportReportKey = "store:import_report"

// RedisReportStore keeps the last import report in Redis, shared by every
// server instance.
type RedisReportStore struct {
	Client redis.Cmdable
}

// NewRedisReportStore returns a report store over client.
func NewRedisReportStore(client redis.Cmdable) *RedisReportStore {
	return &RedisReportStore{Client: client}
}

// Save stores r as JSON without expiry.
func (s *RedisReportStore) Save(ctx context.Context, r *ImportReport) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal import report: %w", err)
	}
	if err := s.Client.Set(ctx, ImportReportKey, string(data), 0).Err(); err != nil {
		return fmt.Errorf("failed to set import report in redis: %w", err)
	}
	return nil
}

// Load returns the stored report, or nil when the key is absent.
func (s *RedisReportStore) Load(ctx context.Context) (*ImportReport, error) {
	val, err := s.Client.Get(ctx, ImportReportKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import report from redis: %w", err)
	}
	var r ImportReport
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal import report from redis: %w", err)
	}
	return &r, nil
}
