package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/delegation-planner/backend/internal/domain"
)

var ErrStatusNotFound = errors.New("任务状态不存在或已过期")

// StatusStore 在 redis 中缓存任务状态，供接口快速查询
type StatusStore struct {
	rdb        *redis.Client
	expiration time.Duration
}

func NewStatusStore(rdb *redis.Client, expiration time.Duration) *StatusStore {
	return &StatusStore{
		rdb:        rdb,
		expiration: expiration,
	}
}

func statusKey(runID string) string {
	return fmt.Sprintf("optimization_%s_status", runID)
}

func (s *StatusStore) Set(ctx context.Context, runID string, status domain.RunStatus) error {
	return s.rdb.Set(ctx, statusKey(runID), string(status), s.expiration).Err()
}

func (s *StatusStore) Get(ctx context.Context, runID string) (domain.RunStatus, error) {
	status, err := s.rdb.Get(ctx, statusKey(runID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrStatusNotFound
		}
		return "", err
	}

	return domain.RunStatus(status), nil
}
