package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"ProjectQuake/internal/session"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const snapshotKey = "quakeproof:session:snapshot"

type redisMirror struct {
	client *redis.Client
}

// New connects to Redis using REDIS_ADDRESS/REDIS_PASSWORD/REDIS_DB and
// returns a session mirror, or nil when no address is configured. A failed
// ping is logged, not fatal: the mirror is best effort by contract.
func New() session.Mirror {
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		return nil
	}

	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisMirror{client: client}
}

func (r *redisMirror) SaveSnapshot(ctx context.Context, snap session.Snapshot) error {
	payload, err := jsoniter.Marshal(snap)
	if err != nil {
		logrus.Error(fmt.Sprintf("Error marshaling session snapshot: %v", err))
		return err
	}

	if err := r.client.Set(ctx, snapshotKey, payload, 0).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error persisting session snapshot: %v", err))
		return err
	}
	return nil
}

func (r *redisMirror) LoadSnapshot(ctx context.Context) (session.Snapshot, bool, error) {
	val, err := r.client.Get(ctx, snapshotKey).Result()
	if errors.Is(err, redis.Nil) {
		return session.Snapshot{}, false, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error loading session snapshot: %v", err))
		return session.Snapshot{}, false, err
	}

	var snap session.Snapshot
	if err := jsoniter.Unmarshal([]byte(val), &snap); err != nil {
		logrus.Error(fmt.Sprintf("Error unmarshaling session snapshot: %v", err))
		return session.Snapshot{}, false, err
	}
	return snap, true, nil
}
