package repository

import (
	"context"
	"encoding/json"
	"skillup_backend/internal/model"
	"skillup_backend/pkg/logger"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const courseCacheKeyPrefix = "course:"

// RedisCourseCache 基于 Redis 的课程缓存
type RedisCourseCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewRedisCourseCache(rdb *redis.Client, ttl time.Duration) *RedisCourseCache {
	return &RedisCourseCache{Redis: rdb, TTL: ttl}
}

func (c *RedisCourseCache) Get(ctx context.Context, id string) (*model.Course, bool) {
	val, err := c.Redis.Get(ctx, courseCacheKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Log.Warn("course cache read failed", zap.String("courseId", id), zap.Error(err))
		return nil, false
	}

	var course model.Course
	if err := json.Unmarshal([]byte(val), &course); err != nil {
		c.Redis.Del(ctx, courseCacheKeyPrefix+id)
		return nil, false
	}
	// 序列化时未保留 CourseID 等内部字段，这里补齐
	course.Normalize()
	return &course, true
}

func (c *RedisCourseCache) Set(ctx context.Context, course *model.Course) {
	data, err := json.Marshal(course)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, courseCacheKeyPrefix+course.ID, data, c.TTL).Err(); err != nil {
		logger.Log.Warn("course cache write failed", zap.String("courseId", course.ID), zap.Error(err))
	}
}

// MemoryCourseCache 进程内缓存，未启用 Redis 时使用
type MemoryCourseCache struct {
	mu      sync.RWMutex
	courses map[string]*model.Course
}

func NewMemoryCourseCache() *MemoryCourseCache {
	return &MemoryCourseCache{courses: make(map[string]*model.Course)}
}

func (c *MemoryCourseCache) Get(ctx context.Context, id string) (*model.Course, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	course, ok := c.courses[id]
	return course, ok
}

func (c *MemoryCourseCache) Set(ctx context.Context, course *model.Course) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses[course.ID] = course
}
