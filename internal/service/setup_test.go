package service

import (
	"Agora/internal/api/config"
	"Agora/internal/model"
	redisPkg "Agora/internal/pkg/redis"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 内存 SQLite，打开错误翻译以便唯一键冲突走与 MySQL 相同的分支
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Topic{},
		&model.Post{},
		&model.Like{},
		&model.ViewRecord{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return db
}

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redisPkg.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return mr
}

func setupTestConfig(t *testing.T) {
	t.Helper()
	config.Cfg = &config.Config{
		Engagement: config.EngagementConfig{
			ViewWindowMinutes: 30,
			AllowWhenLocked:   true,
		},
		Search: config.SearchConfig{
			TrendingRetentionDays: 7,
		},
	}
}

// seedCategory 停用状态走显式 Update，绕开 gorm 对带默认值零值字段的跳过
func seedCategory(t *testing.T, db *gorm.DB, orgID uint64, name string, active bool) *model.Category {
	t.Helper()
	category := &model.Category{
		OrgID:    orgID,
		Name:     name,
		Type:     1,
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	if !active {
		if err := db.Model(category).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate category: %v", err)
		}
		category.IsActive = false
	}
	return category
}

func seedTopic(t *testing.T, db *gorm.DB, orgID, categoryID, userID uint64, title string) *model.Topic {
	t.Helper()
	topic := &model.Topic{
		OrgID:         orgID,
		CategoryID:    categoryID,
		UserID:        userID,
		Title:         title,
		Content:       "content of " + title,
		StructVersion: 1,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(topic).Error; err != nil {
		t.Fatalf("failed to seed topic: %v", err)
	}
	return topic
}

func seedPost(t *testing.T, db *gorm.DB, topicID, userID, parentID uint64, content string, createdAt time.Time) *model.Post {
	t.Helper()
	post := &model.Post{
		TopicID:   topicID,
		UserID:    userID,
		ParentID:  parentID,
		Content:   content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}
