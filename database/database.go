// File: /database/database.go
package database

import (
	"fmt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"sectornet-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Info),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Auto migrate all models
	err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.UserBlock{},
		&models.Friendship{},
		&models.FriendRequest{},
		&models.Post{},
		&models.PostVote{},
		&models.PostReaction{},
		&models.PostAudience{},
		&models.Comment{},
		&models.Group{},
		&models.GroupMember{},
		&models.GroupJoinRequest{},
		&models.Chat{},
		&models.ChatMember{},
		&models.Message{},
		&models.Notification{},
	)

	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Add custom indexes for better performance
	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Feed scans filter on sector + group + privacy and order by recency
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_feed ON posts(sector, group_id, privacy, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create feed index for posts: %v\n", err)
	}

	// Duplicate-content lookups scan by author + hash + recency
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_author_hash_created ON posts(user_id, content_hash, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create content hash index for posts: %v\n", err)
	}

	// User feed by author
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_posts_user_created ON posts(user_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create author index for posts: %v\n", err)
	}

	// Notification inbox scans
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_target_created ON notifications(target_user_id, created_at DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for notifications: %v\n", err)
	}

	// Group membership containment checks
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)").Error; err != nil {
		fmt.Printf("Warning: Could not create member index for group_members: %v\n", err)
	}

	// Friendship containment from either column
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_friendships_user2 ON friendships(user2_id)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for friendships: %v\n", err)
	}

	// Pending join request lookups per group
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_join_requests_group_status ON group_join_requests(group_id, status)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for group_join_requests: %v\n", err)
	}

	return nil
}
