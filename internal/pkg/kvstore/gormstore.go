package kvstore

import (
	"context"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// kvRecord is one stored key.
type kvRecord struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:longtext"`
	UpdatedAt time.Time
}

func (kvRecord) TableName() string { return "storefront_kv" }

// GormStore keeps values as rows in a relational table, for deployments that
// already run MySQL and want the client state inspectable there.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens a MySQL connection from dsn and migrates the kv table.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return NewGormStoreDB(db)
}

// NewGormStoreDB wraps an existing gorm handle.
func NewGormStoreDB(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&kvRecord{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var rec kvRecord
	tx := s.db.WithContext(ctx).Limit(1).Find(&rec, "`key` = ?", key)
	if tx.Error != nil || tx.RowsAffected == 0 {
		return "", false, tx.Error
	}
	return rec.Value, true, nil
}

func (s *GormStore) Set(ctx context.Context, key, value string) error {
	rec := kvRecord{}
	return s.db.WithContext(ctx).
		Where(kvRecord{Key: key}).
		Assign(kvRecord{Value: value, UpdatedAt: time.Now()}).
		FirstOrCreate(&rec).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&kvRecord{}, "`key` = ?", key).Error
}
