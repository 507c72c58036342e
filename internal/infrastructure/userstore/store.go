package userstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/steamexplorer/backend/internal/domain"
)

const memoryDSN = ":memory:"

// UserRecord is the GORM model of an account
type UserRecord struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:80;not null"`
	Email        string `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string `gorm:"size:255;not null"` // bcrypt hash
	CreatedAt    time.Time
}

// TableName keeps the table name stable across model renames
func (UserRecord) TableName() string { return "users" }

// Store persists accounts in SQLite
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite database at path and migrates the schema.
// ":memory:" gives a private in-process database.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open user database: %w", err)
	}

	if path == memoryDSN {
		// Every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open user database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate user database: %w", err)
	}

	return New(db), nil
}

// New wraps an already opened database
func New(db *gorm.DB) *Store { return &Store{db: db} }

// AutoMigrate creates or updates the users table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserRecord{})
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Create inserts user and fills its ID and CreatedAt
func (s *Store) Create(ctx context.Context, user *domain.User) error {
	rec := UserRecord{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: %s", domain.ErrUserExists, user.Email)
		}
		return fmt.Errorf("%w: create user: %v", domain.ErrInternal, err)
	}

	user.ID = rec.ID
	user.CreatedAt = rec.CreatedAt
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *Store) first(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var rec UserRecord
	if err := s.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: query user: %v", domain.ErrInternal, err)
	}
	return toDomain(&rec), nil
}

func toDomain(rec *UserRecord) *domain.User {
	return &domain.User{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
