package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/gatehouse-web/gatehouse/internal/db/models"
)

const (
	whereEmail = "email = ?"
	whereID    = "id = ?"
)

// GormStore keeps users in a SQL database through gorm.
type GormStore struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGorm creates a GormStore. The gorm.DB should be opened with TranslateError enabled.
func NewGorm(db *gorm.DB, timeout time.Duration) *GormStore {
	return &GormStore{
		db:      db,
		timeout: timeout,
	}
}

// Migrate creates or updates the users table and its unique email index.
func (s *GormStore) Migrate() error {
	return errors.Wrap(s.db.AutoMigrate(&models.User{}), "failed to migrate users")
}

// Create persists a new user.
func (s *GormStore) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	// Check if user already exists
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where(whereEmail, u.Email).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to check existing user")
	}

	if count > 0 {
		return ErrDuplicateKey
	}

	// the unique index still guards concurrent registrations
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}

		return errors.Wrap(err, "failed to create user")
	}

	return nil
}

// FindByID retrieves a user by ID.
func (s *GormStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.first(ctx, whereID, id)
}

// FindByEmail retrieves a user by email.
func (s *GormStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, whereEmail, email)
}

func (s *GormStore) first(ctx context.Context, query string, arg string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var user models.User

	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to query user")
	}

	return &user, nil
}

// Ping checks the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql db")
	}

	return sqlDB.PingContext(ctx) //nolint:wrapcheck
}

// Close closes the underlying connection pool.
func (s *GormStore) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql db")
	}

	return sqlDB.Close() //nolint:wrapcheck
}
