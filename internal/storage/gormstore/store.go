// Package gormstore keeps users and contacts in PostgreSQL through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/harentsoaR/contacts-api/internal/models"
	"github.com/harentsoaR/contacts-api/internal/storage"
)

type userRow struct {
	ID           string `gorm:"primaryKey;size:20"`
	Username     string `gorm:"uniqueIndex;size:191;not null"`
	Email        string `gorm:"size:191"`
	PasswordHash string `gorm:"column:password;size:191"`
	CreatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type contactRow struct {
	ID        string `gorm:"primaryKey;size:20"`
	UserID    string `gorm:"index;size:20;not null"`
	Name      string `gorm:"size:191"`
	Email     string `gorm:"size:191"`
	Phone     string `gorm:"size:10"`
	Photo     *string
	CreatedAt time.Time
}

func (contactRow) TableName() string { return "contacts" }

type Store struct {
	db *gorm.DB

	usersMu    sync.Mutex
	contactsMu sync.Mutex
}

var _ storage.Store = (*Store)(nil)

// Open connects to dsn and auto-migrates the two tables.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s, err := New(db)
	if err != nil {
		return nil, err
	}
	log.Println("Successfully connected to PostgreSQL!")
	return s, nil
}

// New wraps an already opened gorm handle and migrates the two tables.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&userRow{}, &contactRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &models.User{ID: row.ID, Username: row.Username, Email: row.Email, PasswordHash: row.PasswordHash}, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	var ids []string
	if err := s.db.WithContext(ctx).Model(&userRow{}).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("list user ids: %w", err)
	}
	u.ID = storage.NextID(ids)
	row := userRow{ID: u.ID, Username: u.Username, Email: u.Email, PasswordHash: u.PasswordHash}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) ListContacts(ctx context.Context, userID string) ([]models.Contact, error) {
	var rows []contactRow
	// New ids always exceed existing ones, so numeric id order is insertion order.
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("length(id), id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	contacts := make([]models.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, row.toModel())
	}
	return contacts, nil
}

func (s *Store) GetContact(ctx context.Context, userID, id string) (*models.Contact, error) {
	var row contactRow
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	c := row.toModel()
	return &c, nil
}

func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	s.contactsMu.Lock()
	defer s.contactsMu.Unlock()

	var ids []string
	if err := s.db.WithContext(ctx).Model(&contactRow{}).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("list contact ids: %w", err)
	}
	c.ID = storage.NextID(ids)
	row := contactRow{ID: c.ID, UserID: c.UserID, Name: c.Name, Email: c.Email, Phone: c.Phone, Photo: c.Photo}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *Store) PutContact(ctx context.Context, c *models.Contact) error {
	result := s.db.WithContext(ctx).Model(&contactRow{}).
		Where("id = ? AND user_id = ?", c.ID, c.UserID).
		Updates(map[string]any{
			"name":  c.Name,
			"email": c.Email,
			"phone": c.Phone,
			"photo": c.Photo,
		})
	if result.Error != nil {
		return fmt.Errorf("update contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteContact(ctx context.Context, userID, id string) (*models.Contact, error) {
	var removed *models.Contact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row contactRow
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
			return err
		}
		if err := tx.Delete(&row).Error; err != nil {
			return err
		}
		c := row.toModel()
		removed = &c
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete contact: %w", err)
	}
	return removed, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r contactRow) toModel() models.Contact {
	return models.Contact{
		ID:     r.ID,
		UserID: r.UserID,
		Name:   r.Name,
		Email:  r.Email,
		Phone:  r.Phone,
		Photo:  r.Photo,
	}
}
