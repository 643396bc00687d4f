package user

import (
	"errors"

	"github.com/swiftcart/flashsale/pkg/infra"
	"gorm.io/gorm"
)

type Repository interface {
	GetByPhone(phone string) (*Table, error)
	Create(table *Table) error
}

type User struct {
	db *gorm.DB
}

// NewRepository creates a new user repository
func NewRepository(connection *infra.SQLConnection) (Repository, error) {
	if connection == nil {
		return nil, errors.New("connection cannot be nil")
	}
	session, err := connection.GetConn()
	if err != nil {
		return nil, err
	}
	return &User{
		db: session.(*gorm.DB),
	}, nil
}

// GetByPhone retrieves a user by phone number. Returns (nil, nil) when absent.
func (u *User) GetByPhone(phone string) (*Table, error) {
	var usr Table
	result := u.db.Where("phone = ?", phone).First(&usr)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &usr, nil
}

// Create persists a new user.
func (u *User) Create(table *Table) error {
	return u.db.Create(table).Error
}
