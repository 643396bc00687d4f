package shop

import (
	"errors"

	"github.com/swiftcart/flashsale/pkg/infra"
	"gorm.io/gorm"
)

type Repository interface {
	GetById(id int64) (*Table, error)
	Update(table *Table) error
}

type Shop struct {
	db *gorm.DB
}

// NewRepository creates a new shop repository
func NewRepository(connection *infra.SQLConnection) (Repository, error) {
	if connection == nil {
		return nil, errors.New("connection cannot be nil")
	}
	session, err := connection.GetConn()
	if err != nil {
		return nil, err
	}
	return &Shop{
		db: session.(*gorm.DB),
	}, nil
}

// GetById retrieves a shop by its ID. Returns (nil, nil) when no row exists so
// the cache layer can record a confirmed miss.
func (s *Shop) GetById(id int64) (*Table, error) {
	var shop Table
	result := s.db.Where("id = ?", id).First(&shop)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &shop, nil
}

// Update updates a shop's information in the database.
func (s *Shop) Update(table *Table) error {
	return s.db.Model(table).Where("id = ?", table.Id).Updates(table).Error
}
