package order

import (
	"errors"

	"github.com/swiftcart/flashsale/pkg/infra"
	"gorm.io/gorm"
)

type Repository interface {
	Create(table *Table) error
	CountByUserAndVoucher(userId, voucherId int64) (int64, error)
}

type Order struct {
	db *gorm.DB
}

// NewRepository creates a new order repository
func NewRepository(connection *infra.SQLConnection) (Repository, error) {
	if connection == nil {
		return nil, errors.New("connection cannot be nil")
	}
	session, err := connection.GetConn()
	if err != nil {
		return nil, err
	}
	return &Order{
		db: session.(*gorm.DB),
	}, nil
}

// Create persists a new voucher order.
func (o *Order) Create(table *Table) error {
	return o.db.Create(table).Error
}

// CountByUserAndVoucher returns how many orders the user already holds for the voucher.
func (o *Order) CountByUserAndVoucher(userId, voucherId int64) (int64, error) {
	var count int64
	result := o.db.Model(&Table{}).
		Where("user_id = ? AND voucher_id = ?", userId, voucherId).
		Count(&count)
	return count, result.Error
}
