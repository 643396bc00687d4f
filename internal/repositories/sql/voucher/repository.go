package voucher

import (
	"errors"

	"github.com/swiftcart/flashsale/pkg/infra"
	"gorm.io/gorm"
)

type Repository interface {
	GetById(voucherId int64) (*Table, error)
	// DecrementStock applies "stock = stock - 1 where stock > 0" as a single
	// conditional update. Returns true iff a row was decremented.
	DecrementStock(voucherId int64) (bool, error)
}

type Voucher struct {
	db *gorm.DB
}

// NewRepository creates a new voucher repository
func NewRepository(connection *infra.SQLConnection) (Repository, error) {
	if connection == nil {
		return nil, errors.New("connection cannot be nil")
	}
	session, err := connection.GetConn()
	if err != nil {
		return nil, err
	}
	return &Voucher{
		db: session.(*gorm.DB),
	}, nil
}

// GetById retrieves a voucher by its ID.
func (v *Voucher) GetById(voucherId int64) (*Table, error) {
	var voucher Table
	result := v.db.Where("voucher_id = ?", voucherId).First(&voucher)
	return &voucher, result.Error
}

// DecrementStock decrements the remaining stock iff it is still positive. The
// store evaluates the predicate and the mutation atomically, which is what
// makes oversell impossible regardless of application-side interleavings.
func (v *Voucher) DecrementStock(voucherId int64) (bool, error) {
	result := v.db.Model(&Table{}).
		Where("voucher_id = ? AND stock > 0", voucherId).
		UpdateColumn("stock", gorm.Expr("stock - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
