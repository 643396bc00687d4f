package order

import (
	"time"

	"gorm.io/gorm"
)

const (
	tableName = "voucher_order"
	createdAt = "CreatedAt"
)

// Table maps one redeemed voucher order. Id is assigned by the id generator,
// never auto-incremented. The (user_id, voucher_id) unique index is the
// defense-in-depth backstop behind the per-user lock.
type Table struct {
	Id        int64 `gorm:"primaryKey"`
	UserId    int64 `gorm:"not null;uniqueIndex:idx_user_voucher"`
	VoucherId int64 `gorm:"not null;uniqueIndex:idx_user_voucher"`
	CreatedAt time.Time
}

func (Table) TableName() string {
	return tableName
}

func (Table) BeforeCreate(tx *gorm.DB) (err error) {
	tx.Statement.SetColumn(createdAt, time.Now())
	return
}
