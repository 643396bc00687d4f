package voucher

import (
	"time"

	"gorm.io/gorm"
)

const (
	tableName = "seckill_voucher"
	createdAt = "CreatedAt"
	updatedAt = "UpdatedAt"
)

// Table maps a flash-sale voucher row. Stock is only ever mutated through the
// conditional decrement below.
type Table struct {
	VoucherId int64 `gorm:"primaryKey"`
	Stock     int   `gorm:"not null"`
	BeginTime time.Time
	EndTime   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Table) TableName() string {
	return tableName
}

func (Table) BeforeCreate(tx *gorm.DB) (err error) {
	tx.Statement.SetColumn(createdAt, time.Now())
	return
}

func (Table) BeforeUpdate(tx *gorm.DB) (err error) {
	tx.Statement.SetColumn(updatedAt, time.Now())
	return
}
