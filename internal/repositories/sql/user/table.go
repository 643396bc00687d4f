package user

import (
	"time"

	"gorm.io/gorm"
)

const (
	tableName = "user"
	createdAt = "CreatedAt"
	updatedAt = "UpdatedAt"
)

type Table struct {
	Id        int64  `gorm:"primaryKey;autoIncrement"`
	Phone     string `gorm:"not null;uniqueIndex"`
	NickName  string `gorm:"not null"`
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
