package shop

import (
	"time"

	"gorm.io/gorm"
)

const (
	tableName = "shop"
	createdAt = "CreatedAt"
	updatedAt = "UpdatedAt"
)

type Table struct {
	Id       int64  `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Address  string `json:"address"`
	AvgPrice int    `json:"avgPrice"`
	Score    int    `json:"score"`
	// Comments is the review count shown next to the score.
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
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
