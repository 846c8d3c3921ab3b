package models

import "time"

// Bird 鸟类记录
// 对应表 birds
type Bird struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Species   string    `gorm:"column:species;type:varchar(100);not null;default:''" json:"species"`
	Likes     int64     `gorm:"column:likes;not null;default:0" json:"likes"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Bird) TableName() string {
	return "birds"
}
