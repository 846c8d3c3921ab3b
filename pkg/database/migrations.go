package database

import (
	"time"

	"gorm.io/gorm"
)

// Migrations lists the schema history of the service, oldest first. Each step
// carries its own snapshot of the table so later model changes do not rewrite
// old migrations.
func Migrations() []Migration {
	return []Migration{
		{
			Version: "20210503000000_create_birds",
			Up: func(tx *gorm.DB) error {
				if tx.Migrator().HasTable(&birdV1{}) {
					return nil
				}
				return tx.Migrator().CreateTable(&birdV1{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&birdV1{})
			},
		},
		{
			Version: "20210503211033_add_likes_to_birds",
			Up: func(tx *gorm.DB) error {
				if tx.Migrator().HasColumn(&birdLikes{}, "likes") {
					return nil
				}
				return tx.Migrator().AddColumn(&birdLikes{}, "Likes")
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropColumn(&birdLikes{}, "likes")
			},
		},
	}
}

type birdV1 struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;type:varchar(100);not null"`
	Species   string    `gorm:"column:species;type:varchar(100);not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (birdV1) TableName() string { return "birds" }

type birdLikes struct {
	Likes int64 `gorm:"column:likes;type:integer;not null;default:0"`
}

func (birdLikes) TableName() string { return "birds" }
