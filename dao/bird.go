package dao

import (
	"Aviary/models"
	"context"
	"time"

	"gorm.io/gorm"
)

type BirdDAO struct {
	Repo[models.Bird]
}

func NewBirdDAO(db *gorm.DB) *BirdDAO {
	return &BirdDAO{Repo: NewRepo[models.Bird](db)}
}

// List 按创建顺序返回全部
func (d *BirdDAO) List(ctx context.Context) ([]*models.Bird, error) {
	return d.FindAll(ctx, "id ASC")
}

// FindByID returns gorm.ErrRecordNotFound when the bird does not exist.
func (d *BirdDAO) FindByID(ctx context.Context, id uint64) (*models.Bird, error) {
	return d.FindById(ctx, id)
}

// Create 新建, likes always starts at 0
func (d *BirdDAO) Create(ctx context.Context, bird *models.Bird) error {
	bird.ID = 0
	bird.Likes = 0
	return d.Db.WithContext(ctx).Create(bird).Error
}

// Update merges the given columns into the row and returns the stored record.
// An empty update returns the current row unchanged.
func (d *BirdDAO) Update(ctx context.Context, id uint64, updates map[string]any) (*models.Bird, error) {
	var bird models.Bird
	err := d.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bird, id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&bird).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&bird, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &bird, nil
}

// Delete 物理删除, returning the row as it was when deleted.
func (d *BirdDAO) Delete(ctx context.Context, id uint64) (*models.Bird, error) {
	var bird models.Bird
	err := d.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bird, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Bird{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bird, nil
}

// IncrLikes 点赞计数增加. The increment is a single UPDATE evaluated by the
// database, so concurrent calls never lose an update. The row is read back in
// the same transaction.
func (d *BirdDAO) IncrLikes(ctx context.Context, id uint64, delta int64) (*models.Bird, error) {
	var bird models.Bird
	err := d.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Bird{}).
			Where("id = ?", id).
			UpdateColumns(map[string]any{
				"likes":      gorm.Expr("likes + ?", delta),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&bird, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &bird, nil
}
