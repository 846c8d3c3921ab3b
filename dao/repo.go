package dao

import (
	"context"

	"gorm.io/gorm"
)

// Repo 通用仓储, embedded by the table DAOs.
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

// FindById 主键查询
func (r *Repo[T]) FindById(ctx context.Context, id any) (*T, error) {
	var item T
	if err := r.Db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindAll 查询全部, ordered by order when given.
func (r *Repo[T]) FindAll(ctx context.Context, order string) ([]*T, error) {
	items := make([]*T, 0)
	tx := r.Db.WithContext(ctx)
	if order != "" {
		tx = tx.Order(order)
	}
	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
