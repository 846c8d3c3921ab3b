package types

import (
	"Aviary/models"
	"time"

	"github.com/google/uuid"
)

// CreateBirdRequest 新建鸟类
type CreateBirdRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Species string `json:"species" binding:"max=100"`
}

// UpdateBirdRequest 局部更新, nil fields are left untouched.
type UpdateBirdRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=100"`
	Species *string `json:"species" binding:"omitempty,max=100"`
	Likes   *int64  `json:"likes" binding:"omitempty,min=0"`
}

// Empty reports whether the request carries no field at all.
func (r *UpdateBirdRequest) Empty() bool {
	return r.Name == nil && r.Species == nil && r.Likes == nil
}

// BirdEvent types
const (
	BirdCreated   = "created"
	BirdUpdated   = "updated"
	BirdLiked     = "liked"
	BirdDestroyed = "destroyed"
)

// BirdEvent is published after every successful mutation.
type BirdEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	BirdID     uint64    `json:"bird_id"`
	Likes      int64     `json:"likes"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBirdEvent(typ string, bird *models.Bird) *BirdEvent {
	return &BirdEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		BirdID:     bird.ID,
		Likes:      bird.Likes,
		OccurredAt: time.Now(),
	}
}
