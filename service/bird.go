package service

import (
	"Aviary/dao"
	"Aviary/dao/cache"
	"Aviary/models"
	"Aviary/pkg/log"
	"Aviary/pkg/rocketmq"
	"Aviary/types"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxFieldLen = 100

type BirdService struct {
	BirdDAO  *dao.BirdDAO
	Cache    *cache.BirdStorage
	Producer *rocketmq.Producer
}

var _ IBirdService = (*BirdService)(nil)

type IBirdService interface {
	List(ctx context.Context) ([]*models.Bird, error)
	Get(ctx context.Context, id uint64) (*models.Bird, error)
	Create(ctx context.Context, req *types.CreateBirdRequest) (*models.Bird, error)
	Update(ctx context.Context, id uint64, req *types.UpdateBirdRequest) (*models.Bird, error)
	Destroy(ctx context.Context, id uint64) error
	// Like 点赞 +1
	Like(ctx context.Context, id uint64) (*models.Bird, error)
}

func (s *BirdService) List(ctx context.Context) ([]*models.Bird, error) {
	birds, err := s.BirdDAO.List(ctx)
	if err != nil {
		return nil, storeErr("list birds", err)
	}
	return birds, nil
}

func (s *BirdService) Get(ctx context.Context, id uint64) (*models.Bird, error) {
	if bird, err := s.Cache.Get(ctx, id); err != nil {
		log.L.Warn("bird cache get", zap.Uint64("id", id), zap.Error(err))
	} else if bird != nil {
		return bird, nil
	}

	// 先取版本再读库, 读库期间若有写入则放弃回填
	version, verErr := s.Cache.Version(ctx, id)
	if verErr != nil {
		log.L.Warn("bird cache version", zap.Uint64("id", id), zap.Error(verErr))
	}

	bird, err := s.BirdDAO.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("get bird", err)
	}
	if verErr == nil {
		if _, err := s.Cache.SetIfVersion(ctx, bird, version); err != nil {
			log.L.Warn("bird cache set", zap.Uint64("id", id), zap.Error(err))
		}
	}
	return bird, nil
}

func (s *BirdService) Create(ctx context.Context, req *types.CreateBirdRequest) (*models.Bird, error) {
	name := strings.TrimSpace(req.Name)
	species := strings.TrimSpace(req.Species)
	if err := validate(
		required("name", name),
		maxLen("name", name),
		maxLen("species", species),
	); err != nil {
		return nil, err
	}

	bird := &models.Bird{Name: name, Species: species}
	if err := s.BirdDAO.Create(ctx, bird); err != nil {
		return nil, storeErr("create bird", err)
	}
	s.publish(ctx, types.BirdCreated, bird)
	return bird, nil
}

func (s *BirdService) Update(ctx context.Context, id uint64, req *types.UpdateBirdRequest) (*models.Bird, error) {
	if req.Empty() {
		return s.Get(ctx, id)
	}

	updates := make(map[string]any)
	checks := make([]func() error, 0, 3)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		checks = append(checks, required("name", name), maxLen("name", name))
		updates["name"] = name
	}
	if req.Species != nil {
		species := strings.TrimSpace(*req.Species)
		checks = append(checks, maxLen("species", species))
		updates["species"] = species
	}
	if req.Likes != nil {
		checks = append(checks, nonNegative("likes", *req.Likes))
		updates["likes"] = *req.Likes
	}
	if err := validate(checks...); err != nil {
		return nil, err
	}

	bird, err := s.BirdDAO.Update(ctx, id, updates)
	if err != nil {
		return nil, storeErr("update bird", err)
	}
	s.invalidate(ctx, id)
	s.publish(ctx, types.BirdUpdated, bird)
	return bird, nil
}

func (s *BirdService) Destroy(ctx context.Context, id uint64) error {
	bird, err := s.BirdDAO.Delete(ctx, id)
	if err != nil {
		return storeErr("destroy bird", err)
	}
	s.invalidate(ctx, id)
	s.publish(ctx, types.BirdDestroyed, bird)
	return nil
}

func (s *BirdService) Like(ctx context.Context, id uint64) (*models.Bird, error) {
	bird, err := s.BirdDAO.IncrLikes(ctx, id, 1)
	if err != nil {
		return nil, storeErr("like bird", err)
	}
	s.invalidate(ctx, id)
	s.publish(ctx, types.BirdLiked, bird)
	return bird, nil
}

func (s *BirdService) invalidate(ctx context.Context, id uint64) {
	if err := s.Cache.Invalidate(ctx, id); err != nil {
		log.L.Warn("bird cache invalidate", zap.Uint64("id", id), zap.Error(err))
	}
}

// publish 事件投递失败只记日志
func (s *BirdService) publish(ctx context.Context, typ string, bird *models.Bird) {
	ev := types.NewBirdEvent(typ, bird)
	if err := s.Producer.SendJSON(ctx, typ, strconv.FormatUint(bird.ID, 10), ev); err != nil {
		log.L.Warn("publish bird event",
			zap.String("type", typ),
			zap.Uint64("bird_id", bird.ID),
			zap.Error(err),
		)
	}
}

func storeErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrBirdNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}

func validate(checks ...func() error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func required(field, v string) func() error {
	return func() error {
		if v == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, field)
		}
		return nil
	}
}

func maxLen(field, v string) func() error {
	return func() error {
		if utf8.RuneCountInString(v) > maxFieldLen {
			return fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, field, maxFieldLen)
		}
		return nil
	}
}

func nonNegative(field string, v int64) func() error {
	return func() error {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, field)
		}
		return nil
	}
}
