package handler

import (
	"Aviary/config"
	"Aviary/middleware"
	"Aviary/pkg/context"
	"Aviary/pkg/response"
	"Aviary/service"
	"Aviary/types"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type Bird struct {
	Config      *config.Config
	BirdService service.IBirdService
}

// RegisterRouter 只注册配置中开启的操作, disabled ones fall through to 404.
func (b *Bird) RegisterRouter(r gin.IRouter) {
	routes := b.Config.Routes
	birds := r.Group("/birds")

	if routes.IsEnabled(config.OpList) {
		birds.GET("", context.Wrap(b.List))
	}
	if routes.IsEnabled(config.OpCreate) {
		birds.POST("", context.Wrap(b.Create))
	}
	if routes.IsEnabled(config.OpShow) {
		birds.GET("/:id", context.Wrap(b.Show))
	}
	if routes.IsEnabled(config.OpUpdate) {
		birds.PATCH("/:id", context.Wrap(b.Update))
		birds.PUT("/:id", context.Wrap(b.Update))
	}
	if routes.IsEnabled(config.OpDestroy) {
		birds.DELETE("/:id", context.Wrap(b.Destroy))
	}
	if routes.IsEnabled(config.OpLike) {
		birds.PATCH("/:id/like", context.Wrap(b.Like))
	}
}

func (b *Bird) List(c *gin.Context) error {
	birds, err := b.BirdService.List(c.Request.Context())
	if err != nil {
		return birdErr(err)
	}
	response.Success(c, birds)
	return nil
}

func (b *Bird) Show(c *gin.Context) error {
	id, err := birdID(c)
	if err != nil {
		return err
	}
	bird, err := b.BirdService.Get(c.Request.Context(), id)
	if err != nil {
		return birdErr(err)
	}
	response.Success(c, bird)
	return nil
}

func (b *Bird) Create(c *gin.Context) error {
	var req types.CreateBirdRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	bird, err := b.BirdService.Create(c.Request.Context(), &req)
	if err != nil {
		return birdErr(err)
	}
	response.Created(c, bird)
	return nil
}

func (b *Bird) Update(c *gin.Context) error {
	id, err := birdID(c)
	if err != nil {
		return err
	}
	var req types.UpdateBirdRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	bird, err := b.BirdService.Update(c.Request.Context(), id, &req)
	if err != nil {
		return birdErr(err)
	}
	response.Success(c, bird)
	return nil
}

func (b *Bird) Destroy(c *gin.Context) error {
	id, err := birdID(c)
	if err != nil {
		return err
	}
	if err := b.BirdService.Destroy(c.Request.Context(), id); err != nil {
		return birdErr(err)
	}
	response.NoContent(c)
	return nil
}

func (b *Bird) Like(c *gin.Context) error {
	id, err := birdID(c)
	if err != nil {
		return err
	}
	bird, err := b.BirdService.Like(c.Request.Context(), id)
	if err != nil {
		return birdErr(err)
	}
	middleware.ObserveLike()
	response.Success(c, bird)
	return nil
}

// birdID 非数字 id 与不存在的 id 一样按 404 处理
func birdID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, response.NotFound("bird not found")
	}
	return id, nil
}

// bindJSON treats an empty body as {} so that field rules still apply.
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return response.Unprocessable(verrs.Error())
	}
	return response.BadRequest("malformed request body")
}

func birdErr(err error) error {
	switch {
	case errors.Is(err, service.ErrBirdNotFound):
		return response.NotFound("bird not found")
	case errors.Is(err, service.ErrValidation):
		return response.Unprocessable(err.Error())
	default:
		return err
	}
}
