package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BizError 业务错误, Code doubles as the HTTP status.
type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

func NotFound(msg string) *BizError {
	return NewError(http.StatusNotFound, msg)
}

func BadRequest(msg string) *BizError {
	return NewError(http.StatusBadRequest, msg)
}

func Unprocessable(msg string) *BizError {
	return NewError(http.StatusUnprocessableEntity, msg)
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
