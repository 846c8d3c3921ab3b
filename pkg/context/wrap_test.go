package context

import (
	"Aviary/pkg/response"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func serve(h HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", Wrap(h))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestWrap_BizErrorUsesItsStatus(t *testing.T) {
	w := serve(func(c *gin.Context) error {
		return fmt.Errorf("show: %w", response.NotFound("bird not found"))
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.EqualValues(t, 404, gjson.Get(w.Body.String(), "code").Int())
	assert.Equal(t, "bird not found", gjson.Get(w.Body.String(), "msg").String())
}

func TestWrap_UnknownErrorIs500(t *testing.T) {
	w := serve(func(c *gin.Context) error {
		return errors.New("dial tcp: connection refused")
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestWrap_WrittenResponseIsKept(t *testing.T) {
	w := serve(func(c *gin.Context) error {
		response.Success(c, "ok")
		return errors.New("late")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", gjson.Get(w.Body.String(), "data").String())
}
