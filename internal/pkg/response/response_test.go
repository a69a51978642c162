package response

import (
	"Agora/internal/api/dto"
	"Agora/internal/service"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callError(t *testing.T, err error) *dto.Response {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, err)

	var body dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return &body
}

func TestErrorMappedBusinessError(t *testing.T) {
	body := callError(t, service.ErrTopicNotFound)
	assert.Equal(t, NotFound, body.Code)
	assert.Equal(t, service.ErrTopicNotFound.Error(), body.Message)
}

func TestErrorUnmappedHidesDetail(t *testing.T) {
	body := callError(t, errors.New("dial tcp 127.0.0.1:3306: connection refused"))
	assert.Equal(t, InternalServerError, body.Code)
	// 内部错误细节不回传给调用方
	assert.Equal(t, service.UnExpectedError.Error(), body.Message)
}
