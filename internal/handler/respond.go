// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gongu-report-go/internal/apperr"
	"gongu-report-go/internal/service"
	"gongu-report-go/pkg/log"
)

// success 以统一的响应结构返回数据。
func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": data})
}

// fail 以统一的响应结构返回错误。
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"code": status, "message": message, "data": nil})
}

// respondError 把业务层错误映射到 HTTP 状态码。
// 未识别的错误统一按 500 处理，不向客户端透出内部细节。
func respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrFileTooLarge) {
		fail(c, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.KindNotFound:
			fail(c, http.StatusNotFound, appErr.Message)
		case apperr.KindValidation, apperr.KindConflict:
			fail(c, http.StatusBadRequest, appErr.Message)
		case apperr.KindGeneration:
			fail(c, http.StatusInternalServerError, appErr.Message)
		default:
			fail(c, http.StatusInternalServerError, appErr.Message)
		}
		return
	}

	log.Error("请求处理失败", err)
	fail(c, http.StatusInternalServerError, "服务器内部错误")
}

// parsePagination 从查询参数解析 skip/limit，非法值由 service 层归一化。
func parsePagination(c *gin.Context) (int, int) {
	skip := queryInt(c, "skip", 0)
	limit := queryInt(c, "limit", 20)
	return skip, limit
}

// queryInt 解析整型查询参数，解析失败返回默认值。
func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// parseIDParam 解析路径中的数值 ID 参数。
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "无效的ID格式")
		return 0, false
	}
	return uint(id), true
}
