package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gongu-report-go/internal/service"
	"gongu-report-go/pkg/log"
)

// TemplateHandler 负责处理报告模板管理相关的 API 请求。
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler 创建一个新的 TemplateHandler 实例。
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// ListTemplates 处理分页查询模板列表的请求，可按类型过滤。
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	skip, limit := parsePagination(c)

	templates, total, err := h.templateService.List(c.Query("type"), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, gin.H{"items": templates, "total": total, "skip": skip, "limit": limit})
}

// GetTemplate 处理获取单个模板详情的请求。
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tpl, err := h.templateService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, tpl)
}

// CreateTemplateRequest 定义了创建模板 API 的请求体结构。
type CreateTemplateRequest struct {
	TemplateType string `json:"templateType" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Content      string `json:"content" binding:"required"`
}

// CreateTemplate 处理创建用户自定义模板的请求。
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateTemplate: 无效的请求负载, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	claims := currentClaims(c)
	tpl, err := h.templateService.Create(claims.UserID, req.TemplateType, req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, tpl)
}

// UpdateTemplateRequest 定义了部分更新模板 API 的请求体结构。
type UpdateTemplateRequest struct {
	TemplateType *string `json:"templateType"`
	Title        *string `json:"title"`
	Content      *string `json:"content"`
}

// UpdateTemplate 处理部分更新模板的请求。
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateTemplate: 无效的请求负载, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	tpl, err := h.templateService.Update(id, service.TemplateUpdateInput{
		TemplateType: req.TemplateType,
		Title:        req.Title,
		Content:      req.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, tpl)
}

// DeleteTemplate 处理删除模板的请求，默认模板不可删除。
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	success(c, gin.H{"message": "模板删除成功"})
}

// ListAvailableTypes 处理查询可用模板类型目录的请求。
func (h *TemplateHandler) ListAvailableTypes(c *gin.Context) {
	success(c, h.templateService.AvailableTypes())
}
