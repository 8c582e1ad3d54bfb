package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gongu-report-go/internal/service"
	"gongu-report-go/pkg/ai"
	"gongu-report-go/pkg/log"
)

// AIHandler 负责处理 AI 章节生成相关的 API 请求。
type AIHandler struct {
	aiService service.AIService
}

// NewAIHandler 创建一个新的 AIHandler 实例。
func NewAIHandler(aiService service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// GenerateChapterRequest 定义了章节生成 API 的请求体结构。
type GenerateChapterRequest struct {
	ChapterType    string `json:"chapterType" binding:"required"`
	Context        string `json:"context"`
	PromptTemplate string `json:"promptTemplate"`
}

// GenerateChapter 处理为报告生成指定章节的请求。
func (h *AIHandler) GenerateChapter(c *gin.Context) {
	reportID, ok := parseIDParam(c, "reportId")
	if !ok {
		return
	}

	var req GenerateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("GenerateChapter: 无效的请求负载, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	claims := currentClaims(c)
	result, err := h.aiService.Generate(c.Request.Context(), reportID, claims.UserID, req.ChapterType, req.Context, req.PromptTemplate)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, result)
}

// ListHistory 处理查询报告生成历史的请求。
func (h *AIHandler) ListHistory(c *gin.Context) {
	reportID, ok := parseIDParam(c, "reportId")
	if !ok {
		return
	}
	skip, limit := parsePagination(c)

	claims := currentClaims(c)
	entries, total, err := h.aiService.ListHistory(reportID, claims.UserID, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, gin.H{"items": entries, "total": total, "skip": skip, "limit": limit})
}

// GetPromptTemplate 处理查询章节提示词模板的请求。
// 可选的 insuranceType 查询参数用于取保险类型专属模板。
func (h *AIHandler) GetPromptTemplate(c *gin.Context) {
	tpl := h.aiService.GetPromptTemplate(c.Param("chapterType"), c.Query("insuranceType"))
	success(c, tpl)
}

// ChatRequest 定义了对话 API 的请求体结构。
type ChatRequest struct {
	Message string       `json:"message" binding:"required"`
	History []ai.Message `json:"history"`
}

// Chat 处理与 AI 助手的一次同步对话请求。
func (h *AIHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Chat: 无效的请求负载, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	result, err := h.aiService.Chat(c.Request.Context(), req.Message, req.History)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, result)
}
