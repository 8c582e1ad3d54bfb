package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gongu-report-go/internal/service"
	"gongu-report-go/pkg/log"
	"gongu-report-go/pkg/token"
)

// ReportHandler 负责处理所有与公估报告相关的 API 请求。
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler 创建一个新的 ReportHandler 实例。
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// currentClaims 从上下文中取出认证中间件写入的用户声明。
func currentClaims(c *gin.Context) *token.CustomClaims {
	claimsValue, _ := c.Get("claims")
	return claimsValue.(*token.CustomClaims)
}

// CreateReportRequest 定义了创建报告 API 的请求体结构。
type CreateReportRequest struct {
	Title         string `json:"title" binding:"required"`
	InsuranceType string `json:"insuranceType" binding:"required"`
}

// CreateReport 处理创建新报告草稿的请求。
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateReport: 无效的请求负载, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	claims := currentClaims(c)
	report, err := h.reportService.Create(claims.UserID, req.Title, req.InsuranceType)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, report)
}

// ListReports 处理分页查询当前用户报告列表的请求。
func (h *ReportHandler) ListReports(c *gin.Context) {
	skip, limit := parsePagination(c)
	claims := currentClaims(c)

	reports, total, err := h.reportService.List(claims.UserID, c.Query("status"), c.Query("insuranceType"), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, gin.H{"items": reports, "total": total, "skip": skip, "limit": limit})
}

// GetReport 处理获取单个报告详情的请求。
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	claims := currentClaims(c)
	report, err := h.reportService.Get(id, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, report)
}

// UpdateReportRequest 定义了部分更新报告 API 的请求体结构。
// 所有字段可选，缺省字段保持原值。
type UpdateReportRequest struct {
	Title             *string `json:"title"`
	InsuranceType     *string `json:"insuranceType"`
	Status            *string `json:"status"`
	AccidentDetails   *string `json:"accidentDetails"`
	PolicySummary     *string `json:"policySummary"`
	SiteInvestigation *string `json:"siteInvestigation"`
	CauseAnalysis     *string `json:"causeAnalysis"`
	LossAssessment    *string `json:"lossAssessment"`
	Conclusion        *string `json:"conclusion"`
}

// UpdateReport 处理部分更新报告的请求。
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateReport: 无效的请求负载, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	claims := currentClaims(c)
	report, err := h.reportService.Update(id, claims.UserID, service.ReportUpdateInput{
		Title:             req.Title,
		InsuranceType:     req.InsuranceType,
		Status:            req.Status,
		AccidentDetails:   req.AccidentDetails,
		PolicySummary:     req.PolicySummary,
		SiteInvestigation: req.SiteInvestigation,
		CauseAnalysis:     req.CauseAnalysis,
		LossAssessment:    req.LossAssessment,
		Conclusion:        req.Conclusion,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, report)
}

// UpdateChapterRequest 定义了更新单个章节 API 的请求体结构。
type UpdateChapterRequest struct {
	Content string `json:"content"`
}

// UpdateChapter 处理更新报告单个章节内容的请求。
func (h *ReportHandler) UpdateChapter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateChapter: 无效的请求负载, error: %v", err)
		fail(c, http.StatusBadRequest, "无效的请求负载")
		return
	}

	claims := currentClaims(c)
	report, err := h.reportService.UpdateChapter(id, claims.UserID, c.Param("chapterType"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, report)
}

// DeleteReport 处理删除报告的请求。
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	claims := currentClaims(c)
	if err := h.reportService.Delete(id, claims.UserID); err != nil {
		respondError(c, err)
		return
	}
	success(c, gin.H{"message": "报告删除成功"})
}

// ExportReport 处理导出报告的请求。
// 文档渲染尚未接入，校验通过后返回 501。
func (h *ReportHandler) ExportReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "docx")
	if format != "docx" && format != "pdf" {
		fail(c, http.StatusBadRequest, "不支持的导出格式，仅支持 docx/pdf")
		return
	}

	claims := currentClaims(c)
	if _, err := h.reportService.Get(id, claims.UserID); err != nil {
		respondError(c, err)
		return
	}
	fail(c, http.StatusNotImplemented, "报告导出功能暂未开放")
}
