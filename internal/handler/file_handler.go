package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gongu-report-go/internal/service"
	"gongu-report-go/pkg/log"
)

// FileHandler 负责处理文件上传与 OCR 结果查询相关的 API 请求。
type FileHandler struct {
	fileService service.FileService
}

// NewFileHandler 创建一个新的 FileHandler 实例。
func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// UploadFile 处理 multipart 文件上传请求。
// 可选的 report_id 表单字段用于把文件关联到某个报告。
func (h *FileHandler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warnf("UploadFile: 未找到上传文件, error: %v", err)
		fail(c, http.StatusBadRequest, "缺少上传文件")
		return
	}

	var reportID *uint
	if raw := c.PostForm("report_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			fail(c, http.StatusBadRequest, "无效的报告ID格式")
			return
		}
		rid := uint(id)
		reportID = &rid
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error("UploadFile: 打开上传文件失败", err)
		fail(c, http.StatusInternalServerError, "读取上传文件失败")
		return
	}
	defer src.Close()

	claims := currentClaims(c)
	file, err := h.fileService.Upload(
		c.Request.Context(),
		claims.UserID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		src,
		reportID,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, file)
}

// ListFiles 处理分页查询当前用户上传文件的请求。
func (h *FileHandler) ListFiles(c *gin.Context) {
	skip, limit := parsePagination(c)

	var reportID *uint
	if raw := c.Query("reportId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			fail(c, http.StatusBadRequest, "无效的报告ID格式")
			return
		}
		rid := uint(id)
		reportID = &rid
	}

	claims := currentClaims(c)
	files, total, err := h.fileService.List(claims.UserID, reportID, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, gin.H{"items": files, "total": total, "skip": skip, "limit": limit})
}

// GetOCRResult 处理查询文件 OCR 状态与识别结果的请求。
func (h *FileHandler) GetOCRResult(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	claims := currentClaims(c)
	result, err := h.fileService.GetOCRResult(id, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, result)
}

// DeleteFile 处理删除上传文件的请求。
func (h *FileHandler) DeleteFile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	claims := currentClaims(c)
	if err := h.fileService.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		respondError(c, err)
		return
	}
	success(c, gin.H{"message": "文件删除成功"})
}

// SearchFiles 处理在 OCR 识别文本中全文检索的请求。
func (h *FileHandler) SearchFiles(c *gin.Context) {
	skip, limit := parsePagination(c)

	claims := currentClaims(c)
	hits, err := h.fileService.Search(c.Request.Context(), claims.UserID, c.Query("q"), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, gin.H{"items": hits, "total": len(hits)})
}
