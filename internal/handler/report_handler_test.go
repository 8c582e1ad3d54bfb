package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"gongu-report-go/internal/apperr"
	"gongu-report-go/internal/model"
	"gongu-report-go/internal/service"
	"gongu-report-go/pkg/token"
)

// mockReportService 是 service.ReportService 的测试替身。
type mockReportService struct {
	reports map[uint]*model.ReportDraft
	nextID  uint
}

func newMockReportService() *mockReportService {
	return &mockReportService{reports: map[uint]*model.ReportDraft{}, nextID: 1}
}

func (m *mockReportService) Create(ownerID uint, title, insuranceType string) (*model.ReportDraft, error) {
	if title == "" {
		return nil, apperr.Validation("报告标题不能为空")
	}
	report := &model.ReportDraft{ID: m.nextID, Title: title, InsuranceType: insuranceType, Status: model.ReportStatusDraft, OwnerID: ownerID}
	m.reports[m.nextID] = report
	m.nextID++
	return report, nil
}

func (m *mockReportService) Get(id, ownerID uint) (*model.ReportDraft, error) {
	report, ok := m.reports[id]
	if !ok || report.OwnerID != ownerID {
		return nil, apperr.NotFound("报告不存在")
	}
	return report, nil
}

func (m *mockReportService) List(ownerID uint, statusFilter, insuranceTypeFilter string, skip, limit int) ([]model.ReportDraft, int64, error) {
	var out []model.ReportDraft
	for _, r := range m.reports {
		if r.OwnerID == ownerID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockReportService) Update(id, ownerID uint, in service.ReportUpdateInput) (*model.ReportDraft, error) {
	report, err := m.Get(id, ownerID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		report.Title = *in.Title
	}
	return report, nil
}

func (m *mockReportService) UpdateChapter(id, ownerID uint, chapterType, content string) (*model.ReportDraft, error) {
	if !model.IsValidChapterType(chapterType) {
		return nil, apperr.Validationf("无效的章节类型: %s", chapterType)
	}
	report, err := m.Get(id, ownerID)
	if err != nil {
		return nil, err
	}
	report.SetChapter(chapterType, content)
	return report, nil
}

func (m *mockReportService) Delete(id, ownerID uint) error {
	if _, err := m.Get(id, ownerID); err != nil {
		return err
	}
	delete(m.reports, id)
	return nil
}

// newReportRouter 构建带有固定用户身份的测试路由。
func newReportRouter(svc service.ReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("claims", &token.CustomClaims{UserID: 1, Username: "tester"})
	})
	h := NewReportHandler(svc)
	r.POST("/reports", h.CreateReport)
	r.GET("/reports/:id", h.GetReport)
	r.PUT("/reports/:id/chapters/:chapterType", h.UpdateChapter)
	r.GET("/reports/:id/export", h.ExportReport)
	return r
}

// TestCreateReportEndpoint 验证创建报告接口的成功与校验路径。
func TestCreateReportEndpoint(t *testing.T) {
	router := newReportRouter(newMockReportService())

	body, _ := json.Marshal(gin.H{"title": "仓库火灾公估报告", "insuranceType": "企业财产险"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("创建应返回 200, got %d, body=%s", w.Code, w.Body.String())
	}

	// 缺少必填字段
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/reports", bytes.NewReader([]byte(`{"title":""}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺少必填字段应返回 400, got %d", w.Code)
	}
}

// TestGetReportEndpointNotFound 验证缺失报告与非法 ID 的响应。
func TestGetReportEndpointNotFound(t *testing.T) {
	router := newReportRouter(newMockReportService())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/42", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("缺失报告应返回 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("非法 ID 应返回 400, got %d", w.Code)
	}
}

// TestUpdateChapterEndpoint 验证章节更新接口。
func TestUpdateChapterEndpoint(t *testing.T) {
	svc := newMockReportService()
	if _, err := svc.Create(1, "报告", ""); err != nil {
		t.Fatalf("准备数据失败: %v", err)
	}
	router := newReportRouter(svc)

	body := []byte(`{"content":"公估结论内容"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/reports/1/chapters/conclusion", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("章节更新应返回 200, got %d, body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/reports/1/chapters/overview", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("非法章节应返回 400, got %d", w.Code)
	}
}

// TestExportReportEndpoint 验证导出接口的格式校验与占位响应。
func TestExportReportEndpoint(t *testing.T) {
	svc := newMockReportService()
	if _, err := svc.Create(1, "报告", ""); err != nil {
		t.Fatalf("准备数据失败: %v", err)
	}
	router := newReportRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/1/export?format=xlsx", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("非法格式应返回 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/1/export?format=docx", nil))
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("导出应返回 501 占位, got %d", w.Code)
	}
}
