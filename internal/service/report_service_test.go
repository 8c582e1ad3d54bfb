package service

import (
	"testing"

	"gongu-report-go/internal/apperr"
	"gongu-report-go/internal/model"
	"gongu-report-go/internal/repository"
)

func newReportService(t *testing.T) ReportService {
	t.Helper()
	return NewReportService(repository.NewReportRepository(newTestDB(t)))
}

// TestCreateReportValidation 验证创建报告时的参数校验。
func TestCreateReportValidation(t *testing.T) {
	svc := newReportService(t)

	if _, err := svc.Create(1, "", model.InsuranceTypeAuto); !apperr.IsValidation(err) {
		t.Fatalf("空标题应返回校验错误, got %v", err)
	}
	if _, err := svc.Create(1, "报告", "航空险"); !apperr.IsValidation(err) {
		t.Fatalf("非法保险类型应返回校验错误, got %v", err)
	}

	report, err := svc.Create(1, "仓库火灾公估报告", model.InsuranceTypeEnterpriseProperty)
	if err != nil {
		t.Fatalf("创建报告失败: %v", err)
	}
	if report.Status != model.ReportStatusDraft {
		t.Fatalf("新报告状态应为 draft, got %s", report.Status)
	}
	if report.OwnerID != 1 {
		t.Fatalf("OwnerID 应为创建者, got %d", report.OwnerID)
	}
}

// TestUpdateReportPartial 验证部分更新只改动提供的字段。
func TestUpdateReportPartial(t *testing.T) {
	svc := newReportService(t)

	report, err := svc.Create(1, "原标题", model.InsuranceTypeAuto)
	if err != nil {
		t.Fatalf("创建报告失败: %v", err)
	}

	newStatus := model.ReportStatusReview
	content := "事故发生于2026年8月。"
	updated, err := svc.Update(report.ID, 1, ReportUpdateInput{
		Status:          &newStatus,
		AccidentDetails: &content,
	})
	if err != nil {
		t.Fatalf("更新报告失败: %v", err)
	}
	if updated.Title != "原标题" {
		t.Fatalf("未提供的字段不应改变, title=%s", updated.Title)
	}
	if updated.Status != model.ReportStatusReview || updated.AccidentDetails != content {
		t.Fatalf("提供的字段应被更新")
	}

	bad := "terminated"
	if _, err := svc.Update(report.ID, 1, ReportUpdateInput{Status: &bad}); !apperr.IsValidation(err) {
		t.Fatalf("非法状态应返回校验错误, got %v", err)
	}

	// 非属主更新
	if _, err := svc.Update(report.ID, 2, ReportUpdateInput{Title: &content}); !apperr.IsNotFound(err) {
		t.Fatalf("非属主更新应返回未找到, got %v", err)
	}
}

// TestUpdateChapter 验证单章节更新及章节标识校验。
func TestUpdateChapter(t *testing.T) {
	svc := newReportService(t)

	report, err := svc.Create(1, "报告", model.InsuranceTypeAuto)
	if err != nil {
		t.Fatalf("创建报告失败: %v", err)
	}

	if _, err := svc.UpdateChapter(report.ID, 1, "summary", "x"); !apperr.IsValidation(err) {
		t.Fatalf("非法章节标识应返回校验错误, got %v", err)
	}

	updated, err := svc.UpdateChapter(report.ID, 1, model.ChapterConclusion, "不属于保险责任范围。")
	if err != nil {
		t.Fatalf("更新章节失败: %v", err)
	}
	if updated.Conclusion != "不属于保险责任范围。" {
		t.Fatalf("章节内容未更新")
	}
}

// TestListReportsValidatesFilters 验证过滤值在查询前校验。
func TestListReportsValidatesFilters(t *testing.T) {
	svc := newReportService(t)

	if _, _, err := svc.List(1, "done", "", 0, 20); !apperr.IsValidation(err) {
		t.Fatalf("非法状态过滤应返回校验错误, got %v", err)
	}
	if _, _, err := svc.List(1, "", "航空险", 0, 20); !apperr.IsValidation(err) {
		t.Fatalf("非法保险类型过滤应返回校验错误, got %v", err)
	}
}

// TestDeleteReport 验证删除的归属检查与未找到语义。
func TestDeleteReport(t *testing.T) {
	svc := newReportService(t)

	report, err := svc.Create(1, "报告", "")
	if err != nil {
		t.Fatalf("创建报告失败: %v", err)
	}

	if err := svc.Delete(report.ID, 2); !apperr.IsNotFound(err) {
		t.Fatalf("非属主删除应返回未找到, got %v", err)
	}
	if err := svc.Delete(report.ID, 1); err != nil {
		t.Fatalf("属主删除失败: %v", err)
	}
	if err := svc.Delete(report.ID, 1); !apperr.IsNotFound(err) {
		t.Fatalf("重复删除应返回未找到, got %v", err)
	}
}
