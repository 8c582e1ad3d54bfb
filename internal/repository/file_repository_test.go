package repository

import (
	"testing"

	"gongu-report-go/internal/model"
)

// seedFile 插入一条处于指定 OCR 状态的文件记录。
func seedFile(t *testing.T, repo FileRepository, status string) *model.UploadedFile {
	t.Helper()
	file := &model.UploadedFile{
		Filename:         "abc123.pdf",
		OriginalFilename: "理赔材料.pdf",
		ObjectPath:       "uploads/abc123.pdf",
		FileType:         "application/pdf",
		FileSize:         1024,
		OCRStatus:        status,
		UploaderID:       1,
	}
	if err := repo.Create(file); err != nil {
		t.Fatalf("创建文件记录失败: %v", err)
	}
	return file
}

// TestTransitionOCRStatusCAS 验证状态推进只在前置状态匹配时生效。
func TestTransitionOCRStatusCAS(t *testing.T) {
	repo := NewFileRepository(newTestDB(t))
	file := seedFile(t, repo, model.OCRStatusPending)

	changed, err := repo.TransitionOCRStatus(file.ID, model.OCRStatusPending, model.OCRStatusProcessing)
	if err != nil {
		t.Fatalf("状态推进失败: %v", err)
	}
	if !changed {
		t.Fatalf("pending -> processing 应当成功")
	}

	// 重复推进：前置状态已不是 pending
	changed, err = repo.TransitionOCRStatus(file.ID, model.OCRStatusPending, model.OCRStatusProcessing)
	if err != nil {
		t.Fatalf("状态推进失败: %v", err)
	}
	if changed {
		t.Fatalf("重复推进不应产生变更")
	}
}

// TestSaveOCRResultOnlyFromProcessing 验证识别结果只能写入 processing 状态的记录。
func TestSaveOCRResultOnlyFromProcessing(t *testing.T) {
	repo := NewFileRepository(newTestDB(t))

	pending := seedFile(t, repo, model.OCRStatusPending)
	saved, err := repo.SaveOCRResult(pending.ID, "识别文本", 0.9)
	if err != nil {
		t.Fatalf("写入结果失败: %v", err)
	}
	if saved {
		t.Fatalf("pending 状态不应允许写入结果")
	}

	processing := seedFile(t, repo, model.OCRStatusProcessing)
	saved, err = repo.SaveOCRResult(processing.ID, "识别文本", 0.95)
	if err != nil {
		t.Fatalf("写入结果失败: %v", err)
	}
	if !saved {
		t.Fatalf("processing 状态应允许写入结果")
	}

	got, err := repo.FindByID(processing.ID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.OCRStatus != model.OCRStatusCompleted {
		t.Fatalf("写入结果后状态应为 completed, got %s", got.OCRStatus)
	}
	if got.OCRText == nil || *got.OCRText != "识别文本" {
		t.Fatalf("识别文本未正确写入")
	}
	if got.OCRConfidence == nil || *got.OCRConfidence != 0.95 {
		t.Fatalf("置信度未正确写入")
	}
}

// TestMarkOCRFailedNoRegression 验证终态记录不会被标记为失败。
func TestMarkOCRFailedNoRegression(t *testing.T) {
	repo := NewFileRepository(newTestDB(t))

	processing := seedFile(t, repo, model.OCRStatusProcessing)
	if err := repo.MarkOCRFailed(processing.ID); err != nil {
		t.Fatalf("标记失败出错: %v", err)
	}
	got, _ := repo.FindByID(processing.ID)
	if got.OCRStatus != model.OCRStatusFailed {
		t.Fatalf("processing 应可标记为 failed, got %s", got.OCRStatus)
	}

	completed := seedFile(t, repo, model.OCRStatusCompleted)
	if err := repo.MarkOCRFailed(completed.ID); err != nil {
		t.Fatalf("标记失败出错: %v", err)
	}
	got, _ = repo.FindByID(completed.ID)
	if got.OCRStatus != model.OCRStatusCompleted {
		t.Fatalf("completed 状态不允许回退, got %s", got.OCRStatus)
	}
}

// TestFindByUploaderFilter 验证上传者与报告过滤。
func TestFindByUploaderFilter(t *testing.T) {
	repo := NewFileRepository(newTestDB(t))

	rid := uint(7)
	files := []model.UploadedFile{
		{Filename: "a.pdf", OriginalFilename: "a.pdf", ObjectPath: "uploads/a.pdf", FileSize: 1, OCRStatus: model.OCRStatusPending, UploaderID: 1, ReportID: &rid},
		{Filename: "b.pdf", OriginalFilename: "b.pdf", ObjectPath: "uploads/b.pdf", FileSize: 1, OCRStatus: model.OCRStatusPending, UploaderID: 1},
		{Filename: "c.pdf", OriginalFilename: "c.pdf", ObjectPath: "uploads/c.pdf", FileSize: 1, OCRStatus: model.OCRStatusPending, UploaderID: 2},
	}
	for i := range files {
		if err := repo.Create(&files[i]); err != nil {
			t.Fatalf("创建文件记录失败: %v", err)
		}
	}

	_, total, err := repo.FindByUploader(1, nil, 0, 20)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 2 {
		t.Fatalf("用户 1 应有 2 个文件, total=%d", total)
	}

	got, total, err := repo.FindByUploader(1, &rid, 0, 20)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if total != 1 || got[0].Filename != "a.pdf" {
		t.Fatalf("按报告过滤应只命中 a.pdf, total=%d", total)
	}
}
