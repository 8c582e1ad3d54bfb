package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gongu-report-go/internal/apperr"
	"gongu-report-go/internal/model"
	"gongu-report-go/internal/repository"
)

type fileServiceEnv struct {
	svc      FileService
	repo     repository.FileRepository
	store    *fakeStore
	producer *fakeProducer
	indexer  *fakeIndexer
}

func newFileServiceEnv(t *testing.T) *fileServiceEnv {
	t.Helper()
	repo := repository.NewFileRepository(newTestDB(t))
	store := newFakeStore()
	producer := &fakeProducer{}
	indexer := &fakeIndexer{}
	return &fileServiceEnv{
		svc:      NewFileService(repo, store, producer, indexer, "uploads", 0),
		repo:     repo,
		store:    store,
		producer: producer,
		indexer:  indexer,
	}
}

// TestUploadRejectsBeforeAnyWrite 验证类型与大小校验发生在任何写入之前。
func TestUploadRejectsBeforeAnyWrite(t *testing.T) {
	env := newFileServiceEnv(t)
	ctx := context.Background()

	_, err := env.svc.Upload(ctx, 1, "malware.exe", "application/octet-stream", 10, strings.NewReader("x"), nil)
	if !apperr.IsValidation(err) {
		t.Fatalf("exe 文件应被拒绝, got %v", err)
	}

	_, err = env.svc.Upload(ctx, 1, "big.pdf", "application/pdf", 11*1024*1024, strings.NewReader("x"), nil)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("超过 10MiB 应返回 ErrFileTooLarge, got %v", err)
	}

	if len(env.store.objects) != 0 {
		t.Fatalf("校验失败时不应写入对象存储")
	}
	if len(env.producer.produced) != 0 {
		t.Fatalf("校验失败时不应投递任务")
	}
}

// TestUploadSuccess 验证上传保存对象、创建记录并投递 OCR 任务。
func TestUploadSuccess(t *testing.T) {
	env := newFileServiceEnv(t)
	ctx := context.Background()

	data := []byte("%PDF-1.7 fake")
	file, err := env.svc.Upload(ctx, 1, "理赔材料.pdf", "application/pdf", int64(len(data)), bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}

	if file.OCRStatus != model.OCRStatusPending {
		t.Fatalf("新文件状态应为 pending, got %s", file.OCRStatus)
	}
	if file.Filename == "理赔材料.pdf" {
		t.Fatalf("存储名应改用随机文件名, got %s", file.Filename)
	}
	if !strings.HasSuffix(file.Filename, ".pdf") {
		t.Fatalf("存储名应保留原扩展名, got %s", file.Filename)
	}
	if _, ok := env.store.objects[file.ObjectPath]; !ok {
		t.Fatalf("对象未写入存储: %s", file.ObjectPath)
	}
	if len(env.producer.produced) != 1 || env.producer.produced[0].FileID != file.ID {
		t.Fatalf("应为新文件投递一条 OCR 任务")
	}
}

// TestUploadSurvivesProducerFailure 验证任务投递失败不影响上传结果。
func TestUploadSurvivesProducerFailure(t *testing.T) {
	env := newFileServiceEnv(t)
	env.producer.err = errors.New("broker unavailable")

	data := []byte("fake")
	file, err := env.svc.Upload(context.Background(), 1, "a.png", "image/png", int64(len(data)), bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("投递失败不应让上传失败: %v", err)
	}
	if file.ID == 0 {
		t.Fatalf("文件记录应已创建")
	}
}

// TestGetOCRResultByStatus 验证各状态下的结果返回形态。
func TestGetOCRResultByStatus(t *testing.T) {
	env := newFileServiceEnv(t)
	ctx := context.Background()

	data := []byte("fake")
	file, err := env.svc.Upload(ctx, 1, "a.pdf", "application/pdf", int64(len(data)), bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}

	dto, err := env.svc.GetOCRResult(file.ID, 1)
	if err != nil {
		t.Fatalf("查询结果失败: %v", err)
	}
	if dto.Status != model.OCRStatusPending || dto.Text != nil {
		t.Fatalf("pending 状态不应返回文本, status=%s", dto.Status)
	}

	// 推进到 completed 后应返回文本与置信度
	if _, err := env.repo.TransitionOCRStatus(file.ID, model.OCRStatusPending, model.OCRStatusProcessing); err != nil {
		t.Fatalf("状态推进失败: %v", err)
	}
	if _, err := env.repo.SaveOCRResult(file.ID, "保险理赔申请书", 0.95); err != nil {
		t.Fatalf("写入结果失败: %v", err)
	}

	dto, err = env.svc.GetOCRResult(file.ID, 1)
	if err != nil {
		t.Fatalf("查询结果失败: %v", err)
	}
	if dto.Status != model.OCRStatusCompleted {
		t.Fatalf("状态应为 completed, got %s", dto.Status)
	}
	if dto.Text == nil || *dto.Text != "保险理赔申请书" {
		t.Fatalf("completed 状态应返回识别文本")
	}
	if dto.Confidence == nil || *dto.Confidence != 0.95 {
		t.Fatalf("completed 状态应返回置信度")
	}

	// 非上传者查询
	if _, err := env.svc.GetOCRResult(file.ID, 2); !apperr.IsNotFound(err) {
		t.Fatalf("非上传者查询应返回未找到, got %v", err)
	}
}

// TestDeleteFileRemovesObject 验证删除文件时一并移除存储对象。
func TestDeleteFileRemovesObject(t *testing.T) {
	env := newFileServiceEnv(t)
	ctx := context.Background()

	data := []byte("fake")
	file, err := env.svc.Upload(ctx, 1, "a.jpg", "image/jpeg", int64(len(data)), bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("上传失败: %v", err)
	}

	if err := env.svc.Delete(ctx, file.ID, 1); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, ok := env.store.objects[file.ObjectPath]; ok {
		t.Fatalf("存储对象应被移除")
	}
	if _, err := env.svc.GetOCRResult(file.ID, 1); !apperr.IsNotFound(err) {
		t.Fatalf("删除后查询应返回未找到, got %v", err)
	}
}

// TestSearchRequiresQuery 验证空检索词被拒绝。
func TestSearchRequiresQuery(t *testing.T) {
	env := newFileServiceEnv(t)

	if _, err := env.svc.Search(context.Background(), 1, "  ", 0, 20); !apperr.IsValidation(err) {
		t.Fatalf("空检索词应返回校验错误, got %v", err)
	}
}
