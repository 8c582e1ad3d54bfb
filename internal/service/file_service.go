package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gongu-report-go/internal/apperr"
	"gongu-report-go/internal/model"
	"gongu-report-go/internal/repository"
	"gongu-report-go/pkg/es"
	"gongu-report-go/pkg/kafka"
	"gongu-report-go/pkg/log"
	"gongu-report-go/pkg/storage"
	"gongu-report-go/pkg/tasks"
)

// DefaultMaxFileSize 是上传文件的默认大小上限（10MiB）。
const DefaultMaxFileSize = 10 * 1024 * 1024

// ErrFileTooLarge 标识超过大小上限的上传，handler 据此返回 413。
var ErrFileTooLarge = apperr.Validation("文件大小超过限制(10MB)")

// allowedExtensions 是允许上传的文件扩展名集合。
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".tiff": {},
	".bmp":  {},
}

// OCRResultDTO 封装按状态返回的 OCR 查询结果。
type OCRResultDTO struct {
	FileID     uint     `json:"fileId"`
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	Text       *string  `json:"text,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// FileService 接口定义了文件上传与 OCR 状态跟踪的业务操作。
type FileService interface {
	Upload(ctx context.Context, uploaderID uint, originalFilename, contentType string, size int64, reader io.Reader, reportID *uint) (*model.UploadedFile, error)
	List(uploaderID uint, reportID *uint, skip, limit int) ([]model.UploadedFile, int64, error)
	GetOCRResult(fileID, uploaderID uint) (*OCRResultDTO, error)
	Delete(ctx context.Context, fileID, uploaderID uint) error
	Search(ctx context.Context, uploaderID uint, query string, skip, limit int) ([]es.SearchHit, error)
}

type fileService struct {
	fileRepo    repository.FileRepository
	store       storage.ObjectStore
	producer    kafka.Producer
	indexer     es.Indexer
	prefix      string
	maxFileSize int64
}

// NewFileService 创建一个新的 FileService 实例。
// prefix 是对象存储中的目录前缀；maxFileSize 为 0 时使用默认的 10MiB。
func NewFileService(fileRepo repository.FileRepository, store storage.ObjectStore, producer kafka.Producer, indexer es.Indexer, prefix string, maxFileSize int64) FileService {
	if prefix == "" {
		prefix = "uploads"
	}
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &fileService{
		fileRepo:    fileRepo,
		store:       store,
		producer:    producer,
		indexer:     indexer,
		prefix:      prefix,
		maxFileSize: maxFileSize,
	}
}

// Upload 校验并保存上传文件，创建元数据记录后把 OCR 任务投递到队列。
// 校验全部发生在任何写入之前；元数据落库失败时会清理已写入的对象。
func (s *fileService) Upload(ctx context.Context, uploaderID uint, originalFilename, contentType string, size int64, reader io.Reader, reportID *uint) (*model.UploadedFile, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, apperr.Validationf("不支持的文件类型: %s", ext)
	}
	if size > s.maxFileSize {
		return nil, ErrFileTooLarge
	}

	storedName := uuid.New().String() + ext
	objectPath := s.prefix + "/" + storedName

	if err := s.store.Put(ctx, objectPath, reader, size, contentType); err != nil {
		log.Error("写入对象存储失败", err)
		return nil, fmt.Errorf("保存文件失败: %w", err)
	}

	file := &model.UploadedFile{
		Filename:         storedName,
		OriginalFilename: originalFilename,
		ObjectPath:       objectPath,
		FileType:         contentType,
		FileSize:         size,
		OCRStatus:        model.OCRStatusPending,
		UploaderID:       uploaderID,
		ReportID:         reportID,
	}
	if err := s.fileRepo.Create(file); err != nil {
		// 元数据写入失败时回收对象，避免遗留孤儿文件。
		if rmErr := s.store.Remove(ctx, objectPath); rmErr != nil {
			log.Errorf("清理对象失败: %s, error: %v", objectPath, rmErr)
		}
		log.Error("创建文件记录失败", err)
		return nil, fmt.Errorf("保存文件记录失败: %w", err)
	}

	// OCR 在后台队列中处理，投递失败不影响上传结果，仅记录日志。
	task := tasks.OCRTask{
		FileID:     file.ID,
		ObjectPath: objectPath,
		Filename:   originalFilename,
		UploaderID: uploaderID,
	}
	if err := s.producer.ProduceOCRTask(ctx, task); err != nil {
		log.Errorf("投递 OCR 任务失败: fileID=%d, error: %v", file.ID, err)
	}

	log.Infof("文件上传成功: fileID=%d, name=%s, size=%d", file.ID, originalFilename, size)
	return file, nil
}

// List 分页查询用户上传的文件。
func (s *fileService) List(uploaderID uint, reportID *uint, skip, limit int) ([]model.UploadedFile, int64, error) {
	skip, limit = normalizePagination(skip, limit)
	return s.fileRepo.FindByUploader(uploaderID, reportID, skip, limit)
}

// GetOCRResult 查询文件的 OCR 处理状态与结果。
// 仅 completed 状态返回识别文本与置信度。
func (s *fileService) GetOCRResult(fileID, uploaderID uint) (*OCRResultDTO, error) {
	file, err := s.fileRepo.FindByIDAndUploader(fileID, uploaderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("文件不存在")
		}
		return nil, err
	}

	dto := &OCRResultDTO{FileID: file.ID, Status: file.OCRStatus}
	switch file.OCRStatus {
	case model.OCRStatusPending:
		dto.Message = "OCR处理排队中..."
	case model.OCRStatusProcessing:
		dto.Message = "OCR识别中..."
	case model.OCRStatusFailed:
		dto.Message = "OCR识别失败"
	case model.OCRStatusCompleted:
		dto.Message = "OCR识别完成"
		dto.Text = file.OCRText
		dto.Confidence = file.OCRConfidence
	}
	return dto, nil
}

// Delete 删除文件：先移除对象存储中的数据，再删除元数据记录。
func (s *fileService) Delete(ctx context.Context, fileID, uploaderID uint) error {
	file, err := s.fileRepo.FindByIDAndUploader(fileID, uploaderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("文件不存在")
		}
		return err
	}

	if err := s.store.Remove(ctx, file.ObjectPath); err != nil {
		log.Errorf("删除对象失败: %s, error: %v", file.ObjectPath, err)
		return fmt.Errorf("删除文件失败: %w", err)
	}

	affected, err := s.fileRepo.DeleteByIDAndUploader(fileID, uploaderID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("文件不存在")
	}

	log.Infof("文件删除成功: fileID=%d", fileID)
	return nil
}

// Search 在当前用户已完成 OCR 的文件中全文检索识别文本。
func (s *fileService) Search(ctx context.Context, uploaderID uint, query string, skip, limit int) ([]es.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.Validation("检索关键词不能为空")
	}
	skip, limit = normalizePagination(skip, limit)
	return s.indexer.SearchOCRText(ctx, uploaderID, query, skip, limit)
}
