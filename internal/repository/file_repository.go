package repository

import (
	"gorm.io/gorm"

	"gongu-report-go/internal/model"
)

// FileRepository 接口定义了上传文件元数据的持久化操作。
// OCR 状态的变更全部通过带前置状态条件的 CAS 更新完成，保证状态不回退。
type FileRepository interface {
	Create(file *model.UploadedFile) error
	FindByID(id uint) (*model.UploadedFile, error)
	FindByIDAndUploader(id, uploaderID uint) (*model.UploadedFile, error)
	FindByUploader(uploaderID uint, reportID *uint, offset, limit int) ([]model.UploadedFile, int64, error)
	DeleteByIDAndUploader(id, uploaderID uint) (int64, error)

	// TransitionOCRStatus 仅当当前状态为 from 时推进到 to，返回是否发生了变更。
	TransitionOCRStatus(id uint, from, to string) (bool, error)
	// SaveOCRResult 仅当状态为 processing 时写入识别结果并置为 completed。
	SaveOCRResult(id uint, text string, confidence float64) (bool, error)
	// MarkOCRFailed 将处于 pending/processing 的记录置为 failed。
	MarkOCRFailed(id uint) error
}

// fileRepository 是 FileRepository 接口的 GORM 实现。
type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository 创建一个新的 FileRepository 实例。
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

// Create 在数据库中创建一条新的文件记录。
func (r *fileRepository) Create(file *model.UploadedFile) error {
	return r.db.Create(file).Error
}

// FindByID 按 ID 查找文件记录（供后台处理流程使用，不校验归属）。
func (r *fileRepository) FindByID(id uint) (*model.UploadedFile, error) {
	var file model.UploadedFile
	err := r.db.First(&file, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// FindByIDAndUploader 按文件 ID 与上传者查找文件记录。
func (r *fileRepository) FindByIDAndUploader(id, uploaderID uint) (*model.UploadedFile, error) {
	var file model.UploadedFile
	err := r.db.Where("id = ? AND uploader_id = ?", id, uploaderID).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// FindByUploader 分页查询用户上传的文件，按创建时间倒序。
// reportID 非空时附加报告过滤。
func (r *fileRepository) FindByUploader(uploaderID uint, reportID *uint, offset, limit int) ([]model.UploadedFile, int64, error) {
	query := r.db.Model(&model.UploadedFile{}).Where("uploader_id = ?", uploaderID)
	if reportID != nil {
		query = query.Where("report_id = ?", *reportID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var files []model.UploadedFile
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&files).Error
	if err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

// DeleteByIDAndUploader 删除用户名下的指定文件记录，返回受影响的行数。
func (r *fileRepository) DeleteByIDAndUploader(id, uploaderID uint) (int64, error) {
	res := r.db.Where("id = ? AND uploader_id = ?", id, uploaderID).Delete(&model.UploadedFile{})
	return res.RowsAffected, res.Error
}

// TransitionOCRStatus 以 CAS 方式推进 OCR 状态。
func (r *fileRepository) TransitionOCRStatus(id uint, from, to string) (bool, error) {
	res := r.db.Model(&model.UploadedFile{}).
		Where("id = ? AND ocr_status = ?", id, from).
		Update("ocr_status", to)
	return res.RowsAffected > 0, res.Error
}

// SaveOCRResult 写入识别文本与置信度，并将状态从 processing 推进到 completed。
func (r *fileRepository) SaveOCRResult(id uint, text string, confidence float64) (bool, error) {
	res := r.db.Model(&model.UploadedFile{}).
		Where("id = ? AND ocr_status = ?", id, model.OCRStatusProcessing).
		Updates(map[string]interface{}{
			"ocr_status":     model.OCRStatusCompleted,
			"ocr_text":       text,
			"ocr_confidence": confidence,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkOCRFailed 将尚未结束的记录标记为失败；已完成的记录不受影响。
func (r *fileRepository) MarkOCRFailed(id uint) error {
	return r.db.Model(&model.UploadedFile{}).
		Where("id = ? AND ocr_status IN ?", id, []string{model.OCRStatusPending, model.OCRStatusProcessing}).
		Update("ocr_status", model.OCRStatusFailed).Error
}
