package model

import "time"

// OCR 处理状态枚举值。
// 状态只能沿 pending → processing → {completed|failed} 推进，不允许回退。
const (
	OCRStatusPending    = "pending"
	OCRStatusProcessing = "processing"
	OCRStatusCompleted  = "completed"
	OCRStatusFailed     = "failed"
)

// UploadedFile 定义了 uploaded_files 表的 ORM 模型。
// 它记录了上传文件的元数据以及 OCR 处理的进度和结果。
type UploadedFile struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename         string `gorm:"type:varchar(255);not null" json:"filename"`
	OriginalFilename string `gorm:"type:varchar(255);not null" json:"originalFilename"`
	ObjectPath       string `gorm:"type:varchar(500);not null" json:"objectPath"`
	FileType         string `gorm:"type:varchar(100)" json:"fileType"`
	FileSize         int64  `gorm:"not null" json:"fileSize"`

	OCRStatus     string   `gorm:"type:varchar(20);not null;default:pending" json:"ocrStatus"`
	OCRText       *string  `gorm:"type:text" json:"ocrText,omitempty"`
	OCRConfidence *float64 `json:"ocrConfidence,omitempty"`

	UploaderID uint      `gorm:"not null;index" json:"uploaderId"`
	ReportID   *uint     `gorm:"index" json:"reportId,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (UploadedFile) TableName() string {
	return "uploaded_files"
}
