package repository

import (
	"time"

	"gorm.io/gorm"

	"gongu-report-go/internal/model"
)

// AILogRepository 接口定义了 AI 生成日志的持久化操作。
// 日志仅追加；CreateWithChapter 同时落库日志与报告章节，二者在同一事务内。
type AILogRepository interface {
	// CreateWithChapter 在一个事务中写入生成日志，并把生成内容写入
	// 报告对应的章节字段。任一步失败则整体回滚。
	CreateWithChapter(genLog *model.AIGenerationLog) error
	FindByReport(reportID uint, offset, limit int) ([]model.AIGenerationLog, int64, error)
}

// aiLogRepository 是 AILogRepository 接口的 GORM 实现。
type aiLogRepository struct {
	db *gorm.DB
}

// NewAILogRepository 创建一个新的 AILogRepository 实例。
func NewAILogRepository(db *gorm.DB) AILogRepository {
	return &aiLogRepository{db: db}
}

// CreateWithChapter 原子地写入日志并更新报告章节。
// genLog.ChapterType 必须已通过 model.IsValidChapterType 校验，
// 它同时也是 report_drafts 表中章节列的列名。
func (r *aiLogRepository) CreateWithChapter(genLog *model.AIGenerationLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(genLog).Error; err != nil {
			return err
		}
		return tx.Model(&model.ReportDraft{}).
			Where("id = ?", genLog.ReportID).
			Updates(map[string]interface{}{
				genLog.ChapterType: genLog.GeneratedContent,
				"updated_at":       time.Now(),
			}).Error
	})
}

// FindByReport 分页查询指定报告的生成历史，按创建时间倒序。
func (r *aiLogRepository) FindByReport(reportID uint, offset, limit int) ([]model.AIGenerationLog, int64, error) {
	query := r.db.Model(&model.AIGenerationLog{}).Where("report_id = ?", reportID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.AIGenerationLog
	err := query.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
