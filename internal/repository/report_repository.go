// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"gorm.io/gorm"

	"gongu-report-go/internal/model"
)

// ReportRepository 接口定义了报告草稿的数据持久化操作。
// 所有按 ID 的查询都附带 owner_id 条件，归属校验在数据层完成。
type ReportRepository interface {
	Create(report *model.ReportDraft) error
	FindByIDAndOwner(id, ownerID uint) (*model.ReportDraft, error)
	FindByOwner(ownerID uint, status, insuranceType string, offset, limit int) ([]model.ReportDraft, int64, error)
	Save(report *model.ReportDraft) error
	DeleteByIDAndOwner(id, ownerID uint) (int64, error)
}

// reportRepository 是 ReportRepository 接口的 GORM 实现。
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建一个新的 ReportRepository 实例。
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create 在数据库中创建一条新的报告草稿记录。
func (r *reportRepository) Create(report *model.ReportDraft) error {
	return r.db.Create(report).Error
}

// FindByIDAndOwner 按报告 ID 与归属用户查找报告。
func (r *reportRepository) FindByIDAndOwner(id, ownerID uint) (*model.ReportDraft, error) {
	var report model.ReportDraft
	err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// FindByOwner 分页查询用户的报告列表，按最近更新时间倒序。
// status / insuranceType 为空串时不参与过滤。
func (r *reportRepository) FindByOwner(ownerID uint, status, insuranceType string, offset, limit int) ([]model.ReportDraft, int64, error) {
	query := r.db.Model(&model.ReportDraft{}).Where("owner_id = ?", ownerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if insuranceType != "" {
		query = query.Where("insurance_type = ?", insuranceType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []model.ReportDraft
	err := query.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// Save 保存一条已存在的报告草稿记录。
func (r *reportRepository) Save(report *model.ReportDraft) error {
	return r.db.Save(report).Error
}

// DeleteByIDAndOwner 删除用户名下的指定报告，返回受影响的行数。
func (r *reportRepository) DeleteByIDAndOwner(id, ownerID uint) (int64, error) {
	res := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.ReportDraft{})
	return res.RowsAffected, res.Error
}
