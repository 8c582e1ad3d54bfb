package repository

import (
	"gorm.io/gorm"

	"gongu-report-go/internal/model"
)

// TemplateRepository 接口定义了报告模板的持久化操作。
type TemplateRepository interface {
	Create(tpl *model.ReportTemplate) error
	FindByID(id uint) (*model.ReportTemplate, error)
	Find(templateType string, offset, limit int) ([]model.ReportTemplate, int64, error)
	Save(tpl *model.ReportTemplate) error
	DeleteByID(id uint) (int64, error)
	Count() (int64, error)
}

// templateRepository 是 TemplateRepository 接口的 GORM 实现。
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository 创建一个新的 TemplateRepository 实例。
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create 在数据库中创建一条新的模板记录。
func (r *templateRepository) Create(tpl *model.ReportTemplate) error {
	return r.db.Create(tpl).Error
}

// FindByID 按 ID 查找模板。
func (r *templateRepository) FindByID(id uint) (*model.ReportTemplate, error) {
	var tpl model.ReportTemplate
	err := r.db.First(&tpl, id).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Find 分页查询模板列表，templateType 为空串时不过滤类型。
func (r *templateRepository) Find(templateType string, offset, limit int) ([]model.ReportTemplate, int64, error) {
	query := r.db.Model(&model.ReportTemplate{})
	if templateType != "" {
		query = query.Where("template_type = ?", templateType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tpls []model.ReportTemplate
	err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&tpls).Error
	if err != nil {
		return nil, 0, err
	}
	return tpls, total, nil
}

// Save 保存一条已存在的模板记录。
func (r *templateRepository) Save(tpl *model.ReportTemplate) error {
	return r.db.Save(tpl).Error
}

// DeleteByID 删除指定模板，返回受影响的行数。
func (r *templateRepository) DeleteByID(id uint) (int64, error) {
	res := r.db.Delete(&model.ReportTemplate{}, id)
	return res.RowsAffected, res.Error
}

// Count 返回模板总数，用于启动时判断是否需要写入默认模板。
func (r *templateRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&model.ReportTemplate{}).Count(&total).Error
	return total, err
}
