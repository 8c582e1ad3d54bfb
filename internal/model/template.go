package model

import "time"

// ReportTemplate 定义了 report_templates 表的 ORM 模型。
// 默认模板由系统启动时写入，IsDefault=true 的模板不允许删除。
type ReportTemplate struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TemplateType string    `gorm:"type:varchar(50);not null;index" json:"type"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	IsDefault    bool      `gorm:"not null;default:false" json:"isDefault"`
	CreatedBy    uint      `json:"createdBy"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (ReportTemplate) TableName() string {
	return "report_templates"
}
