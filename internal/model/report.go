package model

import "time"

// 报告状态枚举值。
const (
	ReportStatusDraft     = "draft"
	ReportStatusReview    = "review"
	ReportStatusCompleted = "completed"
	ReportStatusArchived  = "archived"
)

// 保险类型枚举值。
const (
	InsuranceTypeEnterpriseProperty = "企业财产险"
	InsuranceTypeAuto               = "车险"
	InsuranceTypeLiability          = "责任险"
	InsuranceTypeOther              = "其他"
)

// 六个固定的报告章节标识，及其中文名称。
const (
	ChapterAccidentDetails   = "accident_details"
	ChapterPolicySummary     = "policy_summary"
	ChapterSiteInvestigation = "site_investigation"
	ChapterCauseAnalysis     = "cause_analysis"
	ChapterLossAssessment    = "loss_assessment"
	ChapterConclusion        = "conclusion"
)

// ChapterTitles 是章节标识到中文名称的映射，同时充当合法章节集合。
var ChapterTitles = map[string]string{
	ChapterAccidentDetails:   "事故经过及索赔",
	ChapterPolicySummary:     "保单内容摘要",
	ChapterSiteInvestigation: "现场查勘情况",
	ChapterCauseAnalysis:     "事故原因分析",
	ChapterLossAssessment:    "损失核定",
	ChapterConclusion:        "公估结论",
}

// ChapterOrder 按报告正文顺序列出全部章节标识。
var ChapterOrder = []string{
	ChapterAccidentDetails,
	ChapterPolicySummary,
	ChapterSiteInvestigation,
	ChapterCauseAnalysis,
	ChapterLossAssessment,
	ChapterConclusion,
}

// IsValidReportStatus 判断给定值是否为合法的报告状态。
func IsValidReportStatus(s string) bool {
	switch s {
	case ReportStatusDraft, ReportStatusReview, ReportStatusCompleted, ReportStatusArchived:
		return true
	}
	return false
}

// IsValidInsuranceType 判断给定值是否为合法的保险类型。
func IsValidInsuranceType(s string) bool {
	switch s {
	case InsuranceTypeEnterpriseProperty, InsuranceTypeAuto, InsuranceTypeLiability, InsuranceTypeOther:
		return true
	}
	return false
}

// IsValidChapterType 判断给定值是否为合法的章节标识。
func IsValidChapterType(s string) bool {
	_, ok := ChapterTitles[s]
	return ok
}

// ReportDraft 定义了 report_drafts 表的 ORM 模型。
// 六个章节字段构成报告正文；OwnerID 在创建后不可变更。
type ReportDraft struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string `gorm:"type:varchar(255);not null" json:"title"`
	InsuranceType string `gorm:"type:varchar(50)" json:"insuranceType"`
	Status        string `gorm:"type:varchar(20);not null;default:draft" json:"status"`

	AccidentDetails   string `gorm:"type:text" json:"accidentDetails"`
	PolicySummary     string `gorm:"type:text" json:"policySummary"`
	SiteInvestigation string `gorm:"type:text" json:"siteInvestigation"`
	CauseAnalysis     string `gorm:"type:text" json:"causeAnalysis"`
	LossAssessment    string `gorm:"type:text" json:"lossAssessment"`
	Conclusion        string `gorm:"type:text" json:"conclusion"`

	OwnerID   uint      `gorm:"not null;index" json:"ownerId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (ReportDraft) TableName() string {
	return "report_drafts"
}

// Chapter 按章节标识读取对应的章节内容。
func (r *ReportDraft) Chapter(chapterType string) string {
	switch chapterType {
	case ChapterAccidentDetails:
		return r.AccidentDetails
	case ChapterPolicySummary:
		return r.PolicySummary
	case ChapterSiteInvestigation:
		return r.SiteInvestigation
	case ChapterCauseAnalysis:
		return r.CauseAnalysis
	case ChapterLossAssessment:
		return r.LossAssessment
	case ChapterConclusion:
		return r.Conclusion
	}
	return ""
}

// SetChapter 按章节标识写入对应的章节内容。
// 章节标识必须已通过 IsValidChapterType 校验。
func (r *ReportDraft) SetChapter(chapterType, content string) {
	switch chapterType {
	case ChapterAccidentDetails:
		r.AccidentDetails = content
	case ChapterPolicySummary:
		r.PolicySummary = content
	case ChapterSiteInvestigation:
		r.SiteInvestigation = content
	case ChapterCauseAnalysis:
		r.CauseAnalysis = content
	case ChapterLossAssessment:
		r.LossAssessment = content
	case ChapterConclusion:
		r.Conclusion = content
	}
}
