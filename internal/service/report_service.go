// Package service 包含了应用的业务逻辑层。
package service

import (
	"errors"

	"gorm.io/gorm"

	"gongu-report-go/internal/apperr"
	"gongu-report-go/internal/model"
	"gongu-report-go/internal/repository"
	"gongu-report-go/pkg/log"
)

// 分页参数的默认值与上限。
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePagination 规整 skip/limit 参数。
func normalizePagination(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return skip, limit
}

// ReportUpdateInput 封装报告的部分更新字段，nil 表示不更新。
type ReportUpdateInput struct {
	Title         *string
	InsuranceType *string
	Status        *string

	AccidentDetails   *string
	PolicySummary     *string
	SiteInvestigation *string
	CauseAnalysis     *string
	LossAssessment    *string
	Conclusion        *string
}

// ReportService 接口定义了报告草稿的业务操作。
type ReportService interface {
	Create(ownerID uint, title, insuranceType string) (*model.ReportDraft, error)
	Get(id, ownerID uint) (*model.ReportDraft, error)
	List(ownerID uint, statusFilter, insuranceTypeFilter string, skip, limit int) ([]model.ReportDraft, int64, error)
	Update(id, ownerID uint, in ReportUpdateInput) (*model.ReportDraft, error)
	UpdateChapter(id, ownerID uint, chapterType, content string) (*model.ReportDraft, error)
	Delete(id, ownerID uint) error
}

type reportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService 创建一个新的 ReportService 实例。
func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

// Create 创建一份新的报告草稿，初始状态为 draft。
func (s *reportService) Create(ownerID uint, title, insuranceType string) (*model.ReportDraft, error) {
	if title == "" {
		return nil, apperr.Validation("报告标题不能为空")
	}
	if insuranceType != "" && !model.IsValidInsuranceType(insuranceType) {
		return nil, apperr.Validationf("无效的保险类型: %s", insuranceType)
	}

	report := &model.ReportDraft{
		Title:         title,
		InsuranceType: insuranceType,
		Status:        model.ReportStatusDraft,
		OwnerID:       ownerID,
	}
	if err := s.reportRepo.Create(report); err != nil {
		log.Error("创建报告失败", err)
		return nil, err
	}
	return report, nil
}

// Get 获取用户名下的单份报告。
func (s *reportService) Get(id, ownerID uint) (*model.ReportDraft, error) {
	report, err := s.reportRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("报告不存在")
		}
		return nil, err
	}
	return report, nil
}

// List 分页查询用户的报告列表，过滤值在查询前校验。
func (s *reportService) List(ownerID uint, statusFilter, insuranceTypeFilter string, skip, limit int) ([]model.ReportDraft, int64, error) {
	if statusFilter != "" && !model.IsValidReportStatus(statusFilter) {
		return nil, 0, apperr.Validationf("无效的状态值: %s", statusFilter)
	}
	if insuranceTypeFilter != "" && !model.IsValidInsuranceType(insuranceTypeFilter) {
		return nil, 0, apperr.Validationf("无效的保险类型: %s", insuranceTypeFilter)
	}

	skip, limit = normalizePagination(skip, limit)
	return s.reportRepo.FindByOwner(ownerID, statusFilter, insuranceTypeFilter, skip, limit)
}

// Update 按字段部分更新报告，未提供的字段保持不变。
// OwnerID 不在可更新字段之列，创建后不可变更。
func (s *reportService) Update(id, ownerID uint, in ReportUpdateInput) (*model.ReportDraft, error) {
	if in.InsuranceType != nil && *in.InsuranceType != "" && !model.IsValidInsuranceType(*in.InsuranceType) {
		return nil, apperr.Validationf("无效的保险类型: %s", *in.InsuranceType)
	}
	if in.Status != nil && !model.IsValidReportStatus(*in.Status) {
		return nil, apperr.Validationf("无效的状态值: %s", *in.Status)
	}
	if in.Title != nil && *in.Title == "" {
		return nil, apperr.Validation("报告标题不能为空")
	}

	report, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		report.Title = *in.Title
	}
	if in.InsuranceType != nil {
		report.InsuranceType = *in.InsuranceType
	}
	if in.Status != nil {
		report.Status = *in.Status
	}
	if in.AccidentDetails != nil {
		report.AccidentDetails = *in.AccidentDetails
	}
	if in.PolicySummary != nil {
		report.PolicySummary = *in.PolicySummary
	}
	if in.SiteInvestigation != nil {
		report.SiteInvestigation = *in.SiteInvestigation
	}
	if in.CauseAnalysis != nil {
		report.CauseAnalysis = *in.CauseAnalysis
	}
	if in.LossAssessment != nil {
		report.LossAssessment = *in.LossAssessment
	}
	if in.Conclusion != nil {
		report.Conclusion = *in.Conclusion
	}

	if err := s.reportRepo.Save(report); err != nil {
		log.Error("更新报告失败", err)
		return nil, err
	}
	return report, nil
}

// UpdateChapter 更新报告的单个章节，章节标识必须属于固定的六个之一。
func (s *reportService) UpdateChapter(id, ownerID uint, chapterType, content string) (*model.ReportDraft, error) {
	if !model.IsValidChapterType(chapterType) {
		return nil, apperr.Validationf("无效的章节类型: %s", chapterType)
	}

	report, err := s.Get(id, ownerID)
	if err != nil {
		return nil, err
	}

	report.SetChapter(chapterType, content)
	if err := s.reportRepo.Save(report); err != nil {
		log.Error("更新报告章节失败", err)
		return nil, err
	}
	return report, nil
}

// Delete 硬删除用户名下的指定报告。
func (s *reportService) Delete(id, ownerID uint) error {
	affected, err := s.reportRepo.DeleteByIDAndOwner(id, ownerID)
	if err != nil {
		log.Error("删除报告失败", err)
		return err
	}
	if affected == 0 {
		return apperr.NotFound("报告不存在")
	}
	return nil
}
