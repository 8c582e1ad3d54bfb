// Package pipeline 定义了上传文件的后台 OCR 处理流程。
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gongu-report-go/internal/model"
	"gongu-report-go/internal/repository"
	"gongu-report-go/pkg/es"
	"gongu-report-go/pkg/log"
	"gongu-report-go/pkg/ocr"
	"gongu-report-go/pkg/storage"
	"gongu-report-go/pkg/tasks"
)

// Processor 消费 OCR 任务：推进状态、识别文本、落库结果并写入检索索引。
// 状态变更全部通过 CAS 完成，重复投递的任务不会使状态回退。
type Processor struct {
	fileRepo   repository.FileRepository
	store      storage.ObjectStore
	recognizer ocr.Recognizer
	indexer    es.Indexer
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(fileRepo repository.FileRepository, store storage.ObjectStore, recognizer ocr.Recognizer, indexer es.Indexer) *Processor {
	return &Processor{
		fileRepo:   fileRepo,
		store:      store,
		recognizer: recognizer,
		indexer:    indexer,
	}
}

// Process 处理一个 OCR 任务。
// 识别本身的失败被吸收为 failed 状态并返回 nil（尽力而为语义）；
// 返回非 nil 仅表示基础设施错误，消费者可据此重试。
func (p *Processor) Process(ctx context.Context, task tasks.OCRTask) error {
	file, err := p.fileRepo.FindByID(task.FileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 文件在任务处理前已被删除，任务作废。
			log.Warnf("[Processor] 文件记录不存在，跳过任务: fileID=%d", task.FileID)
			return nil
		}
		return fmt.Errorf("查询文件记录失败: %w", err)
	}

	changed, err := p.fileRepo.TransitionOCRStatus(task.FileID, model.OCRStatusPending, model.OCRStatusProcessing)
	if err != nil {
		return fmt.Errorf("推进 OCR 状态失败: %w", err)
	}
	if !changed {
		switch file.OCRStatus {
		case model.OCRStatusProcessing:
			// 重复投递：上一次处理中断，继续本次处理。
			log.Warnf("[Processor] 任务重复投递，继续处理: fileID=%d", task.FileID)
		default:
			// 已达终态，不再处理。
			log.Infof("[Processor] 文件已处理完毕，跳过任务: fileID=%d, status=%s", task.FileID, file.OCRStatus)
			return nil
		}
	}

	object, err := p.store.Get(ctx, task.ObjectPath)
	if err != nil {
		// 对象缺失属于不可恢复错误，直接置为失败。
		log.Errorf("[Processor] 读取对象失败: %s, error: %v", task.ObjectPath, err)
		p.markFailed(task.FileID)
		return nil
	}
	defer object.Close()

	result, err := p.recognizer.Recognize(ctx, object, task.Filename)
	if err != nil {
		log.Errorf("[Processor] OCR 识别失败: fileID=%d, error: %v", task.FileID, err)
		p.markFailed(task.FileID)
		return nil
	}

	saved, err := p.fileRepo.SaveOCRResult(task.FileID, result.Text, result.Confidence)
	if err != nil {
		return fmt.Errorf("保存 OCR 结果失败: %w", err)
	}
	if !saved {
		// 状态已不是 processing（例如文件已被删除），结果丢弃。
		log.Warnf("[Processor] OCR 结果未写入，当前状态已变更: fileID=%d", task.FileID)
		return nil
	}

	log.Infof("[Processor] OCR 识别完成: fileID=%d, confidence=%.2f", task.FileID, result.Confidence)

	// 写入检索索引失败只记录日志，不影响任务结果。
	if p.indexer != nil {
		doc := es.OCRDocument{
			FileID:           task.FileID,
			UploaderID:       task.UploaderID,
			OriginalFilename: task.Filename,
			OCRText:          result.Text,
			Confidence:       result.Confidence,
		}
		if err := p.indexer.IndexOCRText(ctx, doc); err != nil {
			log.Errorf("[Processor] 索引 OCR 文本失败: fileID=%d, error: %v", task.FileID, err)
		}
	}
	return nil
}

// markFailed 将文件标记为识别失败，标记动作本身的失败只记录日志。
func (p *Processor) markFailed(fileID uint) {
	if err := p.fileRepo.MarkOCRFailed(fileID); err != nil {
		log.Errorf("[Processor] 标记 OCR 失败状态出错: fileID=%d, error: %v", fileID, err)
	}
}
