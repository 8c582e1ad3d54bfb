package service

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gongu-report-go/internal/model"
	"gongu-report-go/pkg/ai"
	"gongu-report-go/pkg/es"
	"gongu-report-go/pkg/tasks"
)

// newTestDB 创建一个内存 SQLite 数据库并迁移全部表结构。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.ReportDraft{},
		&model.UploadedFile{},
		&model.AIGenerationLog{},
		&model.ReportTemplate{},
	); err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}
	return db
}

// fakeStore 是 storage.ObjectStore 的内存实现。
type fakeStore struct {
	objects map[string][]byte
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[objectName] = data
	return nil
}

func (s *fakeStore) Get(ctx context.Context, objectName string) (io.ReadCloser, error) {
	data, ok := s.objects[objectName]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) Remove(ctx context.Context, objectName string) error {
	delete(s.objects, objectName)
	return nil
}

// fakeProducer 记录投递的 OCR 任务。
type fakeProducer struct {
	produced []tasks.OCRTask
	err      error
}

func (p *fakeProducer) ProduceOCRTask(ctx context.Context, task tasks.OCRTask) error {
	if p.err != nil {
		return p.err
	}
	p.produced = append(p.produced, task)
	return nil
}

// fakeIndexer 记录索引调用并返回固定的检索结果。
type fakeIndexer struct {
	indexed []es.OCRDocument
	hits    []es.SearchHit
}

func (i *fakeIndexer) IndexOCRText(ctx context.Context, doc es.OCRDocument) error {
	i.indexed = append(i.indexed, doc)
	return nil
}

func (i *fakeIndexer) SearchOCRText(ctx context.Context, uploaderID uint, query string, from, size int) ([]es.SearchHit, error) {
	return i.hits, nil
}

// fakeAIClient 是 ai.Client 的可控实现。
type fakeAIClient struct {
	result *ai.GenerateResult
	err    error
}

func (c *fakeAIClient) GenerateChapter(ctx context.Context, req ai.ChapterRequest) (*ai.GenerateResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func (c *fakeAIClient) Chat(ctx context.Context, message string, history []ai.Message) (*ai.ChatResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &ai.ChatResult{Content: "好的，我来帮您。", ModelName: "mock-gpt", TokensUsed: 10}, nil
}
