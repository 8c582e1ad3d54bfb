// Package es 提供了 OCR 识别文本的 Elasticsearch 索引与检索功能。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"gongu-report-go/internal/config"
	"gongu-report-go/pkg/log"
)

// OCRDocument 是写入索引的文档结构，以文件 ID 作为文档 ID。
type OCRDocument struct {
	FileID           uint    `json:"file_id"`
	UploaderID       uint    `json:"uploader_id"`
	OriginalFilename string  `json:"original_filename"`
	OCRText          string  `json:"ocr_text"`
	Confidence       float64 `json:"confidence"`
}

// SearchHit 是一条检索命中结果。
type SearchHit struct {
	FileID           uint     `json:"fileId"`
	OriginalFilename string   `json:"originalFilename"`
	Score            float64  `json:"score"`
	Highlights       []string `json:"highlights,omitempty"`
}

// Indexer 抽象了索引与检索操作，便于 pipeline 与测试注入。
type Indexer interface {
	IndexOCRText(ctx context.Context, doc OCRDocument) error
	SearchOCRText(ctx context.Context, uploaderID uint, query string, from, size int) ([]SearchHit, error)
}

// esIndexer 是 Indexer 接口的 Elasticsearch 实现。
type esIndexer struct {
	client    *elasticsearch.Client
	indexName string
}

// NewIndexer 初始化 Elasticsearch 客户端并确保索引存在。
func NewIndexer(esCfg config.ElasticsearchConfig) (Indexer, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	idx := &esIndexer{client: client, indexName: esCfg.IndexName}
	if err := idx.createIndexIfNotExists(); err != nil {
		return nil, err
	}
	return idx, nil
}

// createIndexIfNotExists 检查索引是否存在，不存在则按映射创建。
func (e *esIndexer) createIndexIfNotExists() error {
	res, err := e.client.Indices.Exists([]string{e.indexName})
	if err != nil {
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", e.indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	// OCR 文本使用 ik 中文分词器。
	mapping := `{
		"mappings": {
			"properties": {
				"file_id": { "type": "long" },
				"uploader_id": { "type": "long" },
				"original_filename": { "type": "keyword" },
				"ocr_text": {
					"type": "text",
					"analyzer": "ik_max_word",
					"search_analyzer": "ik_smart"
				},
				"confidence": { "type": "float" }
			}
		}
	}`

	res, err = e.client.Indices.Create(
		e.indexName,
		e.client.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return err
	}
	if res.IsError() {
		return errors.New("创建索引时 Elasticsearch 返回错误: " + res.String())
	}

	log.Infof("索引 '%s' 创建成功", e.indexName)
	return nil
}

// IndexOCRText 将一个文件的 OCR 识别文本写入索引。
func (e *esIndexer) IndexOCRText(ctx context.Context, doc OCRDocument) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      e.indexName,
		DocumentID: strconv.FormatUint(uint64(doc.FileID), 10),
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("索引 OCR 文本失败: %s", res.String())
	}
	return nil
}

// SearchOCRText 在当前用户的文件范围内全文检索 OCR 文本。
func (e *esIndexer) SearchOCRText(ctx context.Context, uploaderID uint, query string, from, size int) ([]SearchHit, error) {
	body := map[string]interface{}{
		"from": from,
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"match": map[string]interface{}{"ocr_text": query},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"uploader_id": uploaderID},
				},
			},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{"ocr_text": map[string]interface{}{}},
		},
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("检索 OCR 文本失败: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score     float64     `json:"_score"`
				Source    OCRDocument `json:"_source"`
				Highlight struct {
					OCRText []string `json:"ocr_text"`
				} `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, SearchHit{
			FileID:           h.Source.FileID,
			OriginalFilename: h.Source.OriginalFilename,
			Score:            h.Score,
			Highlights:       h.Highlight.OCRText,
		})
	}
	return hits, nil
}
