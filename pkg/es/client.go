// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"mall-admin-go/internal/config"
	"mall-admin-go/internal/model"
	"mall-admin-go/pkg/log"
)

var ESClient *elasticsearch.Client

// productMapping 是商品索引的结构。category_path 同时提供全文与 keyword 两种检索方式。
const productMapping = `{
	"mappings": {
		"properties": {
			"product_id": { "type": "long" },
			"name": { "type": "text", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 } } },
			"description": { "type": "text" },
			"category_id": { "type": "keyword" },
			"category_path": { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
			"min_price": { "type": "long" },
			"max_price": { "type": "long" },
			"status": { "type": "byte" },
			"updated_at": { "type": "date" }
		}
	}
}`

// InitES 初始化 Elasticsearch 客户端
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: strings.Split(esCfg.Addresses, ","),
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName)
}

// createIndexIfNotExists 检查索引是否存在，如果不存在则创建它
func createIndexIfNotExists(indexName string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	defer res.Body.Close()
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(productMapping)),
	)
	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", indexName, err)
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", indexName, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", indexName)
	return nil
}

// ProductQuery 是商品搜索条件。CategoryIDs 通常是某个分类及其全部子分类。
type ProductQuery struct {
	Keyword     string
	CategoryIDs []string
	OnlyEnabled bool
	From        int
	Size        int
}

// ProductHits 是一次搜索的结果。
type ProductHits struct {
	Total int64                   `json:"total"`
	Items []model.ProductDocument `json:"items"`
}

// ProductIndex 封装了商品索引的读写操作。
type ProductIndex struct {
	client *elasticsearch.Client
	index  string
}

// NewProductIndex 创建商品索引访问对象。
func NewProductIndex(client *elasticsearch.Client, indexName string) *ProductIndex {
	return &ProductIndex{client: client, index: indexName}
}

// Index 写入或覆盖一个商品文档，文档 id 为商品 id。
func (p *ProductIndex) Index(ctx context.Context, doc model.ProductDocument) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      p.index,
		DocumentID: strconv.FormatUint(uint64(doc.ProductID), 10),
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, p.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Errorf("索引商品到 Elasticsearch 出错: %s", res.String())
		return errors.New("failed to index product")
	}
	return nil
}

// Delete 删除一个商品文档，文档不存在时视为成功。
func (p *ProductIndex) Delete(ctx context.Context, productID uint) error {
	req := esapi.DeleteRequest{
		Index:      p.index,
		DocumentID: strconv.FormatUint(uint64(productID), 10),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, p.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		log.Errorf("从 Elasticsearch 删除商品出错: %s", res.String())
		return errors.New("failed to delete product")
	}
	return nil
}

// Search 按关键字与分类集合搜索商品。
func (p *ProductIndex) Search(ctx context.Context, q ProductQuery) (*ProductHits, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(BuildProductQuery(q)); err != nil {
		return nil, fmt.Errorf("failed to encode es query: %w", err)
	}
	res, err := p.client.Search(
		p.client.Search.WithContext(ctx),
		p.client.Search.WithIndex(p.index),
		p.client.Search.WithBody(&buf),
		p.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		log.Errorf("Elasticsearch 返回错误, status: %s, body: %s", res.Status(), string(body))
		return nil, fmt.Errorf("elasticsearch returned an error: %s", res.Status())
	}

	var esResponse struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source model.ProductDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode es response: %w", err)
	}

	out := &ProductHits{Total: esResponse.Hits.Total.Value, Items: make([]model.ProductDocument, 0, len(esResponse.Hits.Hits))}
	for _, hit := range esResponse.Hits.Hits {
		out.Items = append(out.Items, hit.Source)
	}
	return out, nil
}

// BuildProductQuery 构建搜索请求体。没有关键字时按更新时间倒序列出。
func BuildProductQuery(q ProductQuery) map[string]interface{} {
	var must []map[string]interface{}
	if q.Keyword != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keyword,
				"fields": []string{"name^3", "category_path", "description"},
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	var filter []map[string]interface{}
	if len(q.CategoryIDs) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{"category_id": q.CategoryIDs},
		})
	}
	if q.OnlyEnabled {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"status": model.StatusEnabled},
		})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}
	body := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"from":  q.From,
		"size":  q.Size,
	}
	if q.Keyword == "" {
		body["sort"] = []map[string]interface{}{{"updated_at": map[string]interface{}{"order": "desc"}}}
	}
	return body
}
