package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 针对运行中的服务发送真实HTTP请求，服务地址通过BOOKSHELF_TEST_URL指定

const (
	// DefaultServerURL 默认服务地址
	DefaultServerURL = "http://localhost:8080"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

var (
	// ServerURL 服务地址
	ServerURL = serverURL()
	// BaseURL API基础URL
	BaseURL = ServerURL + "/api/v1"

	client = &http.Client{Timeout: Timeout}
	isbnSeq atomic.Int64
)

func serverURL() string {
	if url := os.Getenv("BOOKSHELF_TEST_URL"); url != "" {
		return url
	}
	return DefaultServerURL
}

// TestMain 服务不可达时跳过整个集成测试
func TestMain(m *testing.M) {
	resp, err := client.Get(ServerURL + "/ping")
	if err != nil {
		fmt.Printf("跳过集成测试：服务不可达 (%s): %v\n", ServerURL, err)
		os.Exit(0)
	}
	resp.Body.Close()

	os.Exit(m.Run())
}

// Response 统一响应结构
type Response struct {
	Status    int             `json:"-"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"errorCode"`
}

// BookData 图书响应数据
type BookData struct {
	ID                  uint    `json:"id"`
	Title               string  `json:"title"`
	Author              string  `json:"author"`
	ISBN                string  `json:"isbn"`
	Publisher           string  `json:"publisher"`
	Price               float64 `json:"price"`
	StockQuantity       int     `json:"stockQuantity"`
	Category            string  `json:"category"`
	CategoryDescription string  `json:"categoryDescription"`
	Description         string  `json:"description"`
	PublishedDate       *string `json:"publishedDate"`
}

// BookListData 图书分页数据
type BookListData struct {
	Books         []BookData `json:"books"`
	PageNumber    int        `json:"pageNumber"`
	PageSize      int        `json:"pageSize"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
	First         bool       `json:"first"`
	Last          bool       `json:"last"`
}

// DoJSON 发送请求并解析统一响应
// data为nil时不发送请求体
func DoJSON(t *testing.T, method, url string, data interface{}) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	result.Status = resp.StatusCode
	return &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data interface{}) *Response {
	return DoJSON(t, http.MethodPost, url, data)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string) *Response {
	return DoJSON(t, http.MethodGet, url, nil)
}

// Decode 解析响应中的data
func Decode[T any](t *testing.T, resp *Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v), "解析data失败: %s", string(resp.Data))
	return v
}

// GenerateTestISBN 生成唯一的测试ISBN
// 979前缀 + 时间戳后8位 + 进程内序号，保证13位且重复运行不冲突
func GenerateTestISBN() string {
	seq := isbnSeq.Add(1) % 100
	return fmt.Sprintf("979%08d%02d", time.Now().UnixNano()/1000%100000000, seq)
}

// BookPayload 构造创建图书请求
func BookPayload(title, author, category string) map[string]interface{} {
	return map[string]interface{}{
		"title":         title,
		"author":        author,
		"isbn":          GenerateTestISBN(),
		"publisher":     "集成测试出版社",
		"price":         5900,
		"stockQuantity": 10,
		"category":      category,
		"description":   "集成测试数据",
	}
}

// CreateTestBook 创建图书并返回响应数据
func CreateTestBook(t *testing.T, payload map[string]interface{}) BookData {
	t.Helper()
	resp := PostJSON(t, BaseURL+"/books", payload)
	require.Equal(t, http.StatusCreated, resp.Status, "创建图书失败: %s", resp.Message)
	return Decode[BookData](t, resp)
}

// DeleteTestBook 清理测试数据
func DeleteTestBook(t *testing.T, id uint) {
	t.Helper()
	DoJSON(t, http.MethodDelete, fmt.Sprintf("%s/books/%d", BaseURL, id), nil)
}
