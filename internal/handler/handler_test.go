package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"news-scraper/config"
	"news-scraper/internal/model"
	"news-scraper/internal/service"
	"news-scraper/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	// 内存库限制单连接
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Article{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func testScraperConfig(siteURL string) config.ScraperConfig {
	return config.ScraperConfig{
		SiteURL:        siteURL,
		Source:         "test",
		TimeoutSeconds: 2,
		Selectors: config.SelectorConfig{
			Post:    ".post",
			Title:   ".title",
			Summary: ".summary",
			Link:    "a",
		},
	}
}

func setupRouter(t *testing.T, db *gorm.DB, scraperCfg config.ScraperConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	snap, err := storage.NewSnapshot(t.TempDir(), 7)
	if err != nil {
		t.Fatalf("Failed to create snapshot storage: %v", err)
	}

	scraper, err := service.NewScraperService(scraperCfg)
	if err != nil {
		t.Fatalf("Failed to create scraper: %v", err)
	}

	cache := service.NewCacheService(db, config.CacheConfig{WindowMinutes: 5, MinArticles: 10, MaxArticles: 50})
	h := NewHandler(
		scraper,
		cache,
		service.NewStoreService(db, snap),
		service.NewQueryService(db),
		service.NewStatusService(db, snap),
	)

	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) (int, map[string]interface{}) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return w.Code, body
}

// deadServerURL 返回一个已关闭的地址,请求必然失败
func deadServerURL() string {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	return url
}

func TestHealth(t *testing.T) {
	db := newTestDB(t)
	r := setupRouter(t, db, testScraperConfig("https://example.com"))

	code, body := doGet(t, r, "/health")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%v'", body["status"])
	}
	if body["db_connected"] != true {
		t.Errorf("Expected db_connected true, got %v", body["db_connected"])
	}

	storageInfo, ok := body["storage"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected storage object, got %v", body["storage"])
	}
	if storageInfo["exists"] != true || storageInfo["writable"] != true {
		t.Errorf("Expected storage exists and writable, got %v", storageInfo)
	}
}

func TestScrapeFresh(t *testing.T) {
	page := `<html><body>
	<div class="post"><h2 class="title">First</h2><p class="summary">s1</p><a href="/news/1">x</a></div>
	<div class="post"><h2 class="title">Second</h2><a href="/news/2">x</a></div>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	db := newTestDB(t)
	r := setupRouter(t, db, testScraperConfig(srv.URL))

	code, body := doGet(t, r, "/scrape")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if body["success"] != true {
		t.Errorf("Expected success true, got %v", body["success"])
	}
	if body["fromCache"] != false {
		t.Errorf("Expected fromCache false, got %v", body["fromCache"])
	}
	if body["count"] != float64(2) {
		t.Errorf("Expected count 2, got %v", body["count"])
	}

	storageResult, ok := body["storage"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected storage flags, got %v", body["storage"])
	}
	if storageResult["database"] != true || storageResult["file"] != true {
		t.Errorf("Expected both storage writes to succeed, got %v", storageResult)
	}

	var count int64
	db.Model(&model.Article{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 rows persisted, got %d", count)
	}
}

func TestScrapeCacheHit(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 10; i++ {
		db.Create(&model.Article{
			Title: fmt.Sprintf("cached %d", i),
			Link:  fmt.Sprintf("https://example.com/c%d", i),
		})
	}

	// 抓取地址不可达: 命中缓存时不应发起请求
	r := setupRouter(t, db, testScraperConfig(deadServerURL()))

	code, body := doGet(t, r, "/scrape")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if body["success"] != true || body["fromCache"] != true {
		t.Errorf("Expected cache hit, got success=%v fromCache=%v", body["success"], body["fromCache"])
	}
	if body["count"] != float64(10) {
		t.Errorf("Expected count 10, got %v", body["count"])
	}
	if _, hasStorage := body["storage"]; hasStorage {
		t.Errorf("Cache hit should not report storage flags")
	}
}

func TestScrapeFallbackWithHistory(t *testing.T) {
	db := newTestDB(t)
	db.Create(&model.Article{Title: "historical", Link: "https://example.com/h"})

	r := setupRouter(t, db, testScraperConfig(deadServerURL()))

	code, body := doGet(t, r, "/scrape")
	if code != http.StatusOK {
		t.Fatalf("Expected 200 fallback response, got %d", code)
	}
	if body["success"] != true || body["fromCache"] != true {
		t.Errorf("Expected stale fallback, got success=%v fromCache=%v", body["success"], body["fromCache"])
	}
	if body["error"] != nil {
		t.Errorf("Expected error null on fallback, got %v", body["error"])
	}
	if body["count"] != float64(1) {
		t.Errorf("Expected 1 fallback article, got %v", body["count"])
	}
}

func TestScrapeFallbackEmptyStore(t *testing.T) {
	db := newTestDB(t)
	r := setupRouter(t, db, testScraperConfig(deadServerURL()))

	code, body := doGet(t, r, "/scrape")
	if code != http.StatusInternalServerError {
		t.Fatalf("Expected 500 with no historical data, got %d", code)
	}
	if body["success"] != false {
		t.Errorf("Expected success false, got %v", body["success"])
	}
	if body["error"] == nil || body["error"] == "" {
		t.Errorf("Expected original scrape error surfaced, got %v", body["error"])
	}
}

func TestListArticles(t *testing.T) {
	db := newTestDB(t)
	for i := 0; i < 3; i++ {
		db.Create(&model.Article{
			Title: fmt.Sprintf("foo %d", i),
			Link:  fmt.Sprintf("https://example.com/f%d", i),
		})
	}

	r := setupRouter(t, db, testScraperConfig("https://example.com"))

	code, body := doGet(t, r, "/articles?limit=2")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if body["success"] != true {
		t.Errorf("Expected success true, got %v", body["success"])
	}
	if body["count"] != float64(2) {
		t.Errorf("Expected count 2, got %v", body["count"])
	}
	if body["total"] != float64(3) {
		t.Errorf("Expected total 3, got %v", body["total"])
	}
	if body["limit"] != float64(2) || body["offset"] != float64(0) {
		t.Errorf("Expected limit=2 offset=0 echoed, got limit=%v offset=%v", body["limit"], body["offset"])
	}
}

func TestListArticlesBadParams(t *testing.T) {
	db := newTestDB(t)
	db.Create(&model.Article{Title: "foo", Link: "https://example.com/f"})

	r := setupRouter(t, db, testScraperConfig("https://example.com"))

	// 非法的分页参数回退到安全默认值
	code, body := doGet(t, r, "/articles?limit=abc&offset=xyz")
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if body["limit"] != float64(50) {
		t.Errorf("Expected default limit 50, got %v", body["limit"])
	}
	if body["count"] != float64(1) {
		t.Errorf("Expected count 1, got %v", body["count"])
	}
}
