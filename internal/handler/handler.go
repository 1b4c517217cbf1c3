package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"news-scraper/internal/service"
)

type Handler struct {
	scraper *service.ScraperService
	cache   *service.CacheService
	store   *service.StoreService
	query   *service.QueryService
	status  *service.StatusService
}

func NewHandler(scraper *service.ScraperService, cache *service.CacheService,
	store *service.StoreService, query *service.QueryService, status *service.StatusService) *Handler {
	return &Handler{
		scraper: scraper,
		cache:   cache,
		store:   store,
		query:   query,
		status:  status,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/scrape", h.Scrape)
	r.GET("/articles", h.ListArticles)
}

// ===== 健康检查 =====

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.status.GetHealth())
}

// ===== 抓取 =====

func (h *Handler) Scrape(c *gin.Context) {
	start := time.Now()

	// 缓存足够新鲜时直接返回,不再抓取
	cached, err := h.cache.RecentArticles()
	if err == nil && h.cache.Valid(cached) {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"fromCache":   true,
			"count":       len(cached),
			"articles":    cached,
			"timestamp":   time.Now(),
			"performance": time.Since(start).String(),
		})
		return
	}

	articles, err := h.scraper.Scrape(c.Request.Context())
	if err != nil {
		h.fallback(c, err)
		return
	}

	result := h.store.Save(c.Request.Context(), articles)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"fromCache":   false,
		"count":       len(articles),
		"articles":    articles,
		"timestamp":   time.Now(),
		"performance": time.Since(start).String(),
		"storage":     result,
	})
}

// fallback 抓取失败时改用库内最新的历史数据
func (h *Handler) fallback(c *gin.Context, scrapeErr error) {
	articles, err := h.cache.LatestArticles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "scrape failed and fallback query failed",
			"error":   err.Error(),
		})
		return
	}

	if len(articles) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "scrape failed and no historical data available",
			"error":   scrapeErr.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"fromCache": true,
		"message":   "scrape failed, serving most recent stored articles",
		"count":     len(articles),
		"articles":  articles,
		"timestamp": time.Now(),
		"error":     nil,
	})
}

// ===== 历史查询 =====

func (h *Handler) ListArticles(c *gin.Context) {
	// 非法的分页参数回退到安全默认值
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	params := service.QueryParams{
		Search:   c.Query("search"),
		FromDate: c.Query("fromDate"),
		ToDate:   c.Query("toDate"),
		Limit:    limit,
		Offset:   offset,
	}

	result, err := h.query.Search(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "query failed",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(result.Articles),
		"total":    result.Total,
		"limit":    params.Limit,
		"offset":   params.Offset,
		"articles": result.Articles,
	})
}
