package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"news-scraper/config"
	"news-scraper/internal/service"
)

type Scheduler struct {
	cron          *cron.Cron
	scraper       *service.ScraperService
	cache         *service.CacheService
	store         *service.StoreService
	config        config.CronConfig
	scrapeEntryID cron.EntryID
}

func NewScheduler(scraper *service.ScraperService, cache *service.CacheService,
	store *service.StoreService, cfg config.CronConfig) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		scraper: scraper,
		cache:   cache,
		store:   store,
		config:  cfg,
	}
}

func (s *Scheduler) Start() {
	// 定时抓取任务
	s.scrapeEntryID, _ = s.cron.AddFunc(s.config.ScrapeInterval, s.run)

	s.cron.Start()
	log.Printf("[Cron] Scheduler started (scrape: %s, next: %s)", s.config.ScrapeInterval, s.GetNextScrapeTime().Format(time.RFC3339))
}

func (s *Scheduler) run() {
	// 缓存仍然新鲜时跳过本轮
	cached, err := s.cache.RecentArticles()
	if err == nil && s.cache.Valid(cached) {
		log.Println("[Cron] Cache still fresh, skipping scrape")
		return
	}

	log.Println("[Cron] Scraping site...")
	ctx := context.Background()

	articles, err := s.scraper.Scrape(ctx)
	if err != nil {
		log.Printf("[Cron] Scrape failed: %v", err)
		return
	}

	result := s.store.Save(ctx, articles)
	log.Printf("[Cron] Saved %d articles (database: %v, file: %v)", len(articles), result.Database, result.File)
}

// GetNextScrapeTime 获取下次抓取时间
func (s *Scheduler) GetNextScrapeTime() time.Time {
	entry := s.cron.Entry(s.scrapeEntryID)
	return entry.Next
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
