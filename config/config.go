package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Cache    CacheConfig    `yaml:"cache"`
	Storage  StorageConfig  `yaml:"storage"`
	Cron     CronConfig     `yaml:"cron"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type DatabaseConfig struct {
	Path               string `yaml:"path"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxIdleSeconds int    `yaml:"conn_max_idle_seconds"`
}

type ScraperConfig struct {
	SiteURL        string         `yaml:"site_url"`
	RSSURL         string         `yaml:"rss_url"` // 配置后走RSS抓取,不再解析HTML
	Source         string         `yaml:"source"`
	TimeoutSeconds int            `yaml:"timeout_seconds"`
	Selectors      SelectorConfig `yaml:"selectors"`
}

type SelectorConfig struct {
	Post    string `yaml:"post"`
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
	Link    string `yaml:"link"`
}

type CacheConfig struct {
	WindowMinutes int `yaml:"window_minutes"` // 缓存有效时间窗口
	MinArticles   int `yaml:"min_articles"`   // 判定缓存有效的最少文章数
	MaxArticles   int `yaml:"max_articles"`   // 缓存查询上限
}

type StorageConfig struct {
	Dir       string `yaml:"dir"`
	KeepFiles int    `yaml:"keep_files"` // 保留的快照文件数
}

type CronConfig struct {
	ScrapeInterval string `yaml:"scrape_interval"` // 定时抓取间隔
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	// 加载.env(不存在则忽略)
	godotenv.Load()

	// 默认配置
	cfg := &Config{
		Server: ServerConfig{
			Port: "3000",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Path:               "data/news.db",
			MaxOpenConns:       20,
			MaxIdleConns:       5,
			ConnMaxIdleSeconds: 60,
		},
		Scraper: ScraperConfig{
			SiteURL:        "https://techcrunch.com",
			Source:         "techcrunch",
			TimeoutSeconds: 10,
			Selectors: SelectorConfig{
				Post:    "article.post-block",
				Title:   "h2.post-block__title",
				Summary: "div.post-block__content",
				Link:    "a.post-block__title__link",
			},
		},
		Cache: CacheConfig{
			WindowMinutes: 5,
			MinArticles:   10,
			MaxArticles:   50,
		},
		Storage: StorageConfig{
			Dir:       "data/snapshots",
			KeepFiles: 7,
		},
		Cron: CronConfig{
			ScrapeInterval: "*/30 * * * *", // 每30分钟
		},
	}

	// 如果配置文件存在,读取配置
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else {
		log.Printf("配置文件不存在: %s, 使用默认配置", configPath)
	}

	// 环境变量覆盖配置
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if siteURL := os.Getenv("SITE_URL"); siteURL != "" {
		cfg.Scraper.SiteURL = siteURL
	}

	if rssURL := os.Getenv("RSS_URL"); rssURL != "" {
		cfg.Scraper.RSSURL = rssURL
	}

	if dir := os.Getenv("STORAGE_DIR"); dir != "" {
		cfg.Storage.Dir = dir
	}

	return cfg, nil
}

// GetServerAddress 获取服务器监听地址
func (c *Config) GetServerAddress() string {
	// 如果端口是纯数字,加上冒号前缀
	if _, err := strconv.Atoi(c.Server.Port); err == nil {
		return ":" + c.Server.Port
	}
	return c.Server.Port
}

// Timeout 抓取超时时间
func (c *ScraperConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Window 缓存时间窗口
func (c *CacheConfig) Window() time.Duration {
	if c.WindowMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.WindowMinutes) * time.Minute
}
