package scraper

import (
	"proxycheck/internal/shared/logger"
	"proxycheck/proxypool/storage"
)

// TextFileScraper 读取本地纯文本文件。
type TextFileScraper struct {
	path string
}

// NewTextFileScraper 创建一个新的 TextFileScraper 实例。
func NewTextFileScraper(path string) Scraper {
	return &TextFileScraper{path: path}
}

func (s *TextFileScraper) Name() string {
	return s.path
}

func (s *TextFileScraper) Scrape() ([]string, error) {
	l := logger.WithComponent("ProxyPool/Scraper")
	lines, err := storage.NewFileStorage(s.path, "").Load()
	if err != nil {
		return nil, err
	}
	l.Debug().Str("source", s.Name()).Int("lines", len(lines)).Msg("Read text source.")
	return lines, nil
}
