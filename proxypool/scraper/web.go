package scraper

import (
	"bytes"
	"proxycheck/internal/shared/logger"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	webUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"
	webRequestTimeout = 20 * time.Second
)

// WebScraper 通过 HTTP 抓取一个远程来源（纯文本列表或 HTML 页面）。
// 每次 Scrape 使用新的 collector，因此可以重复调用。
type WebScraper struct {
	url string
}

// NewWebScraper 创建一个新的 WebScraper 实例。
func NewWebScraper(url string) Scraper {
	return &WebScraper{url: url}
}

func newCollector() *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(webUserAgent))
	c.SetRequestTimeout(webRequestTimeout)
	return c
}

func (s *WebScraper) Name() string {
	return s.url
}

func (s *WebScraper) Scrape() ([]string, error) {
	l := logger.WithComponent("ProxyPool/Scraper")
	l.Info().Str("source", s.Name()).Msg("Starting scrape...")

	var lines []string
	var scrapeErr error

	c := newCollector()
	c.OnResponse(func(r *colly.Response) {
		if isHTML(r.Headers.Get("Content-Type"), r.Body) {
			parsed, err := htmlLines(bytes.NewReader(r.Body), s.Name())
			if err != nil {
				scrapeErr = err
				return
			}
			lines = append(lines, parsed...)
			return
		}
		for _, line := range strings.Split(string(r.Body), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		l.Error().Err(err).Int("status_code", r.StatusCode).Str("url", r.Request.URL.String()).Msg("Scrape request failed.")
		scrapeErr = err
	})

	if err := c.Visit(s.url); err != nil {
		return nil, err
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}

	l.Info().Int("lines", len(lines)).Str("source", s.Name()).Msg("Scrape finished.")
	return lines, nil
}
