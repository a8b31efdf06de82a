package scraper

import (
	"strings"
)

// Scraper 接口定义了从一个文本来源读取原始行的行为。
type Scraper interface {
	// Scrape 返回来源中的原始文本行，不做任何校验。
	Scrape() ([]string, error)

	// Name 返回来源名称，用于日志记录。
	Name() string
}

// New picks a scraper for source: http(s) URLs are fetched, .html/.htm files
// are parsed as HTML, anything else is read as plain text.
func New(source string) Scraper {
	lower := strings.ToLower(source)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return NewWebScraper(source)
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return NewHTMLFileScraper(source)
	default:
		return NewTextFileScraper(source)
	}
}
