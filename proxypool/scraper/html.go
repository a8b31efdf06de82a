package scraper

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"proxycheck/internal/shared/logger"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLFileScraper 读取本地 HTML 文件并提取其中的文本。
type HTMLFileScraper struct {
	path string
}

// NewHTMLFileScraper 创建一个新的 HTMLFileScraper 实例。
func NewHTMLFileScraper(path string) Scraper {
	return &HTMLFileScraper{path: path}
}

func (s *HTMLFileScraper) Name() string {
	return s.path
}

func (s *HTMLFileScraper) Scrape() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()
	return htmlLines(f, s.Name())
}

// htmlLines turns an HTML document into text lines. Table rows are emitted
// with their cells joined by ':' so that split ip / port columns still match.
func htmlLines(r io.Reader, source string) ([]string, error) {
	l := logger.WithComponent("ProxyPool/Scraper")

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML for %s: %w", source, err)
	}
	doc.Find("script, style").Remove()

	var lines []string
	rows := 0
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) >= 2 {
			lines = append(lines, strings.Join(cells, ":"))
			rows++
		}
	})

	// Block elements are not separated in Text(), so split on line breaks
	// of the rendered text and on <br>-like boundaries inserted above.
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, pre").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	l.Debug().Str("source", source).Int("rows", rows).Int("lines", len(lines)).Msg("Parsed HTML source.")
	return lines, nil
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(body[:min(len(body), 512)]))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
