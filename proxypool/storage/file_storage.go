package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"proxycheck/internal/shared/logger"
	"strings"
	"sync"
)

// maxLineSize 允许输入文件中出现较长的行（例如从网页复制的整段文本）。
const maxLineSize = 1 << 20

// ErrInputNotFound is returned by Load when the input file does not exist.
var ErrInputNotFound = errors.New("input file not found")

// Storage 定义了候选代理的读取和结果的持久化行为。
type Storage interface {
	// Load 返回输入文件中去除首尾空白后的非空行，顺序不变。
	Load() ([]string, error)
	// Save 用给定行覆盖输出文件，每行以 '\n' 结尾。
	Save(lines []string) error
}

// FileStorage 实现了 Storage 接口，使用纯文本文件进行读写。
type FileStorage struct {
	inputPath  string
	outputPath string
	mu         sync.RWMutex
}

// NewFileStorage 创建一个新的 FileStorage 实例。
func NewFileStorage(inputPath, outputPath string) *FileStorage {
	return &FileStorage{
		inputPath:  inputPath,
		outputPath: outputPath,
	}
}

// OutputPath returns the file Save writes to.
func (fs *FileStorage) OutputPath() string {
	return fs.outputPath
}

// Load 从纯文本文件读取候选行。
func (fs *FileStorage) Load() ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	l := logger.WithComponent("ProxyPool/Storage")

	file, err := os.Open(fs.inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, fs.inputPath)
		}
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file at line %d: %w", lineNum+1, err)
	}

	l.Debug().Str("path", fs.inputPath).Int("lines", len(lines)).Msg("Loaded input file.")
	return lines, nil
}

// Save 将结果行写入输出文件。
func (fs *FileStorage) Save(lines []string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	l := logger.WithComponent("ProxyPool/Storage")

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if err := os.WriteFile(fs.outputPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	l.Info().Str("path", fs.outputPath).Int("count", len(lines)).Msg("Successfully saved proxies to file.")
	return nil
}
