package universe

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// FileProvider reads the symbol list from a plain text file, one symbol per
// line. Blank lines are skipped.
type FileProvider struct {
	Path string
}

func NewFileProvider(path string) *FileProvider { return &FileProvider{Path: path} }

func (p *FileProvider) Name() string { return "file" }

func (p *FileProvider) Symbols() ([]string, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("open symbols file: %w", err)
	}
	defer f.Close()

	var symbols []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			symbols = append(symbols, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read symbols file: %w", err)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("symbols file %s is empty", p.Path)
	}
	return symbols, nil
}
