/*
Package catalog loads keyword catalogs: the product names, categories and other
strings the storefront offers as suggestions.

A catalog is a single file or a directory of files. Text files hold one keyword per
line and '#' starts a comment line. Pack files (.bin) hold a msgpack encoded Pack and
are produced by the kwpack tool. Directories are read in lexical filename order so
that keyword order, which decides suggestion order, is stable between loads.
*/
package catalog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"
)

// FileInfo describes one catalog file
type FileInfo struct {
	Path     string
	Format   FileFormat
	Keywords int
}

// LoaderStats provides statistics about the last load
type LoaderStats struct {
	Files    int
	Keywords int
	Loads    int
}

// Loader reads keywords from a catalog file or directory
type Loader struct {
	path  string
	mu    sync.Mutex
	stats LoaderStats
}

// NewLoader creates a loader for a catalog file or directory
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the catalog path
func (l *Loader) Path() string {
	return l.path
}

// Files lists the catalog files that Load would read, in load order
func (l *Loader) Files() ([]string, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog %s: %w", l.path, err)
	}
	if !info.IsDir() {
		return []string{l.path}, nil
	}

	entries, err := os.ReadDir(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog dir %s: %w", l.path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !IsCatalogFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(l.path, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Load reads every catalog file and returns the keywords in file order.
// Keywords are NFC normalized so composed and decomposed accents index alike.
func (l *Loader) Load() ([]string, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files found in %s", l.path)
	}

	var keywords []string
	for _, file := range files {
		info, err := loadFile(file)
		if err != nil {
			return nil, err
		}
		log.Debugf("Loaded %s (%s): %d keywords", info.Path, info.Format, len(info.keywords))
		keywords = append(keywords, info.keywords...)
	}

	l.mu.Lock()
	l.stats.Files = len(files)
	l.stats.Keywords = len(keywords)
	l.stats.Loads++
	l.mu.Unlock()

	log.Debugf("Catalog %s: %d keywords from %d files", l.path, len(keywords), len(files))
	return keywords, nil
}

// Stats returns statistics about the last successful load
func (l *Loader) Stats() LoaderStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

type loadedFile struct {
	FileInfo
	keywords []string
}

func loadFile(path string) (*loadedFile, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	var keywords []string
	switch format {
	case FormatText:
		keywords, err = readTextFile(path)
	case FormatPack:
		var pack *Pack
		pack, err = ReadPack(path)
		if err == nil {
			keywords = pack.Keywords
		}
	}
	if err != nil {
		return nil, err
	}

	for i, kw := range keywords {
		keywords[i] = norm.NFC.String(kw)
	}
	return &loadedFile{
		FileInfo: FileInfo{Path: path, Format: format, Keywords: len(keywords)},
		keywords: keywords,
	}, nil
}

// readTextFile reads one keyword per line, skipping blank and '#' lines
func readTextFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer file.Close()

	var keywords []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		keywords = append(keywords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return keywords, nil
}
