package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileConfig represents configuration for the file adapter
type FileConfig struct {
	FilePath   string
	Format     string // json or text
	MaxSize    int64  // rotate when the file reaches this many bytes, 0 = never
	MaxBackups int
	Compress   bool // gzip rotated files
	FileMode   os.FileMode
}

// FileAdapter appends entries to a file with size based rotation
type FileAdapter struct {
	name   string
	config FileConfig
	file   *os.File
	size   int64
	mu     sync.Mutex
}

// NewFileAdapter opens (or creates) the configured log file
func NewFileAdapter(name string, config FileConfig) (*FileAdapter, error) {
	if config.FilePath == "" {
		return nil, fmt.Errorf("file_path is required for file adapter")
	}
	if config.FileMode == 0 {
		config.FileMode = 0o644
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 10
	}

	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	a := &FileAdapter{name: name, config: config}
	if err := a.open(); err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return a, nil
}

func (a *FileAdapter) Write(entry *LogEntry) error {
	line, err := formatEntry(entry, a.config.Format, false)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return fmt.Errorf("log file is closed")
	}
	if a.config.MaxSize > 0 && a.size >= a.config.MaxSize {
		if err := a.rotate(); err != nil {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	}

	n, err := a.file.WriteString(line + "\n")
	a.size += int64(n)
	if err != nil {
		return fmt.Errorf("failed to write to log file: %w", err)
	}
	return nil
}

func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}

func (a *FileAdapter) Health() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return fmt.Errorf("log file is not open")
	}
	if _, err := a.file.Stat(); err != nil {
		return fmt.Errorf("log file is not accessible: %w", err)
	}
	return nil
}

func (a *FileAdapter) Name() string { return a.name }

func (a *FileAdapter) open() error {
	f, err := os.OpenFile(a.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, a.config.FileMode)
	if err != nil {
		return err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	a.file = f
	a.size = stat.Size()
	return nil
}

// rotate moves the current file aside, optionally compresses it, prunes old
// backups and reopens a fresh file. Caller holds a.mu.
func (a *FileAdapter) rotate() error {
	if err := a.file.Close(); err != nil {
		return err
	}
	a.file = nil

	backup := fmt.Sprintf("%s.%s", a.config.FilePath, time.Now().Format("20060102-150405.000000"))
	if err := os.Rename(a.config.FilePath, backup); err != nil {
		return err
	}

	if a.config.Compress {
		if err := compressFile(backup); err != nil {
			fmt.Fprintf(os.Stderr, "failed to compress rotated log file %s: %v\n", backup, err)
		}
	}
	if err := a.pruneBackups(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to prune log backups: %v\n", err)
	}

	return a.open()
}

func compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		dst.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

func (a *FileAdapter) pruneBackups() error {
	dir := filepath.Dir(a.config.FilePath)
	base := filepath.Base(a.config.FilePath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var backups []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), base+".") {
			backups = append(backups, entry.Name())
		}
	}
	if len(backups) <= a.config.MaxBackups {
		return nil
	}

	// backup names embed their rotation time, so lexical order is age order
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	for _, name := range backups[a.config.MaxBackups:] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
