package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// StdoutConfig represents configuration for the stdout adapter
type StdoutConfig struct {
	Format    string // json or text
	Colorized bool
	Writer    io.Writer // defaults to os.Stdout
}

// StdoutAdapter writes entries to standard output
type StdoutAdapter struct {
	name   string
	config StdoutConfig
	mu     sync.Mutex
}

// NewStdoutAdapter creates a new stdout adapter
func NewStdoutAdapter(name string, config StdoutConfig) *StdoutAdapter {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	return &StdoutAdapter{name: name, config: config}
}

func (a *StdoutAdapter) Write(entry *LogEntry) error {
	line, err := formatEntry(entry, a.config.Format, a.config.Colorized)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = fmt.Fprintln(a.config.Writer, line)
	return err
}

func (a *StdoutAdapter) Close() error  { return nil }
func (a *StdoutAdapter) Health() error { return nil }
func (a *StdoutAdapter) Name() string  { return a.name }
