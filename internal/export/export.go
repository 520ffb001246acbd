// Package export writes page snapshots as pretty-printed JSON documents.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Sink receives a finished export document.
type Sink interface {
	Write(filename, text string) error
}

// #region filename
// Filename names an export: <page>_session_<unix-ms>.json.
func Filename(page string, t time.Time) string {
	return fmt.Sprintf("%s_session_%d.json", page, t.UnixMilli())
}

// #endregion filename

// #region render
// Render serializes a snapshot with two-space indentation.
func Render(snapshot any) (string, error) {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	return string(data), nil
}

// Export renders snapshot and hands it to sink under a page-derived name.
// It returns the filename used.
func Export(sink Sink, page string, snapshot any, now time.Time) (string, error) {
	text, err := Render(snapshot)
	if err != nil {
		return "", err
	}
	name := Filename(page, now)
	if err := sink.Write(name, text); err != nil {
		return "", fmt.Errorf("write export %s: %w", name, err)
	}
	return name, nil
}

// #endregion render

// #region dir-sink
// DirSink writes exports into a directory, creating it on first use.
type DirSink struct {
	Dir string
}

func (d DirSink) Write(filename, text string) error {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// #endregion dir-sink

// #region memory-sink
// MemorySink keeps exports in memory.
type MemorySink struct {
	mu    sync.Mutex
	files map[string]string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string]string)}
}

func (m *MemorySink) Write(filename, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filename] = text
	return nil
}

// Get returns the text written under filename.
func (m *MemorySink) Get(filename string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.files[filename]
	return t, ok
}

// Names lists written filenames in sorted order.
func (m *MemorySink) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for n := range m.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// #endregion memory-sink
