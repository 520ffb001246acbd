package export

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct{}

func (failingSink) Write(string, string) error { return errors.New("disk full") }

func TestFilename(t *testing.T) {
	ts := time.UnixMilli(1767225600123)
	assert.Equal(t, "ers_session_1767225600123.json", Filename("ers", ts))
}

func TestExportToDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	sink := DirSink{Dir: dir}

	name, err := Export(sink, "agents", map[string]int{"consensus": 57}, time.UnixMilli(42))
	require.NoError(t, err)
	assert.Equal(t, "agents_session_42.json", name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"consensus\": 57\n}", string(data))
}

func TestExportToMemorySink(t *testing.T) {
	sink := NewMemorySink()
	name, err := Export(sink, "cooking", struct {
		Goal string `json:"goal"`
	}{"g"}, time.UnixMilli(7))
	require.NoError(t, err)

	text, ok := sink.Get(name)
	require.True(t, ok)
	assert.True(t, strings.Contains(text, `"goal": "g"`))
	assert.Equal(t, []string{"cooking_session_7.json"}, sink.Names())
}

func TestExportErrors(t *testing.T) {
	_, err := Export(NewMemorySink(), "ers", math.Inf(1), time.Now())
	assert.Error(t, err, "unserializable snapshot should fail")

	_, err = Export(failingSink{}, "ers", 1, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
