package localstore

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericardos/chamada-escolar/core"
)

func testLogger() core.Logger {
	return core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "chamada.json")
	store := NewFileStore(path, testLogger())

	_, ok := store.Load()
	assert.False(t, ok, "missing file reads as absent")

	assert.NoError(t, store.Save(`[{"id":"s1"}]`))
	text, ok := store.Load()
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"s1"}]`, text)

	// saves overwrite
	assert.NoError(t, store.Save("[]"))
	text, _ = store.Load()
	assert.Equal(t, "[]", text)
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()

	_, ok := store.Load()
	assert.False(t, ok)

	assert.NoError(t, store.Save("hello"))
	text, ok := store.Load()
	assert.True(t, ok)
	assert.Equal(t, "hello", text)
}
