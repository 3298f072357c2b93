package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestLoadTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.txt")
	writeFile(t, path, "# home goods\nDesk Lamp\r\n\n  Rug  \n   \nVase\n")

	keywords, err := NewLoader(path).Load()
	require.NoError(t, err)

	// surrounding whitespace is kept; the index owns normalization
	assert.Equal(t, []string{"Desk Lamp", "  Rug  ", "Vase"}, keywords)
}

func TestLoadDirectoryOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b_categories.txt"), "Kitchen\nGarden\n")
	writeFile(t, filepath.Join(dir, "a_products.txt"), "Kettle\n")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored\n")
	writeFile(t, filepath.Join(dir, ".hidden.txt"), "ignored\n")
	require.NoError(t, WritePack(filepath.Join(dir, "c_brands.bin"), "brands", []string{"Acme", "Globex"}))

	loader := NewLoader(dir)
	files, err := loader.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a_products.txt"),
		filepath.Join(dir, "b_categories.txt"),
		filepath.Join(dir, "c_brands.bin"),
	}, files)

	keywords, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Kettle", "Kitchen", "Garden", "Acme", "Globex"}, keywords)
	assert.Equal(t, LoaderStats{Files: 3, Keywords: 5, Loads: 1}, loader.Stats())
}

func TestLoadNormalizesToNFC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accents.txt")
	// "Crème" spelled with a combining grave accent
	writeFile(t, path, "Cre\u0300me\n")

	keywords, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cr\u00e8me"}, keywords)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewLoader(filepath.Join(dir, "missing")).Load()
	assert.Error(t, err)

	_, err = NewLoader(dir).Load()
	assert.ErrorContains(t, err, "no catalog files")

	bad := filepath.Join(dir, "broken.bin")
	writeFile(t, bad, "not msgpack at all")
	_, err = NewLoader(bad).Load()
	assert.Error(t, err)
}

func TestPackRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.bin")
	keywords := []string{"Apple Watch", "", "Apple Watch", "Ñandú plush"}

	require.NoError(t, WritePack(path, "store", keywords))

	pack, err := ReadPack(path)
	require.NoError(t, err)
	assert.Equal(t, PackVersion, pack.Version)
	assert.Equal(t, "store", pack.Name)
	assert.Equal(t, keywords, pack.Keywords)
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "a.txt")
	bin := filepath.Join(dir, "b.bin")
	other := filepath.Join(dir, "c.csv")
	writeFile(t, txt, "Lamp\n")
	writeFile(t, other, "Lamp\n")
	require.NoError(t, WritePack(bin, "b", []string{"Lamp"}))

	format, err := DetectFileFormat(txt)
	require.NoError(t, err)
	assert.Equal(t, FormatText, format)

	format, err = DetectFileFormat(bin)
	require.NoError(t, err)
	assert.Equal(t, FormatPack, format)

	_, err = DetectFileFormat(other)
	assert.Error(t, err)

	assert.Error(t, ValidateFileFormat(txt, FormatPack))
	assert.True(t, IsCatalogFile("X.TXT"))
	assert.False(t, IsCatalogFile("x.csv"))
}

func TestWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.txt")
	writeFile(t, path, "Lamp\n")

	w, err := NewWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	changes := make(chan string, 10)
	require.NoError(t, w.Watch(dir, func(p string) { changes <- p }))

	for i := 0; i < 5; i++ {
		writeFile(t, path, "Lamp\nRug\n")
	}
	// non catalog files never trigger
	writeFile(t, filepath.Join(dir, "notes.md"), "x")

	select {
	case p := <-changes:
		assert.Equal(t, filepath.Base(path), filepath.Base(p))
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change callback")
	}

	select {
	case p := <-changes:
		t.Fatalf("expected a single debounced callback, got another for %s", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherStopIdempotent(t *testing.T) {
	w, err := NewWatcher(0)
	require.NoError(t, err)
	require.NoError(t, w.Watch(t.TempDir(), func(string) {}))

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
