package proofstore

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), "http://localhost:8080/uploads")
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestSaveAndPreviewRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveSurface(7, "front", pngBytes(t, 10, 10), []byte("<svg/>")))
	require.NoError(t, store.SaveSurface(7, "back", pngBytes(t, 10, 10), nil))
	require.NoError(t, store.SaveDesignJSON(7, map[string]string{"front": "hi"}))

	assert.True(t, store.HasProof(7))

	previews := store.Previews(7)
	require.Len(t, previews, 2)
	assert.Equal(t, "http://localhost:8080/uploads/drafts/7/current/surface-front.png", previews["front"])
	assert.Equal(t, "http://localhost:8080/uploads/drafts/7/current/surface-back.png", previews["back"])
}

func TestHasProofRequiresDesignJSON(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveSurface(3, "front", pngBytes(t, 4, 4), nil))
	assert.False(t, store.HasProof(3))
}

func TestClearDraft(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveDesignJSON(5, map[string]string{}))
	require.NoError(t, store.ClearDraft(5))
	assert.False(t, store.HasProof(5))
	assert.Empty(t, store.Previews(5))
}

func TestSnapshotFreezesProof(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveSurface(9, "front", pngBytes(t, 8, 8), []byte("<svg/>")))
	require.NoError(t, store.SaveDesignJSON(9, map[string]string{"name": "Ada"}))

	token, err := store.Snapshot(9)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	frozen := filepath.Join(store.baseDir, "tmp", token, "surface-front.png")
	original, err := os.ReadFile(frozen)
	require.NoError(t, err)

	// overwrite the live draft; the snapshot must not change
	require.NoError(t, store.SaveSurface(9, "front", pngBytes(t, 20, 20), nil))
	after, err := os.ReadFile(frozen)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(original, after))
}

func TestSnapshotRequiresSavedProof(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Snapshot(42)
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveSurface(2, "front", pngBytes(t, 600, 400), nil))
	require.NoError(t, store.Thumbnail(2, "front"))

	data, err := os.ReadFile(filepath.Join(store.draftDir(2), "surface-front.thumb.png"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestPreviewsSkipThumbnails(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveSurface(4, "front", pngBytes(t, 600, 400), nil))
	require.NoError(t, store.Thumbnail(4, "front"))

	previews := store.Previews(4)
	require.Len(t, previews, 1)
	_, ok := previews["front"]
	assert.True(t, ok)
}

func TestResolveUpload(t *testing.T) {
	store := newTestStore(t)

	resolved := store.ResolveUpload("http://localhost:8080/uploads/backgrounds/card.png")
	assert.Equal(t, filepath.Join(store.baseDir, "backgrounds", "card.png"), resolved)

	assert.Equal(t, "/tmp/direct.png", store.ResolveUpload("/tmp/direct.png"))
	assert.Equal(t, "https://elsewhere.test/x.png", store.ResolveUpload("https://elsewhere.test/x.png"))

	// path traversal stays inside the upload area
	escaped := store.ResolveUpload("http://localhost:8080/uploads/../../etc/passwd")
	assert.Equal(t, filepath.Join(store.baseDir, "etc", "passwd"), escaped)
}

func TestSanitizeSVG(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"clean", `<svg xmlns="http://www.w3.org/2000/svg"><rect width="5" height="5"/></svg>`, false},
		{"script tag", `<svg><script>alert(1)</script></svg>`, true},
		{"uppercase script", `<SVG><SCRIPT>alert(1)</SCRIPT></SVG>`, true},
		{"javascript href", `<svg><a href="javascript:alert(1)">x</a></svg>`, true},
		{"foreign object", `<svg><foreignObject><body/></foreignObject></svg>`, true},
		{"onload handler", `<svg onload="alert(1)"><rect/></svg>`, true},
		{"not svg at all", `<html><body>hi</body></html>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SanitizeSVG([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveArt(t *testing.T) {
	store := newTestStore(t)

	url, err := store.SaveArt("card-bg.svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect width="5" height="5"/></svg>`))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/art/card-bg.svg", url)
	assert.FileExists(t, filepath.Join(store.baseDir, "art", "card-bg.svg"))

	url, err = store.SaveArt("photo.png", pngBytes(t, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/art/photo.png", url)
}

func TestSaveArtRejectsActiveSVG(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveArt("evil.svg", []byte(`<svg onload="alert(1)"><rect/></svg>`))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(store.baseDir, "art", "evil.svg"))
}

func TestSaveArtRejectsUnknownTypesAndTraversal(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveArt("payload.html", []byte("<html/>"))
	require.Error(t, err)

	// directory components in the name are stripped
	url, err := store.SaveArt("../../escape.png", pngBytes(t, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/art/escape.png", url)
	assert.FileExists(t, filepath.Join(store.baseDir, "art", "escape.png"))
}
