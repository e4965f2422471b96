// Package proofstore owns the on-disk layout of rendered proofs. Each draft
// gets one directory holding a design.json snapshot of the payload plus one
// PNG and one SVG per surface; cart attachment freezes a copy under an opaque
// snapshot token so later edits cannot mutate an ordered proof.
package proofstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	designFileName = "design.json"
	thumbnailWidth = 300
)

type Store struct {
	baseDir string
	baseURL string
}

func NewStore(baseDir, baseURL string) *Store {
	return &Store{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Store) draftDir(draftID uint64) string {
	return filepath.Join(s.baseDir, "drafts", fmt.Sprintf("%d", draftID), "current")
}

func (s *Store) snapshotDir(token string) string {
	return filepath.Join(s.baseDir, "tmp", token)
}

func surfaceFileName(key, ext string) string {
	return fmt.Sprintf("surface-%s.%s", key, ext)
}

// SaveDesignJSON persists the draft payload next to its rendered surfaces.
// The write goes through a temp file so readers never see a partial proof.
func (s *Store) SaveDesignJSON(draftID uint64, payload any) error {
	dir := s.draftDir(draftID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, designFileName), data)
}

// SaveSurface writes the raster and vector artifacts for one surface. Either
// may be nil when that renderer failed; the other is still written.
func (s *Store) SaveSurface(draftID uint64, key string, pngData, svgData []byte) error {
	dir := s.draftDir(draftID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if pngData != nil {
		if err := writeAtomic(filepath.Join(dir, surfaceFileName(key, "png")), pngData); err != nil {
			return err
		}
	}
	if svgData != nil {
		if err := writeAtomic(filepath.Join(dir, surfaceFileName(key, "svg")), svgData); err != nil {
			return err
		}
	}
	return nil
}

// ClearDraft removes every artifact for a draft. Called when the draft
// switches templates, since stale surfaces would no longer match.
func (s *Store) ClearDraft(draftID uint64) error {
	return os.RemoveAll(s.draftDir(draftID))
}

// HasProof reports whether a completed save exists for the draft.
func (s *Store) HasProof(draftID uint64) bool {
	_, err := os.Stat(filepath.Join(s.draftDir(draftID), designFileName))
	return err == nil
}

// Previews maps each rendered surface key to its public PNG URL.
func (s *Store) Previews(draftID uint64) map[string]string {
	previews := make(map[string]string)
	entries, err := os.ReadDir(s.draftDir(draftID))
	if err != nil {
		return previews
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "surface-") || !strings.HasSuffix(name, ".png") {
			continue
		}
		if strings.HasSuffix(name, ".thumb.png") {
			continue
		}
		key := strings.TrimSuffix(strings.TrimPrefix(name, "surface-"), ".png")
		previews[key] = fmt.Sprintf("%s/drafts/%d/current/%s", s.baseURL, draftID, name)
	}
	return previews
}

// Snapshot copies the draft's current proof under a fresh opaque token and
// returns the token. The copy is what the cart references.
func (s *Store) Snapshot(draftID uint64) (string, error) {
	src := s.draftDir(draftID)
	if _, err := os.Stat(filepath.Join(src, designFileName)); err != nil {
		return "", fmt.Errorf("no saved proof for draft %d", draftID)
	}

	token := uuid.NewString()
	dst := s.snapshotDir(token)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, entry.Name()))
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(dst, entry.Name()), data, 0o644); err != nil {
			return "", err
		}
	}
	return token, nil
}

// SnapshotURL returns the public URL for one surface PNG inside a snapshot.
func (s *Store) SnapshotURL(token, key string) string {
	return fmt.Sprintf("%s/tmp/%s/%s", s.baseURL, token, surfaceFileName(key, "png"))
}

// Thumbnail downsizes a surface PNG for catalog and cart listings. Runs on
// the worker pool after a save, so failures only cost the thumbnail.
func (s *Store) Thumbnail(draftID uint64, key string) error {
	dir := s.draftDir(draftID)
	img, err := imaging.Open(filepath.Join(dir, surfaceFileName(key, "png")))
	if err != nil {
		return err
	}
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	return imaging.Save(thumb, filepath.Join(dir, fmt.Sprintf("surface-%s.thumb.png", key)))
}

// SaveArt stores uploaded background art and returns its public URL. SVG
// uploads are checked for active content before they hit disk; anything but
// raster images and SVG is rejected.
func (s *Store) SaveArt(name string, data []byte) (string, error) {
	base := filepath.Base(name)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".png", ".jpg", ".jpeg":
	case ".svg":
		if err := SanitizeSVG(data); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported art file %q", base)
	}

	dir := filepath.Join(s.baseDir, "art")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := writeAtomic(filepath.Join(dir, base), data); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/art/%s", s.baseURL, base), nil
}

// ResolveUpload maps a public upload URL back to its path on disk. Returns
// the input unchanged when it does not point into the upload area, which
// lets callers pass plain paths through.
func (s *Store) ResolveUpload(url string) string {
	if s.baseURL != "" && strings.HasPrefix(url, s.baseURL+"/") {
		rel := strings.TrimPrefix(url, s.baseURL+"/")
		rel = filepath.Clean("/" + rel)
		return filepath.Join(s.baseDir, rel)
	}
	return url
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
