package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontCache resolves font families to parsed faces. Lookups go through the
// configured font directory first, then the system font paths. A missing
// family falls back to Go Regular so rendering never fails on fonts alone.
type FontCache struct {
	dir string

	once  sync.Once
	ready chan struct{}

	mu       sync.Mutex
	index    map[string]string // lowercase basename without extension -> path
	parsed   map[string]*truetype.Font
	fallback *truetype.Font
}

func NewFontCache(dir string) *FontCache {
	fallback, err := truetype.Parse(goregular.TTF)
	if err != nil {
		// goregular is a compiled-in asset; Parse cannot fail on it.
		panic(err)
	}
	return &FontCache{
		dir:      dir,
		ready:    make(chan struct{}),
		parsed:   make(map[string]*truetype.Font),
		fallback: fallback,
	}
}

// EnsureFonts scans the font directories once, in the background, and waits
// for the scan to finish or the context to expire. Callers bound the wait so
// a slow font directory cannot stall a save.
func (fc *FontCache) EnsureFonts(ctx context.Context) error {
	fc.once.Do(func() {
		go func() {
			index := fc.scan()
			fc.mu.Lock()
			fc.index = index
			fc.mu.Unlock()
			close(fc.ready)
		}()
	})
	select {
	case <-fc.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (fc *FontCache) scan() map[string]string {
	index := make(map[string]string)
	add := func(path string) {
		name := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if _, exists := index[name]; !exists {
			index[name] = path
		}
	}
	for _, path := range findfont.List() {
		add(path)
	}
	if fc.dir != "" {
		entries, err := os.ReadDir(fc.dir)
		if err == nil {
			for _, entry := range entries {
				ext := strings.ToLower(filepath.Ext(entry.Name()))
				if ext == ".ttf" || ext == ".otf" {
					// local dir wins over system fonts
					name := strings.ToLower(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
					index[name] = filepath.Join(fc.dir, entry.Name())
				}
			}
		}
	}
	return index
}

// candidates lists basenames to try for a family and style, most specific
// first.
func candidates(family string, bold, italic bool) []string {
	base := strings.ToLower(strings.ReplaceAll(family, " ", ""))
	spaced := strings.ToLower(family)
	switch {
	case bold && italic:
		return []string{
			base + "bi", base + "-bolditalic", spaced + " bold italic",
			base + "bd", base, spaced,
		}
	case bold:
		return []string{
			base + "bd", base + "-bold", spaced + " bold",
			base, spaced,
		}
	case italic:
		return []string{
			base + "i", base + "-italic", spaced + " italic",
			base, spaced,
		}
	default:
		return []string{base, spaced}
	}
}

func (fc *FontCache) resolve(family string, bold, italic bool) *truetype.Font {
	key := strings.ToLower(family)
	if bold {
		key += "|b"
	}
	if italic {
		key += "|i"
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if f, ok := fc.parsed[key]; ok {
		return f
	}

	for _, name := range candidates(family, bold, italic) {
		path, ok := fc.index[name]
		if !ok {
			p, err := findfont.Find(name + ".ttf")
			if err != nil {
				continue
			}
			path = p
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			continue
		}
		fc.parsed[key] = f
		return f
	}

	fc.parsed[key] = fc.fallback
	return fc.fallback
}

// Face returns a font face for the family at the given pixel size. DPI is
// pinned to 72 so the size is an exact pixel height.
func (fc *FontCache) Face(family string, bold, italic bool, sizePx float64) font.Face {
	f := fc.resolve(family, bold, italic)
	return truetype.NewFace(f, &truetype.Options{
		Size: sizePx,
		DPI:  72,
	})
}
