package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	goimage "image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/graphics"
)

// Loader reads the encoded bytes of a source.
type Loader interface {
	Load(src SourceInfo) ([]byte, error)
}

// CreateLoader returns the loader for src's kind. Memory sources resolve
// against mem.
func CreateLoader(src SourceInfo, mem *MemoryStore) (Loader, error) {
	switch src.Kind {
	case SourceFile:
		return fileLoader{}, nil
	case SourceData:
		return dataLoader{}, nil
	case SourceMemory:
		if mem == nil {
			return nil, errors.ErrUnsupportedSource
		}
		return mem, nil
	default:
		return nil, errors.ErrUnsupportedSource
	}
}

type fileLoader struct{}

func (fileLoader) Load(src SourceInfo) ([]byte, error) {
	path := src.Src
	if strings.HasPrefix(strings.ToLower(path), fileScheme) {
		path = path[len(fileScheme):]
	}
	return os.ReadFile(path)
}

type dataLoader struct{}

// Load decodes a data URI: data:[<mediatype>][;base64],<payload>.
func (dataLoader) Load(src SourceInfo) ([]byte, error) {
	rest := src.Src[len(dataScheme):]
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: data uri without payload", errors.ErrBrokenData)
	}
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrBrokenData, err)
		}
		return data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBrokenData, err)
	}
	return []byte(text), nil
}

// MemoryStore holds encoded images registered under memory:// names.
type MemoryStore struct {
	mu     sync.RWMutex
	images map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{images: make(map[string][]byte)}
}

// Put registers data under name and returns the source that loads it.
func (m *MemoryStore) Put(name string, data []byte) SourceInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[name] = data
	return SourceInfo{Src: memoryScheme + name, Kind: SourceMemory}
}

// Remove drops name.
func (m *MemoryStore) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, name)
}

// Load implements Loader.
func (m *MemoryStore) Load(src SourceInfo) ([]byte, error) {
	name := src.Src
	if strings.HasPrefix(strings.ToLower(name), memoryScheme) {
		name = name[len(memoryScheme):]
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.images[name]
	if !ok {
		return nil, fmt.Errorf("memory image %q: %w", name, os.ErrNotExist)
	}
	return data, nil
}

// EncodedInfo is what sniffing the encoded bytes reveals without decoding
// pixels.
type EncodedInfo struct {
	Format     string
	Size       graphics.Size
	FrameCount int
}

// DecodeInfo reads the header of data.
func DecodeInfo(data []byte) (EncodedInfo, error) {
	cfg, format, err := goimage.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return EncodedInfo{}, fmt.Errorf("%w: %v", errors.ErrBrokenData, err)
	}
	info := EncodedInfo{
		Format:     format,
		Size:       graphics.Size{Width: float64(cfg.Width), Height: float64(cfg.Height)},
		FrameCount: 1,
	}
	if format == "gif" {
		if all, err := gif.DecodeAll(bytes.NewReader(data)); err == nil {
			info.FrameCount = len(all.Image)
		}
	}
	return info, nil
}
