package image

import (
	"fmt"
	"strings"

	"github.com/go-drift/ace/pkg/graphics"
)

// SourceKind classifies where an image source's bytes come from.
type SourceKind int

const (
	SourceUnknown SourceKind = iota
	SourceFile
	SourceData
	SourceMemory
	SourceNetwork
)

func (k SourceKind) String() string {
	switch k {
	case SourceFile:
		return "file"
	case SourceData:
		return "data"
	case SourceMemory:
		return "memory"
	case SourceNetwork:
		return "network"
	default:
		return "unknown"
	}
}

const (
	fileScheme   = "file://"
	dataScheme   = "data:"
	memoryScheme = "memory://"
)

// SourceInfo identifies an image source. It is a comparable value: two
// requests are for the same image exactly when their SourceInfos are equal.
type SourceInfo struct {
	Src  string
	Kind SourceKind
}

// NewSourceInfo classifies src by its scheme. Bare paths are files.
func NewSourceInfo(src string) SourceInfo {
	src = strings.TrimSpace(src)
	lower := strings.ToLower(src)
	kind := SourceUnknown
	switch {
	case src == "":
	case strings.HasPrefix(lower, dataScheme):
		kind = SourceData
	case strings.HasPrefix(lower, memoryScheme):
		kind = SourceMemory
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		kind = SourceNetwork
	case strings.HasPrefix(lower, fileScheme), !strings.Contains(lower, "://"):
		kind = SourceFile
	}
	return SourceInfo{Src: src, Kind: kind}
}

// IsValid reports whether the source names anything.
func (s SourceInfo) IsValid() bool {
	return s.Src != "" && s.Kind != SourceUnknown
}

// IsSvg reports whether the source is an SVG document.
func (s SourceInfo) IsSvg() bool {
	lower := strings.ToLower(s.Src)
	if s.Kind == SourceData {
		return strings.HasPrefix(lower, "data:image/svg")
	}
	return strings.HasSuffix(lower, ".svg")
}

// CacheKey identifies the canvas image of this source at target size.
func (s SourceInfo) CacheKey(target graphics.Size) string {
	return fmt.Sprintf("%s|%dx%d", s.Src, int(target.Width), int(target.Height))
}

func (s SourceInfo) String() string {
	src := s.Src
	if s.Kind == SourceData && len(src) > 32 {
		src = src[:32] + "..."
	}
	return fmt.Sprintf("%s(%s)", s.Kind, src)
}
