package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/graphics"
)

// maxTreeDepth limits recursion depth when serializing the node tree.
const maxTreeDepth = 500

// NodeInfo is a node in the serialized frame node tree.
type NodeInfo struct {
	Tag         string     `json:"tag"`
	ID          string     `json:"id"`
	Depth       int        `json:"depth"`
	Frame       SafeRect   `json:"frame"`
	LayoutDirty bool       `json:"layoutDirty"`
	RenderDirty bool       `json:"renderDirty"`
	Boundary    bool       `json:"measureBoundary,omitempty"`
	Children    []NodeInfo `json:"children,omitempty"`
}

// SafeFloat wraps a float64 to handle Inf/NaN in JSON encoding.
type SafeFloat float64

func (f SafeFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 1) {
		return []byte(`"Infinity"`), nil
	}
	if math.IsInf(v, -1) {
		return []byte(`"-Infinity"`), nil
	}
	if math.IsNaN(v) {
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

// SafeRect is a JSON-safe version of graphics.Rect.
type SafeRect struct {
	X      SafeFloat `json:"x"`
	Y      SafeFloat `json:"y"`
	Width  SafeFloat `json:"width"`
	Height SafeFloat `json:"height"`
}

func safeRect(r graphics.Rect) SafeRect {
	return SafeRect{X: SafeFloat(r.Left), Y: SafeFloat(r.Top), Width: SafeFloat(r.Width()), Height: SafeFloat(r.Height())}
}

func serializeNode(n *core.FrameNode, depth int) NodeInfo {
	info := NodeInfo{
		Tag:         n.Tag(),
		ID:          n.ID(),
		Depth:       n.Depth(),
		Frame:       safeRect(n.GeometryNode().Frame()),
		LayoutDirty: n.IsLayoutDirtyMarked(),
		RenderDirty: n.IsRenderDirtyMarked(),
		Boundary:    n.IsMeasureBoundary(),
	}
	if depth >= maxTreeDepth {
		return info
	}
	for _, child := range n.Children() {
		info.Children = append(info.Children, serializeNode(child, depth+1))
	}
	return info
}

// DebugHandler serves the node tree and frame timeline as JSON:
//
//	GET /health
//	GET /tree
//	GET /frames?limit=N&min_ms=X
func (e *Engine) DebugHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", handleHealth)
	r.Get("/tree", e.handleTree)
	r.Get("/frames", e.handleFrameTimeline)
	return r
}

// ServeDebug serves DebugHandler on addr until ctx is done.
func (e *Engine) ServeDebug(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("debug server listen: %w", err)
	}
	server := &http.Server{Handler: e.DebugHandler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdown)
	}()
	e.logger.Info("debug server listening", "addr", listener.Addr().String())
	if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleTree serializes the tree on the UI queue, between frames.
func (e *Engine) handleTree(w http.ResponseWriter, _ *http.Request) {
	var tree NodeInfo
	if !e.Update(func() { tree = serializeNode(e.stage, 0) }) {
		http.Error(w, "engine stopped", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, tree)
}

func (e *Engine) handleFrameTimeline(w http.ResponseWriter, r *http.Request) {
	resp := e.trace.Timeline()
	applyFrameFilters(r, &resp)
	writeJSON(w, resp)
}

func applyFrameFilters(r *http.Request, resp *FrameTimeline) {
	query := r.URL.Query()
	limit := 0
	if value := query.Get("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	var minMs float64
	if value := query.Get("min_ms"); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed > 0 {
			minMs = parsed
		}
	}
	slowOnly, _ := strconv.ParseBool(query.Get("slow"))
	if minMs > 0 || slowOnly {
		resp.Samples = slices.DeleteFunc(resp.Samples, func(s FrameSample) bool {
			return s.FrameMs < minMs || (slowOnly && !s.Slow)
		})
	}
	if limit > 0 && len(resp.Samples) > limit {
		resp.Samples = resp.Samples[len(resp.Samples)-limit:]
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	// Encode to buffer first so we can catch errors
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
