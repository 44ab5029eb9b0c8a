package testing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/render"
)

// UpdateSnapshotsEnv names the environment variable that makes
// MatchesFile rewrite golden files instead of comparing.
const UpdateSnapshotsEnv = "ACE_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the frame node tree and the painted display list.
type Snapshot struct {
	Tree       *NodeSnapshot `json:"tree"`
	DisplayOps []string      `json:"displayOps,omitempty"`
}

// NodeSnapshot is one node of a captured tree. Frames are relative to the
// parent, rounded to two decimals.
type NodeSnapshot struct {
	ID       string          `json:"id"`
	Key      string          `json:"key,omitempty"`
	Frame    [4]float64      `json:"frame"`
	Children []*NodeSnapshot `json:"children,omitempty"`
}

// CaptureSnapshot captures the stage subtree and replays its scene into a
// display list.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{Tree: captureNode(t.stage, &tagCounter{})}
	recorder := &render.PictureRecorder{}
	if t.ctx.RenderTo(recorder.BeginRecording(t.size)) {
		snap.DisplayOps = recorder.EndRecording().Describe()
	}
	return snap
}

// MatchesFile fails t unless the golden file at path holds this snapshot.
// With ACE_UPDATE_SNAPSHOTS=1 the file is rewritten instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()
	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	rerun := fmt.Sprintf("%s=1 go test -run '^%s$'", UpdateSnapshotsEnv, t.Name())
	golden, err := loadSnapshot(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		t.Fatalf("snapshot file missing: %s\n\nTo create: %s", path, rerun)
	case err != nil:
		t.Fatalf("failed to load snapshot: %v", err)
	default:
		if diff := s.Diff(golden); diff != "" {
			t.Errorf("snapshot mismatch: %s\n%s\nTo update: %s", path, diff, rerun)
		}
	}
}

// UpdateFile writes the snapshot to path, creating parent directories.
func (s *Snapshot) UpdateFile(path string) error {
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns the lines that turn want into s, or "" when they match.
func (s *Snapshot) Diff(want *Snapshot) string {
	got, _ := marshalSnapshot(s)
	expected, _ := marshalSnapshot(want)
	if bytes.Equal(got, expected) {
		return ""
	}
	return lineDiff(strings.Split(string(expected), "\n"), strings.Split(string(got), "\n"))
}

// tagCounter assigns stable IDs like "Box#0", "Box#1".
type tagCounter struct {
	counts map[string]int
}

func (c *tagCounter) next(tag string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[tag]
	c.counts[tag] = n + 1
	return fmt.Sprintf("%s#%d", tag, n)
}

func captureNode(n *core.FrameNode, counter *tagCounter) *NodeSnapshot {
	frame := n.GeometryNode().Frame()
	node := &NodeSnapshot{
		ID:    counter.next(n.Tag()),
		Frame: [4]float64{round2(frame.Left), round2(frame.Top), round2(frame.Width()), round2(frame.Height())},
	}
	// Generated ids differ between runs.
	if _, err := uuid.Parse(n.ID()); err != nil {
		node.Key = n.ID()
	}
	for _, child := range n.Children() {
		node.Children = append(node.Children, captureNode(child, counter))
	}
	return node
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// lineDiff prints removed and added lines along the longest common
// subsequence of a and b. Unchanged lines are omitted.
func lineDiff(a, b []string) string {
	// lcs[i][j] is the common length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("--- expected\n+++ actual\n")
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			i++
			j++
		case i < len(a) && (j == len(b) || lcs[i+1][j] >= lcs[i][j+1]):
			fmt.Fprintf(&sb, "-%s\n", a[i])
			i++
		default:
			fmt.Fprintf(&sb, "+%s\n", b[j])
			j++
		}
	}
	return sb.String()
}
