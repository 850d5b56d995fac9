package arbor

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// debugScene enables debug mode on a scene logging into buf.
func debugScene(t *testing.T, buf *bytes.Buffer) *Scene {
	t.Helper()
	s := NewScene(SceneConfig{Logger: bufferLogger(buf)})
	s.SetDebugMode(true)
	t.Cleanup(func() { s.SetDebugMode(false) })
	return s
}

func TestDebugModeDisposedParentPanics(t *testing.T) {
	var buf bytes.Buffer
	debugScene(t, &buf)

	parent := NewNode("parent")
	parent.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild to disposed parent, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()
	parent.AddChild(NewNode("child"))
}

func TestReleaseModeDisposedNodeNoPanic(t *testing.T) {
	s := NewScene(SceneConfig{})
	s.SetDebugMode(false)

	child := NewNode("child")
	child.Dispose()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("release mode panicked: %v", r)
		}
	}()
	NewNode("parent").AddChild(child)
}

func TestDebugModeTreeDepthWarning(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)

	current := s.Root()
	for i := 0; i < debugMaxTreeDepth+5; i++ {
		child := NewNode(fmt.Sprintf("depth_%d", i))
		current.AddChild(child)
		current = child
	}

	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected tree depth warning, got: %q", buf.String())
	}
}

func TestDebugModeChildCountWarning(t *testing.T) {
	var buf bytes.Buffer
	s := debugScene(t, &buf)

	parent := NewNode("many_children")
	s.Root().AddChild(parent)
	for i := 0; i < debugMaxChildCount+1; i++ {
		parent.AddChild(NewNode(fmt.Sprintf("c_%d", i)))
	}

	out := buf.String()
	if !strings.Contains(out, "child count exceeds threshold") || !strings.Contains(out, "many_children") {
		t.Errorf("expected child count warning, got: %q", out)
	}
}

func TestDebugLogSkippedOutsideDebugMode(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene(SceneConfig{Logger: bufferLogger(&buf)})
	s.debugLog(debugStats{anchorCount: 3})
	s.debugLogDraw(drawStats{wireNodes: 2})
	if buf.Len() != 0 {
		t.Errorf("stats logged without debug mode: %q", buf.String())
	}

	s.debug = true
	s.debugLog(debugStats{anchorCount: 3, pinchActive: true})
	s.debugLogDraw(drawStats{wireNodes: 2, lineCount: 24})
	out := buf.String()
	for _, want := range []string{"anchors=3", "pinch=true", "nodes=2", "lines=24"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}
