package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintfWritesToSink(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)
	s.Printf("x=%d\n", 42)
	if buf.String() != "x=42\n" {
		t.Fatalf("Printf wrote %q", buf.String())
	}
}

func TestBannerIsCentered(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)
	s.Banner(" Build time: 5ms ")
	if !strings.Contains(buf.String(), "=== Build time: 5ms ===") {
		t.Fatalf("Banner output = %q", buf.String())
	}
}

func TestDetailToggle(t *testing.T) {
	s := New(nil)
	if s.Detail() {
		t.Fatal("Detail() should default to false")
	}
	s.SetDetail(true)
	if !s.Detail() {
		t.Fatal("SetDetail(true) did not stick")
	}
}
