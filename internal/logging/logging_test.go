package logging

import "testing"

func TestNewDefaultsToInfoLevel(t *testing.T) {
	log := New(Config{})
	if log.GetLevel().String() != "info" {
		t.Fatalf("got level %s", log.GetLevel())
	}
}

func TestNewDebugRaisesLevel(t *testing.T) {
	log := New(Config{Debug: true})
	if log.GetLevel().String() != "debug" {
		t.Fatalf("got level %s", log.GetLevel())
	}
}

func TestNewWithDirAddsFileSink(t *testing.T) {
	dir := t.TempDir()
	log := New(Config{Dir: dir})
	log.Info("hello")
	if log.Out == nil {
		t.Fatalf("expected a configured output writer")
	}
}
