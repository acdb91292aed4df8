package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/randomizedcoder/spmc-bench/internal/queue"
)

// testKinds lists every backend the race detector can follow.
func testKinds() []queue.Kind {
	var kinds []queue.Kind
	for _, k := range queue.Kinds() {
		if queue.RaceEnabled && k == queue.KindLFQ {
			continue
		}
		kinds = append(kinds, k)
	}
	return kinds
}

func TestRun_Table(t *testing.T) {
	kinds := testKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-consumers", "2", "-items", "200", "-batch", "8", "-runs", "1", "-cooldown", "0s",
		"-impl", strings.Join(names, ","),
	}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, stderr.String())
	}

	out := stdout.String()
	for _, kind := range kinds {
		if !strings.Contains(out, kind.Label()+" ") {
			t.Errorf("table missing row for %s:\n%s", kind.Label(), out)
		}
	}
	if !strings.Contains(out, "1.00x") {
		t.Errorf("expected baseline speedup 1.00x:\n%s", out)
	}
}

func TestRun_InvalidArguments(t *testing.T) {
	testCases := [][]string{
		{"-items", "0"},
		{"-impl", "mutex,stack"},
	}

	for _, args := range testCases {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != 1 {
			t.Errorf("run(%v) exit code = %d, want 1", args, code)
		}
	}
}

func TestParseKinds(t *testing.T) {
	all, err := parseKinds("")
	if err != nil || len(all) != len(queue.Kinds()) {
		t.Errorf("parseKinds(\"\") = (%v, %v), want every kind", all, err)
	}

	got, err := parseKinds("ring, mutex")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != queue.KindMutex || got[1] != queue.KindRing {
		t.Errorf("parseKinds(ring, mutex) = %v, want [mutex ring]", got)
	}

	if _, err := parseKinds("lockfree"); !errors.Is(err, queue.ErrUnknownKind) {
		t.Errorf("parseKinds(lockfree) error = %v, want ErrUnknownKind", err)
	}
}
