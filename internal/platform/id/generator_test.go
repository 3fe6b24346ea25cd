package id

import (
	"regexp"
	"sync"
	"testing"
)

func TestRandomGenerator_Format(t *testing.T) {
	gen := NewRandomGenerator("vw")
	pattern := regexp.MustCompile(`^vw_[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		got, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if !pattern.MatchString(got) {
			t.Fatalf("unexpected id format: %q", got)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id %q", got)
		}
		seen[got] = struct{}{}
	}
}

func TestRandomGenerator_NoPrefix(t *testing.T) {
	got, err := NewRandomGenerator(" ").NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(got) != 36 {
		t.Fatalf("expected a bare uuid, got %q", got)
	}
}

func TestSequenceGenerator(t *testing.T) {
	gen := &SequenceGenerator{Prefix: "view-"}
	first, _ := gen.NewID()
	second, _ := gen.NewID()
	if first != "view-1" || second != "view-2" {
		t.Fatalf("unexpected sequence: %q %q", first, second)
	}
}

func TestSequenceGenerator_ConcurrentUnique(t *testing.T) {
	gen := &SequenceGenerator{Prefix: "view-"}

	const workers = 16
	ids := make(chan string, workers*10)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				got, _ := gen.NewID()
				ids <- got
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{})
	for got := range ids {
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id %q", got)
		}
		seen[got] = struct{}{}
	}
	if len(seen) != workers*10 {
		t.Fatalf("expected %d ids, got %d", workers*10, len(seen))
	}
}
