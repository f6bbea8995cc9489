package profile

import (
	"sync"
	"testing"
	"time"
)

func TestHolder_EmptyByDefault(t *testing.T) {
	h := NewHolder()
	got := h.Get()
	if got == nil {
		t.Fatal("Get returned nil; holder must start with an empty snapshot")
	}
	if got.ProfileName != "" || got.ContentSum != "" {
		t.Errorf("fresh holder not empty: %+v", got)
	}
}

func TestHolder_SetGet(t *testing.T) {
	h := NewHolder()
	want := &Applied{
		ProfileName: "adblock",
		ContentSum:  ContentSum("content"),
		AppliedAt:   time.Now(),
	}
	h.Set(want)
	if got := h.Get(); got != want {
		t.Errorf("Get = %+v, want the exact snapshot that was set", got)
	}
}

func TestHolder_ConcurrentAccess(t *testing.T) {
	h := NewHolder()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				h.Set(&Applied{ProfileName: "p"})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if h.Get() == nil {
					t.Error("Get returned nil during concurrent writes")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestContentSum_Stable(t *testing.T) {
	if ContentSum("x") != ContentSum("x") {
		t.Error("same content hashed differently")
	}
	if ContentSum("x") == ContentSum("y") {
		t.Error("different content collided")
	}
}
