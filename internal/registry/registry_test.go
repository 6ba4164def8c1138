package registry

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeCell struct{ id int }

func TestGetOrCreateReturnsSameInstanceForSamePath(t *testing.T) {
	r := New()
	built := 0

	factory := func() *fakeCell {
		built++
		return &fakeCell{id: built}
	}

	c1 := GetOrCreate(r, "/tmp/a", factory)
	c2 := GetOrCreate(r, "/tmp/a", factory)

	assert.Same(t, c1, c2)
	assert.Equal(t, 1, built)
}

func TestGetOrCreateReturnsDistinctInstancesForDistinctPaths(t *testing.T) {
	r := New()
	c1 := GetOrCreate(r, "/tmp/a", func() *fakeCell { return &fakeCell{id: 1} })
	c2 := GetOrCreate(r, "/tmp/b", func() *fakeCell { return &fakeCell{id: 2} })

	assert.NotSame(t, c1, c2)
	assert.Equal(t, 2, r.Count())
}

func TestGetOrCreateCoalescesConcurrentFirstCallers(t *testing.T) {
	r := New()
	var built int32
	var mu sync.Mutex

	var wg sync.WaitGroup
	results := make([]*fakeCell, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = GetOrCreate(r, "/tmp/shared", func() *fakeCell {
				mu.Lock()
				built++
				mu.Unlock()
				return &fakeCell{id: 1}
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), built)
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
}

func TestDefaultReturnsSameRegistryAcrossCalls(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestCountReflectsRegisteredPaths(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Count())

	for i := 0; i < 5; i++ {
		i := i
		GetOrCreate(r, "/tmp/"+strconv.Itoa(i), func() *fakeCell { return &fakeCell{id: i} })
	}

	assert.Equal(t, 5, r.Count())
}
