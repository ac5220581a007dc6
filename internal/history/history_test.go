package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(i int) Entry {
	return Entry{
		Timestamp:     time.Date(2024, 1, 1, 0, i, 0, 0, time.UTC),
		BMI:           20 + float64(i),
		Category:      "Normal_Weight",
		CategoryLabel: fmt.Sprintf("entry-%d", i),
		Confidence:    80,
	}
}

func TestNew_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Cap())
	assert.Equal(t, DefaultCapacity, New(-3).Cap())
	assert.Equal(t, 3, New(3).Cap())
}

func TestBuffer_AddUnderCapacity(t *testing.T) {
	b := New(5)
	for i := 0; i < 3; i++ {
		assert.Nil(t, b.Add(entry(i)))
	}

	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []Entry{entry(0), entry(1), entry(2)}, b.Entries())
}

func TestBuffer_EvictsOldest(t *testing.T) {
	b := New(5)
	for i := 0; i < 5; i++ {
		require.Nil(t, b.Add(entry(i)))
	}

	evicted := b.Add(entry(5))
	require.NotNil(t, evicted)
	assert.Equal(t, entry(0), *evicted)

	evicted = b.Add(entry(6))
	require.NotNil(t, evicted)
	assert.Equal(t, entry(1), *evicted)

	assert.Equal(t, 5, b.Len())
	assert.Equal(t, []Entry{entry(2), entry(3), entry(4), entry(5), entry(6)}, b.Entries())
}

func TestBuffer_Latest(t *testing.T) {
	b := New(3)
	for i := 0; i < 4; i++ {
		b.Add(entry(i))
	}

	assert.Equal(t, []Entry{entry(3), entry(2), entry(1)}, b.Latest())
}

func TestBuffer_EntriesIsCopy(t *testing.T) {
	b := New(2)
	b.Add(entry(0))

	entries := b.Entries()
	entries[0].CategoryLabel = "changed"

	assert.Equal(t, "entry-0", b.Entries()[0].CategoryLabel)
}

func TestBuffer_Clear(t *testing.T) {
	b := New(2)
	b.Add(entry(0))
	b.Add(entry(1))
	b.Clear()

	assert.Equal(t, 0, b.Len())
	assert.Empty(t, b.Entries())

	b.Add(entry(2))
	assert.Equal(t, []Entry{entry(2)}, b.Entries())
}

func TestBuffer_ConcurrentAdds(t *testing.T) {
	b := New(DefaultCapacity)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Add(entry(i))
			_ = b.Entries()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, DefaultCapacity, b.Len())
}
