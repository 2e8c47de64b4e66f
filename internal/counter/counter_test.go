package counter

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileReadsAsOne(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "invoice_counter.txt"))

	n, err := c.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s, err := c.Suggest(2025)
	require.NoError(t, err)
	assert.Equal(t, "001/2025", s)
}

func TestIncrementCreatesAndAdvances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice_counter.txt")
	c := New(path)

	n, err := c.Increment()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Next Invoice Number : 2\n", string(data))

	n, err = c.Increment()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	peek, err := c.Peek()
	require.NoError(t, err)
	assert.Equal(t, 3, peek)
}

func TestReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice_counter.txt")
	require.NoError(t, os.WriteFile(path, []byte("Next Invoice Number : 41"), 0o644))

	s, err := New(path).Suggest(2024)
	require.NoError(t, err)
	assert.Equal(t, "041/2024", s)
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice_counter.txt")
	require.NoError(t, os.WriteFile(path, []byte("forty-one"), 0o644))

	_, err := New(path).Increment()
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "forty-one", string(data))
}

func TestConcurrentIncrements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice_counter.txt")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := New(path).Increment()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := New(path).Peek()
	require.NoError(t, err)
	assert.Equal(t, 11, n)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "007/2025", Format(7, 2025))
	assert.Equal(t, "1234/2025", Format(1234, 2025))
}
