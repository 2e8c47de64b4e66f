// Package counter persists the running invoice number of the bank that
// numbers its invoices sequentially.
//
// The state is one line in a text file:
//
//	Next Invoice Number : 42
//
// A missing file reads as 1. Every read-increment-write runs under an
// exclusive lock on a sibling ".lock" file.
package counter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

const linePrefix = "Next Invoice Number : "

var linePattern = regexp.MustCompile(`Next Invoice Number\s*:\s*(\d+)`)

// Counter is the invoice counter stored at a path.
type Counter struct {
	path string
	lock *flock.Flock
}

// New returns the counter stored at path. Nothing is read until used.
func New(path string) *Counter {
	return &Counter{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the counter file path.
func (c *Counter) Path() string {
	return c.path
}

// Peek returns the next invoice number without changing it.
func (c *Counter) Peek() (int, error) {
	if err := c.lock.RLock(); err != nil {
		return 0, fmt.Errorf("failed to lock counter: %w", err)
	}
	defer c.lock.Unlock()

	return c.read()
}

// Suggest returns the next invoice number formatted for year.
func (c *Counter) Suggest(year int) (string, error) {
	n, err := c.Peek()
	if err != nil {
		return "", err
	}
	return Format(n, year), nil
}

// Increment advances the counter by one and returns the new next number.
// The file is created when missing.
func (c *Counter) Increment() (int, error) {
	if err := c.lock.Lock(); err != nil {
		return 0, fmt.Errorf("failed to lock counter: %w", err)
	}
	defer c.lock.Unlock()

	n, err := c.read()
	if err != nil {
		return 0, err
	}
	n++
	if err := os.WriteFile(c.path, []byte(linePrefix+strconv.Itoa(n)+"\n"), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write counter: %w", err)
	}
	return n, nil
}

// read parses the counter file; the caller holds the lock.
func (c *Counter) read() (int, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return Parse(string(data))
}

// Parse reads the number from the counter file content.
func Parse(content string) (int, error) {
	m := linePattern.FindStringSubmatch(content)
	if m == nil {
		return 0, fmt.Errorf("counter file has no %q line: %q", strings.TrimSpace(linePrefix), content)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("counter value %q: %w", m[1], err)
	}
	return n, nil
}

// Format renders invoice number n of year as "007/2025".
func Format(n, year int) string {
	return fmt.Sprintf("%03d/%d", n, year)
}
