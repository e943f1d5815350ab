// Package seeders holds named seed functions run by `shop seed`.
//
//	seeders.Register("admin", seeders.Admin(users, hasher, email, password))
//	err := seeders.RunAll(ctx, os.Stdout)
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// SeederFunc is the signature for a seed function.
type SeederFunc func(ctx context.Context) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder. A second registration under the same name replaces
// the first.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	for i := range entries {
		if entries[i].name == name {
			entries[i].fn = fn
			return
		}
	}
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order and stops on
// the first error.
func RunAll(ctx context.Context, out io.Writer) error {
	mu.Lock()
	current := append([]seederEntry(nil), entries...)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}
