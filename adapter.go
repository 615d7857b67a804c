package sheetdash

import (
	"context"
	"fmt"
	"time"
)

// Version is an opaque, comparable marker of a source's observed state.
// Unchanged source bytes keep the same Version; any content change is
// expected to produce a different one, bounded by the timestamp resolution.
type Version struct {
	ModTime time.Time
	Tag     string // backend specific: file size, remote revision
}

// Equal reports whether v and other describe the same observed state
func (v Version) Equal(other Version) bool {
	return v.ModTime.Equal(other.ModTime) && v.Tag == other.Tag
}

// IsZero reports whether v was never observed
func (v Version) IsZero() bool {
	return v.ModTime.IsZero() && v.Tag == ""
}

func (v Version) String() string {
	if v.Tag == "" {
		return v.ModTime.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("%s#%s", v.ModTime.UTC().Format(time.RFC3339Nano), v.Tag)
}

// Detector stats a data source and reports its current version.
// Implementations must not cache; every call observes the source afresh.
type Detector interface {
	// Version returns the current version token or an error wrapping
	// ErrSourceUnavailable
	Version(ctx context.Context, locator string) (Version, error)
}

// Loader parses workbooks from a data source
type Loader interface {
	// Load parses every sheet of the workbook
	Load(ctx context.Context, locator string) (*Workbook, error)

	// LoadSheet parses a single named sheet, returning ErrSheetNotFound if absent
	LoadSheet(ctx context.Context, locator string, sheet string) (*Table, error)
}

// Adapter interface defines methods for interacting with different spreadsheet backends
type Adapter interface {
	Detector
	Loader
}
