package usecase

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrMissingInput          = errors.New("missing input")
	ErrSchema                = errors.New("schema error")
	ErrStorageIO             = errors.New("storage io error")
	ErrDirectoryNotFound     = errors.New("directory not found")
)

// UpstreamHTTPError is returned when the fixtures provider answers with a
// non-2xx status. It is not retried by the caller that produced it.
type UpstreamHTTPError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamHTTPError) Error() string {
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("upstream http status=%d", e.StatusCode)
	}
	return fmt.Sprintf("upstream http status=%d body=%s", e.StatusCode, e.Body)
}

// SnapshotSchemaError names the required columns a staged snapshot lacks.
type SnapshotSchemaError struct {
	Path    string
	Missing []string
}

func (e *SnapshotSchemaError) Error() string {
	return fmt.Sprintf("snapshot %s missing columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// Is lets errors.Is(err, ErrSchema) match a snapshot schema failure.
func (e *SnapshotSchemaError) Is(target error) bool {
	return target == ErrSchema
}

// MarkStorageIO wraps a filesystem failure so it matches ErrStorageIO.
func MarkStorageIO(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, format, args...), ErrStorageIO)
}

// SchemaErrorf builds an error matching ErrSchema.
func SchemaErrorf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrSchema)
}

// UpstreamStatus extracts the provider status code from err, if any.
func UpstreamStatus(err error) (int, bool) {
	var upstream *UpstreamHTTPError
	if errors.As(err, &upstream) {
		return upstream.StatusCode, true
	}
	return 0, false
}
