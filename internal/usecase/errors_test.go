package usecase

import (
	"os"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestMarkStorageIO(t *testing.T) {
	base := &os.PathError{Op: "open", Path: "/ro/raw.json", Err: os.ErrPermission}
	err := MarkStorageIO(base, "write raw snapshot %s", "raw.json")

	if !errors.Is(err, ErrStorageIO) {
		t.Fatalf("expected ErrStorageIO, got %v", err)
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected the cause to stay reachable, got %v", err)
	}
	if MarkStorageIO(nil, "noop") != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestSchemaErrorf(t *testing.T) {
	err := SchemaErrorf("response[%d]: fixture.id is required", 3)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
	if errors.Is(err, ErrStorageIO) {
		t.Fatalf("schema error must not match ErrStorageIO")
	}
}

func TestSnapshotSchemaError(t *testing.T) {
	err := errors.Wrap(&SnapshotSchemaError{Path: "a.parquet", Missing: []string{"date", "season"}}, "load snapshot")
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema match, got %v", err)
	}
	var schemaErr *SnapshotSchemaError
	if !errors.As(err, &schemaErr) || len(schemaErr.Missing) != 2 {
		t.Fatalf("expected SnapshotSchemaError detail, got %v", err)
	}
}

func TestUpstreamStatus(t *testing.T) {
	err := errors.Wrap(&UpstreamHTTPError{StatusCode: 403, Body: "forbidden"}, "fetch fixtures")
	status, ok := UpstreamStatus(err)
	if !ok || status != 403 {
		t.Fatalf("expected status 403, got %d ok=%t", status, ok)
	}
	if _, ok := UpstreamStatus(errors.New("other")); ok {
		t.Fatalf("expected no status for unrelated error")
	}
}
