package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/football-pipeline/internal/domain/rawdata"
	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
	"github.com/riskibarqy/football-pipeline/internal/usecase"
)

var tracer = otel.Tracer("football-pipeline/internal/infrastructure/snapshot")

// RawStore keeps provider payloads as JSON files under a single root.
type RawStore struct {
	root   string
	logger *logging.Logger
}

var _ rawdata.Store = (*RawStore)(nil)

func NewRawStore(root string, logger *logging.Logger) *RawStore {
	return &RawStore{
		root:   filepath.Clean(root),
		logger: logging.OrNop(logger),
	}
}

// Save writes {root}/{name}.json. An existing file with the same name is
// replaced atomically.
func (s *RawStore) Save(ctx context.Context, payload rawdata.Payload, name string) (string, error) {
	ctx, span := tracer.Start(ctx, "snapshot.RawStore.Save", trace.WithAttributes(attribute.String("name", name)))
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", errors.Mark(errors.Newf("invalid raw snapshot name %q", name), usecase.ErrInvalidInput)
	}
	if payload.Document == nil {
		return "", errors.Mark(errors.New("raw payload has no document"), usecase.ErrInvalidInput)
	}

	encoded, err := sonic.ConfigStd.MarshalIndent(payload.Document, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encode raw payload")
	}

	path := filepath.Join(s.root, name+".json")
	if err := writeFileAtomic(path, encoded); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "raw snapshot saved", "path", path, "bytes", len(encoded))
	return path, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return usecase.MarkStorageIO(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return usecase.MarkStorageIO(err, "create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return usecase.MarkStorageIO(err, "write %s", path)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return usecase.MarkStorageIO(err, "sync %s", path)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return usecase.MarkStorageIO(err, "close %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return usecase.MarkStorageIO(err, "chmod %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return usecase.MarkStorageIO(err, "rename into %s", path)
	}
	return nil
}
