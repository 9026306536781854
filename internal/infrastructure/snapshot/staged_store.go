package snapshot

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
	"github.com/riskibarqy/football-pipeline/internal/usecase"
)

const stagedExt = ".parquet"

// stagedRow is the columnar layout of a staged snapshot. processed_at is
// owned by the repository and never staged.
type stagedRow struct {
	FixtureID    int64   `parquet:"fixture_id"`
	LeagueID     int64   `parquet:"league_id"`
	LeagueName   string  `parquet:"league_name"`
	Season       int64   `parquet:"season"`
	HomeTeamID   int64   `parquet:"home_team_id"`
	HomeTeamName string  `parquet:"home_team_name"`
	AwayTeamID   int64   `parquet:"away_team_id"`
	AwayTeamName string  `parquet:"away_team_name"`
	HomeGoals    *int64  `parquet:"home_goals"`
	AwayGoals    *int64  `parquet:"away_goals"`
	Date         string  `parquet:"date"`
	VenueName    *string `parquet:"venue_name"`
	Referee      *string `parquet:"referee"`
	StatusShort  string  `parquet:"status_short"`
}

// StagedStore writes normalized fixtures as Parquet snapshots.
type StagedStore struct {
	root   string
	logger *logging.Logger
}

func NewStagedStore(root string, logger *logging.Logger) *StagedStore {
	return &StagedStore{
		root:   filepath.Clean(root),
		logger: logging.OrNop(logger),
	}
}

// PathFor names the staged snapshot derived from a raw snapshot.
func (s *StagedStore) PathFor(rawName string) string {
	rawName = strings.TrimSuffix(filepath.Base(rawName), ".json")
	return filepath.Join(s.root, "processed_"+rawName+stagedExt)
}

func (s *StagedStore) Save(ctx context.Context, rows []fixture.Record, path string) (string, error) {
	ctx, span := tracer.Start(ctx, "snapshot.StagedStore.Save", trace.WithAttributes(
		attribute.String("path", path),
		attribute.Int("rows", len(rows)),
	))
	defer span.End()

	staged := make([]stagedRow, 0, len(rows))
	for _, row := range rows {
		staged = append(staged, toStagedRow(row))
	}

	var buf bytes.Buffer
	writer := parquet.NewGenericWriter[stagedRow](&buf, parquet.Compression(&parquet.Snappy))
	if _, err := writer.Write(staged); err != nil {
		return "", errors.Wrap(err, "encode staged snapshot")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "finalize staged snapshot")
	}

	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "staged snapshot saved", "path", path, "rows", len(rows))
	return path, nil
}

// Staged is a decoded snapshot: the columns present in the file and its rows.
// Rows is only populated when every required column is present.
type Staged struct {
	Columns []string
	Rows    []fixture.Record
}

// OpenStaged reads a staged snapshot. Required columns are checked before the
// rows are decoded; a file lacking any of them fails with
// *usecase.SnapshotSchemaError.
func OpenStaged(path string) (Staged, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Staged{}, errors.Mark(errors.Wrapf(err, "staged snapshot %s", path), usecase.ErrMissingInput)
		}
		return Staged{}, usecase.MarkStorageIO(err, "open staged snapshot %s", path)
	}
	defer func() {
		_ = f.Close()
	}()

	info, err := f.Stat()
	if err != nil {
		return Staged{}, usecase.MarkStorageIO(err, "stat staged snapshot %s", path)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return Staged{}, errors.Mark(errors.Wrapf(err, "open parquet %s", path), usecase.ErrSchema)
	}

	fields := pf.Schema().Fields()
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, field.Name())
	}
	if missing := fixture.MissingColumns(columns); len(missing) > 0 {
		return Staged{Columns: columns}, &usecase.SnapshotSchemaError{Path: path, Missing: missing}
	}

	staged, err := parquet.Read[stagedRow](f, info.Size())
	if err != nil {
		return Staged{Columns: columns}, errors.Mark(errors.Wrapf(err, "decode parquet %s", path), usecase.ErrSchema)
	}

	rows := make([]fixture.Record, 0, len(staged))
	for i, row := range staged {
		record, err := fromStagedRow(row)
		if err != nil {
			return Staged{Columns: columns}, errors.Wrapf(err, "staged snapshot %s row %d", path, i)
		}
		rows = append(rows, record)
	}
	return Staged{Columns: columns, Rows: rows}, nil
}

// ListStaged returns the staged snapshot files in dir in lexicographic order.
func ListStaged(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Mark(errors.Wrapf(err, "snapshot directory %s", dir), usecase.ErrDirectoryNotFound)
		}
		return nil, usecase.MarkStorageIO(err, "read snapshot directory %s", dir)
	}

	// os.ReadDir already sorts by file name
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), stagedExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

func toStagedRow(r fixture.Record) stagedRow {
	return stagedRow{
		FixtureID:    r.FixtureID,
		LeagueID:     r.LeagueID,
		LeagueName:   r.LeagueName,
		Season:       int64(r.Season),
		HomeTeamID:   r.HomeTeamID,
		HomeTeamName: r.HomeTeamName,
		AwayTeamID:   r.AwayTeamID,
		AwayTeamName: r.AwayTeamName,
		HomeGoals:    intToInt64(r.HomeGoals),
		AwayGoals:    intToInt64(r.AwayGoals),
		Date:         r.Date.UTC().Format(time.RFC3339),
		VenueName:    r.VenueName,
		Referee:      r.Referee,
		StatusShort:  r.StatusShort,
	}
}

func fromStagedRow(row stagedRow) (fixture.Record, error) {
	kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(row.Date))
	if err != nil {
		return fixture.Record{}, usecase.SchemaErrorf("date %q is not RFC 3339", row.Date)
	}
	return fixture.Record{
		FixtureID:    row.FixtureID,
		LeagueID:     row.LeagueID,
		LeagueName:   row.LeagueName,
		Season:       int(row.Season),
		HomeTeamID:   row.HomeTeamID,
		HomeTeamName: row.HomeTeamName,
		AwayTeamID:   row.AwayTeamID,
		AwayTeamName: row.AwayTeamName,
		HomeGoals:    int64ToInt(row.HomeGoals),
		AwayGoals:    int64ToInt(row.AwayGoals),
		Date:         kickoff.UTC(),
		VenueName:    row.VenueName,
		Referee:      row.Referee,
		StatusShort:  row.StatusShort,
	}, nil
}

func intToInt64(v *int) *int64 {
	if v == nil {
		return nil
	}
	out := int64(*v)
	return &out
}

func int64ToInt(v *int64) *int {
	if v == nil {
		return nil
	}
	out := int(*v)
	return &out
}
