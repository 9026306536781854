package apisports

import (
	"context"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
	"github.com/riskibarqy/football-pipeline/internal/usecase"
)

var tracer = otel.Tracer("football-pipeline/external/apisports")

// Normalizer flattens a raw fixtures document into fixture records.
type Normalizer struct {
	validate *validator.Validate
	logger   *logging.Logger
}

func NewNormalizer(logger *logging.Logger) *Normalizer {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Normalizer{
		validate: v,
		logger:   logging.OrNop(logger),
	}
}

// NormalizeFile reads the raw snapshot at path and projects every element of
// its response array. One malformed element fails the whole call.
func (n *Normalizer) NormalizeFile(ctx context.Context, path string) ([]fixture.Record, error) {
	ctx, span := tracer.Start(ctx, "apisports.Normalizer.NormalizeFile", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Mark(errors.Wrapf(err, "raw snapshot %s", path), usecase.ErrMissingInput)
		}
		return nil, usecase.MarkStorageIO(err, "read raw snapshot %s", path)
	}

	var doc fixturesDocument
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decode raw snapshot %s", path), usecase.ErrSchema)
	}
	if doc.Response == nil {
		return nil, usecase.SchemaErrorf("raw snapshot %s has no response array", path)
	}

	items := *doc.Response
	records := make([]fixture.Record, 0, len(items))
	for i := range items {
		record, err := n.project(ctx, items[i])
		if err != nil {
			return nil, errors.Wrapf(err, "raw snapshot %s: response[%d]", path, i)
		}
		records = append(records, record)
	}

	span.SetAttributes(attribute.Int("fixtures", len(records)))
	n.logger.DebugContext(ctx, "normalized raw snapshot", "path", path, "fixtures", len(records))
	return records, nil
}

func (n *Normalizer) project(ctx context.Context, item providerFixture) (fixture.Record, error) {
	if err := n.validate.StructCtx(ctx, item); err != nil {
		return fixture.Record{}, usecase.SchemaErrorf("%s", describeValidation(err))
	}

	kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(*item.Fixture.Date))
	if err != nil {
		return fixture.Record{}, usecase.SchemaErrorf("fixture.date %q is not RFC 3339", *item.Fixture.Date)
	}

	return fixture.Record{
		FixtureID:    *item.Fixture.ID,
		LeagueID:     *item.League.ID,
		LeagueName:   *item.League.Name,
		Season:       *item.League.Season,
		HomeTeamID:   *item.Teams.Home.ID,
		HomeTeamName: *item.Teams.Home.Name,
		AwayTeamID:   *item.Teams.Away.ID,
		AwayTeamName: *item.Teams.Away.Name,
		HomeGoals:    item.Goals.Home,
		AwayGoals:    item.Goals.Away,
		Date:         kickoff.UTC(),
		VenueName:    item.Fixture.Venue.Name,
		Referee:      item.Fixture.Referee,
		StatusShort:  *item.Fixture.Status.Short,
	}, nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		ns := fe.Namespace()
		if idx := strings.Index(ns, "."); idx >= 0 {
			ns = ns[idx+1:]
		}
		fields = append(fields, ns+" is "+fe.Tag())
	}
	return strings.Join(fields, "; ")
}
