package sqlstore

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

var sqlitePragmas = []string{
	"busy_timeout(10000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// NormalizeDriver maps accepted driver aliases onto DriverSQLite or DriverPostgres.
func NormalizeDriver(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pq":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported db driver %q (expected sqlite or postgres)", raw)
	}
}

// PrepareDSN turns a configured DB_URL into a DSN for driver. For sqlite the
// parent directory of a file database is created.
func PrepareDSN(driver, raw string, disablePreparedBinaryResult bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("db url is required")
	}

	switch driver {
	case DriverSQLite:
		return sqliteDSN(raw)
	case DriverPostgres:
		return normalizeDBURL(raw, disablePreparedBinaryResult), nil
	default:
		return "", fmt.Errorf("unsupported db driver %q", driver)
	}
}

func sqliteDSN(raw string) (string, error) {
	path := strings.TrimPrefix(raw, "file:")
	query := ""
	if idx := strings.Index(path, "?"); idx >= 0 {
		path, query = path[:idx], path[idx+1:]
	}

	if path != ":memory:" && path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", fmt.Errorf("create sqlite directory for %s: %w", path, err)
		}
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return "", fmt.Errorf("parse sqlite dsn options: %w", err)
	}
	present := make(map[string]struct{})
	for _, pragma := range values["_pragma"] {
		present[pragmaName(pragma)] = struct{}{}
	}
	for _, pragma := range sqlitePragmas {
		if _, ok := present[pragmaName(pragma)]; !ok {
			values.Add("_pragma", pragma)
		}
	}
	if values.Get("_time_format") == "" {
		values.Set("_time_format", "sqlite")
	}

	return "file:" + path + "?" + values.Encode(), nil
}

func pragmaName(pragma string) string {
	if idx := strings.Index(pragma, "("); idx >= 0 {
		pragma = pragma[:idx]
	}
	if idx := strings.Index(pragma, "="); idx >= 0 {
		pragma = pragma[:idx]
	}
	return strings.ToLower(strings.TrimSpace(pragma))
}

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

// dbName labels spans: the file name for sqlite, the database for postgres.
func dbName(driver, dsn string) string {
	trimmed := strings.TrimSpace(dsn)
	if driver == DriverSQLite {
		path := strings.TrimPrefix(trimmed, "file:")
		if idx := strings.Index(path, "?"); idx >= 0 {
			path = path[:idx]
		}
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}

func formatQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
