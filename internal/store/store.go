package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"weather-intel/internal/models"

	_ "modernc.org/sqlite"
)

// timeLayout is the fixed-width UTC format rows are stored with, so that
// string comparison in SQL matches chronological order.
const timeLayout = "2006-01-02 15:04:05.000"

// DefaultPath returns the default database location.
func DefaultPath() string {
	return filepath.Join("data", "weather.db")
}

// Store is the append-only observation table. Reads and writes may come
// from different processes; WAL mode keeps readers off the writer's lock
// and busy_timeout bounds how long a writer waits for its turn.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" is
// accepted for tests.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}
	_, _ = db.Exec("PRAGMA journal_mode=WAL")
	_, _ = db.Exec("PRAGMA synchronous=NORMAL")
	_, _ = db.Exec("PRAGMA busy_timeout=5000")

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the weather_data table and its index if absent.
// Safe to call on every process start.
func (s *Store) EnsureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS weather_data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			location TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			temperature REAL NOT NULL,
			feels_like REAL NOT NULL,
			humidity INTEGER NOT NULL,
			pressure REAL,
			visibility REAL,
			uv_index REAL,
			weather_condition TEXT,
			weather_description TEXT,
			wind_speed REAL NOT NULL,
			wind_direction TEXT,
			wind_degree INTEGER,
			cloudiness INTEGER,
			is_day INTEGER,
			raw_data TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_weather_data_timestamp ON weather_data(timestamp);
	`)
	if err != nil {
		return &StorageError{Kind: SchemaInit, Err: err}
	}
	return nil
}

// Append durably persists one observation and fills in its assigned ID.
// Rows become visible to readers atomically, fully formed.
func (s *Store) Append(obs *models.Observation) error {
	res, err := s.db.Exec(`
		INSERT INTO weather_data (
			location, timestamp, temperature, feels_like, humidity, pressure,
			visibility, uv_index, weather_condition, weather_description,
			wind_speed, wind_direction, wind_degree, cloudiness, is_day, raw_data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		obs.Location,
		obs.Timestamp.UTC().Format(timeLayout),
		obs.TemperatureF,
		obs.FeelsLikeF,
		obs.Humidity,
		nullFloat(obs.PressureMb),
		nullFloat(obs.VisibilityKm),
		nullFloat(obs.UVIndex),
		obs.Condition,
		obs.Description,
		obs.WindSpeedMph,
		obs.WindDirection,
		nullInt(obs.WindDegree),
		nullInt(obs.Cloudiness),
		nullBool(obs.IsDay),
		obs.RawPayload,
	)
	if err != nil {
		return &StorageError{Kind: WriteFailure, Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return &StorageError{Kind: WriteFailure, Err: err}
	}
	obs.ID = id

	return nil
}

// Query returns observations with since < timestamp <= until, newest
// first. Rows with equal timestamps order by location name, then by
// insertion sequence, so the total order is stable. A zero until means
// now. An empty store yields an empty result, not an error.
func (s *Store) Query(since, until time.Time) ([]models.Observation, error) {
	if until.IsZero() {
		until = time.Now()
	}

	rows, err := s.db.Query(`
		SELECT id, location, timestamp, temperature, feels_like, humidity,
			pressure, visibility, uv_index, weather_condition,
			weather_description, wind_speed, wind_direction, wind_degree,
			cloudiness, is_day, raw_data
		FROM weather_data
		WHERE timestamp > ? AND timestamp <= ?
		ORDER BY timestamp DESC, location ASC, id DESC
	`, since.UTC().Format(timeLayout), until.UTC().Format(timeLayout))
	if err != nil {
		return nil, &StorageError{Kind: ReadFailure, Err: err}
	}
	defer rows.Close()

	var observations []models.Observation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, &StorageError{Kind: ReadFailure, Err: err}
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Kind: ReadFailure, Err: err}
	}

	return observations, nil
}

// Prune deletes rows older than the retention cutoff. Queries over the
// retained window are unaffected.
func (s *Store) Prune(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec(
		"DELETE FROM weather_data WHERE timestamp <= ?",
		olderThan.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, &StorageError{Kind: WriteFailure, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &StorageError{Kind: WriteFailure, Err: err}
	}
	return n, nil
}

func scanObservation(rows *sql.Rows) (models.Observation, error) {
	var obs models.Observation
	// The column is declared DATETIME, so the driver hands back a
	// time.Time rather than the stored text.
	var ts time.Time
	var pressure, visibility, uvIndex sql.NullFloat64
	var condition, description, windDirection, rawData sql.NullString
	var windDegree, cloudiness, isDay sql.NullInt64

	if err := rows.Scan(
		&obs.ID, &obs.Location, &ts, &obs.TemperatureF, &obs.FeelsLikeF,
		&obs.Humidity, &pressure, &visibility, &uvIndex, &condition,
		&description, &obs.WindSpeedMph, &windDirection, &windDegree,
		&cloudiness, &isDay, &rawData,
	); err != nil {
		return models.Observation{}, fmt.Errorf("scanning observation: %w", err)
	}

	obs.Timestamp = ts.UTC()

	obs.Condition = condition.String
	obs.Description = description.String
	obs.WindDirection = windDirection.String
	obs.RawPayload = rawData.String

	if pressure.Valid {
		obs.PressureMb = &pressure.Float64
	}
	if visibility.Valid {
		obs.VisibilityKm = &visibility.Float64
	}
	if uvIndex.Valid {
		obs.UVIndex = &uvIndex.Float64
	}
	if windDegree.Valid {
		deg := int(windDegree.Int64)
		obs.WindDegree = &deg
	}
	if cloudiness.Valid {
		pct := int(cloudiness.Int64)
		obs.Cloudiness = &pct
	}
	if isDay.Valid {
		day := isDay.Int64 != 0
		obs.IsDay = &day
	}

	return obs, nil
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullBool(v *bool) interface{} {
	if v == nil {
		return nil
	}
	if *v {
		return 1
	}
	return 0
}
