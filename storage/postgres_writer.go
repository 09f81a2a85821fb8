package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"emlak-analytics/models"
	"emlak-analytics/services"
)

// PostgresWriter persists canonical listings to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id            SERIAL PRIMARY KEY,
			dedup_key     TEXT          UNIQUE NOT NULL,
			city          VARCHAR(100)  NOT NULL,
			district      VARCHAR(100)  NOT NULL,
			neighbourhood TEXT          NOT NULL DEFAULT '',
			property_type VARCHAR(100)  NOT NULL,
			listing_type  VARCHAR(10)   NOT NULL,
			size_m2       NUMERIC(10,2),
			rooms         INTEGER,
			building_age  NUMERIC(6,2),
			price         NUMERIC(14,2),
			rent          NUMERIC(12,2),
			listing_date  TIMESTAMPTZ,
			source        TEXT          NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_city         ON listings(city);
		CREATE INDEX IF NOT EXISTS idx_listings_listing_type ON listings(listing_type);
		CREATE INDEX IF NOT EXISTS idx_listings_listing_date ON listings(listing_date);
	`)
	return err
}

// Write batch-inserts listings, skipping rows whose identity key is already
// stored — the database mirrors the in-memory dedup semantics.
func (pw *PostgresWriter) Write(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.Listing) error {
	const cols = 13
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			services.IdentityKey(l),
			l.City, l.District, l.Neighbourhood, l.PropertyType, string(l.ListingType),
			nullFloat(l.SizeM2), nullInt(l.Rooms), nullFloat(l.BuildingAge),
			nullFloat(l.Price), nullFloat(l.Rent), nullTime(l.ListingDate), l.Source)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (dedup_key, city, district, neighbourhood, property_type,
			listing_type, size_m2, rooms, building_age, price, rent, listing_date, source)
		VALUES %s
		ON CONFLICT (dedup_key) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored listings in insertion order.
func (pw *PostgresWriter) FetchAll() ([]models.Listing, error) {
	rows, err := pw.db.Query(`
		SELECT city, district, neighbourhood, property_type, listing_type,
		       size_m2, rooms, building_age, price, rent, listing_date, source
		FROM listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var (
			l           models.Listing
			listingType string
			size        sql.NullFloat64
			rooms       sql.NullInt64
			age         sql.NullFloat64
			price       sql.NullFloat64
			rent        sql.NullFloat64
			date        sql.NullTime
		)
		if err := rows.Scan(
			&l.City, &l.District, &l.Neighbourhood, &l.PropertyType, &listingType,
			&size, &rooms, &age, &price, &rent, &date, &l.Source,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		l.ListingType = models.ListingType(listingType)
		l.SizeM2 = floatPtr(size)
		l.Rooms = intPtr(rooms)
		l.BuildingAge = floatPtr(age)
		l.Price = floatPtr(price)
		l.Rent = floatPtr(rent)
		l.ListingDate = timePtr(date)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
