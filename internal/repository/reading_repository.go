package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/megumiii12/athlete/internal/models"
)

var ErrReadingNotFound = errors.New("reading not found")

// ReadingRepository is an append-only log of health readings. Rows are
// never updated or deleted by the service.
type ReadingRepository struct {
	pool *pgxpool.Pool
}

func NewReadingRepository(pool *pgxpool.Pool) *ReadingRepository {
	return &ReadingRepository{pool: pool}
}

func (r *ReadingRepository) Insert(ctx context.Context, reading models.Reading) error {
	const query = `
		INSERT INTO health_readings (
			id, athlete_id, heart_rate, temperature, is_abnormal, alert_message, recorded_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := r.pool.Exec(ctx, query,
		reading.ID,
		reading.AthleteID,
		reading.HeartRate,
		reading.Temperature,
		reading.IsAbnormal,
		reading.AlertMessage,
		reading.RecordedAt,
	)
	return err
}

func (r *ReadingRepository) Latest(ctx context.Context, athleteID int) (models.Reading, error) {
	const query = `
		SELECT id, athlete_id, heart_rate, temperature, is_abnormal, alert_message, recorded_at
		FROM health_readings
		WHERE athlete_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	row := r.pool.QueryRow(ctx, query, athleteID)
	var reading models.Reading
	if err := row.Scan(
		&reading.ID,
		&reading.AthleteID,
		&reading.HeartRate,
		&reading.Temperature,
		&reading.IsAbnormal,
		&reading.AlertMessage,
		&reading.RecordedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Reading{}, ErrReadingNotFound
		}
		return models.Reading{}, err
	}
	return reading, nil
}

// History returns readings since the given time, ascending, for charts.
func (r *ReadingRepository) History(ctx context.Context, athleteID int, since time.Time) ([]models.Reading, error) {
	const query = `
		SELECT id, athlete_id, heart_rate, temperature, is_abnormal, alert_message, recorded_at
		FROM health_readings
		WHERE athlete_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at ASC
	`

	rows, err := r.pool.Query(ctx, query, athleteID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReadings(rows)
}

// AbnormalTempHistory returns readings at or above the temperature
// threshold since the given time, newest first.
func (r *ReadingRepository) AbnormalTempHistory(ctx context.Context, athleteID int, threshold float64, since time.Time) ([]models.Reading, error) {
	const query = `
		SELECT id, athlete_id, heart_rate, temperature, is_abnormal, alert_message, recorded_at
		FROM health_readings
		WHERE athlete_id = $1 AND recorded_at >= $2 AND temperature >= $3
		ORDER BY recorded_at DESC
	`

	rows, err := r.pool.Query(ctx, query, athleteID, since, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReadings(rows)
}

func scanReadings(rows pgx.Rows) ([]models.Reading, error) {
	var readings []models.Reading
	for rows.Next() {
		var reading models.Reading
		if err := rows.Scan(
			&reading.ID,
			&reading.AthleteID,
			&reading.HeartRate,
			&reading.Temperature,
			&reading.IsAbnormal,
			&reading.AlertMessage,
			&reading.RecordedAt,
		); err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	return readings, rows.Err()
}
