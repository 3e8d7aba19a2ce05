package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"carshow/internal/db"
	"carshow/internal/entities"
	apperrors "carshow/internal/errors"
)

type CarRepository struct {
	DB *sql.DB
}

func NewCarRepository(database *sql.DB) *CarRepository {
	return &CarRepository{DB: database}
}

const carColumns = `id, brand, model, year, car_type, total_units,
	rate_hourly_cents, rate_daily_cents, rate_weekly_cents, features, created_at`

func scanCar(row interface{ Scan(...any) error }) (*db.Car, error) {
	var c db.Car
	err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &c.CarType, &c.TotalUnits,
		&c.RateHourlyCents, &c.RateDailyCents, &c.RateWeeklyCents, &c.Features, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning car: %w", err)
	}
	return &c, nil
}

func (r *CarRepository) GetCar(id int) (*db.Car, error) {
	return scanCar(r.DB.QueryRow(`SELECT `+carColumns+` FROM cars WHERE id = $1`, id))
}

func (r *CarRepository) ListCars(filter entities.CarFilter) ([]db.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.CarType != "" {
		query += " AND car_type = $" + strconv.Itoa(idx)
		args = append(args, filter.CarType)
		idx++
	}
	if filter.MinPrice > 0 {
		query += " AND rate_daily_cents >= $" + strconv.Itoa(idx)
		args = append(args, int64(filter.MinPrice*100))
		idx++
	}
	if filter.MaxPrice > 0 {
		query += " AND rate_daily_cents <= $" + strconv.Itoa(idx)
		args = append(args, int64(filter.MaxPrice*100))
		idx++
	}
	if filter.MinYear > 0 {
		query += " AND year >= $" + strconv.Itoa(idx)
		args = append(args, filter.MinYear)
		idx++
	}
	if filter.MaxYear > 0 {
		query += " AND year <= $" + strconv.Itoa(idx)
		args = append(args, filter.MaxYear)
		idx++
	}
	query += " ORDER BY brand, model"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing cars: %w", err)
	}
	defer rows.Close()

	var cars []db.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
	}
	return cars, rows.Err()
}

func (r *CarRepository) CreateCar(c *db.Car) error {
	query := `
		INSERT INTO cars (brand, model, year, car_type, total_units,
			rate_hourly_cents, rate_daily_cents, rate_weekly_cents, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	return r.DB.QueryRow(query,
		c.Brand, c.Model, c.Year, c.CarType, c.TotalUnits,
		c.RateHourlyCents, c.RateDailyCents, c.RateWeeklyCents, c.Features,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *CarRepository) UpdateCar(c *db.Car) error {
	result, err := r.DB.Exec(`
		UPDATE cars
		SET brand = $2, model = $3, year = $4, car_type = $5, total_units = $6,
			rate_hourly_cents = $7, rate_daily_cents = $8, rate_weekly_cents = $9, features = $10
		WHERE id = $1`,
		c.ID, c.Brand, c.Model, c.Year, c.CarType, c.TotalUnits,
		c.RateHourlyCents, c.RateDailyCents, c.RateWeeklyCents, c.Features)
	if err != nil {
		return fmt.Errorf("error updating car %d: %w", c.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CarRepository) DeleteCar(id int) error {
	result, err := r.DB.Exec(`DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting car %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
