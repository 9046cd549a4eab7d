package repository

import (
	"context"

	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cruiseColumns = `id, name, description, departure_location, destination_location, duration, base_price, taxes_fees, gratuities, image, rating, review_count, is_active, departure_options, created_at`

type PGCruiseRepository struct {
	db *pgxpool.Pool
}

func NewCruiseRepository(db *pgxpool.Pool) CruiseRepository {
	return &PGCruiseRepository{db: db}
}

func scanCruise(row pgx.Row) (*domain.Cruise, error) {
	var c domain.Cruise
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.DepartureLocation, &c.DestinationLocation, &c.Duration,
		&c.BasePrice, &c.TaxesFees, &c.Gratuities, &c.Image, &c.Rating, &c.ReviewCount, &c.IsActive,
		&c.DepartureOptions, &c.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	if c.DepartureOptions == nil {
		c.DepartureOptions = []string{}
	}
	return &c, nil
}

func (r *PGCruiseRepository) Create(ctx context.Context, c *domain.Cruise) error {
	options := c.DepartureOptions
	if options == nil {
		options = []string{}
	}
	row := r.db.QueryRow(ctx, `INSERT INTO cruises (name, description, departure_location, destination_location, duration, base_price, taxes_fees, gratuities, image, rating, review_count, is_active, departure_options)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`,
		c.Name, c.Description, c.DepartureLocation, c.DestinationLocation, c.Duration, c.BasePrice, c.TaxesFees,
		c.Gratuities, c.Image, c.Rating, c.ReviewCount, c.IsActive, options)
	return mapError(row.Scan(&c.ID, &c.CreatedAt))
}

func (r *PGCruiseRepository) GetByID(ctx context.Context, id int64) (*domain.Cruise, error) {
	return scanCruise(r.db.QueryRow(ctx, `SELECT `+cruiseColumns+` FROM cruises WHERE id=$1`, id))
}

func (r *PGCruiseRepository) List(ctx context.Context) ([]domain.Cruise, error) {
	rows, err := r.db.Query(ctx, `SELECT `+cruiseColumns+` FROM cruises ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cruises := make([]domain.Cruise, 0)
	for rows.Next() {
		c, err := scanCruise(rows)
		if err != nil {
			return nil, err
		}
		cruises = append(cruises, *c)
	}
	return cruises, rows.Err()
}

func (r *PGCruiseRepository) Update(ctx context.Context, c *domain.Cruise) error {
	options := c.DepartureOptions
	if options == nil {
		options = []string{}
	}
	row := r.db.QueryRow(ctx, `UPDATE cruises SET name=$1, description=$2, departure_location=$3, destination_location=$4,
		duration=$5, base_price=$6, taxes_fees=$7, gratuities=$8, image=$9, rating=$10, review_count=$11,
		is_active=$12, departure_options=$13
		WHERE id=$14
		RETURNING created_at`,
		c.Name, c.Description, c.DepartureLocation, c.DestinationLocation, c.Duration, c.BasePrice, c.TaxesFees,
		c.Gratuities, c.Image, c.Rating, c.ReviewCount, c.IsActive, options, c.ID)
	return mapError(row.Scan(&c.CreatedAt))
}

func (r *PGCruiseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM cruises WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

var _ CruiseRepository = (*PGCruiseRepository)(nil)
