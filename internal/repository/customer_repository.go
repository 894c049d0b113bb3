package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eyadahmed25/customer-management/internal/domain"
)

// CustomerRepository defines persistence access for customers.
// GetByID and Update return (nil, nil) when the record does not exist.
type CustomerRepository interface {
	GetAll(ctx context.Context, onlyActive bool) ([]domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerColumns = `id, first_name, last_name, nationality, email, phone, date_of_birth, blood_group, salary, is_active, created_at`

func (r *customerRepository) GetAll(ctx context.Context, onlyActive bool) ([]domain.Customer, error) {
	const query = `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE ($1 = FALSE OR is_active = TRUE)
        ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, onlyActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var c domain.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `
        SELECT ` + customerColumns + `
        FROM customers WHERE id=$1`

	var c domain.Customer
	if err := scanCustomer(r.pool.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	const query = `
        INSERT INTO customers (id, first_name, last_name, nationality, email, phone, date_of_birth, blood_group, salary, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + customerColumns

	var created domain.Customer
	err := scanCustomer(r.pool.QueryRow(ctx, query,
		customer.ID,
		customer.FirstName,
		customer.LastName,
		customer.Nationality,
		customer.Email,
		customer.Phone,
		customer.DateOfBirth,
		customer.BloodGroup,
		customer.Salary,
		customer.IsActive,
		customer.CreatedAt,
	), &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	const query = `
        UPDATE customers
        SET first_name=$2, last_name=$3, nationality=$4, email=$5, phone=$6, date_of_birth=$7, blood_group=$8, salary=$9
        WHERE id=$1
        RETURNING ` + customerColumns

	var updated domain.Customer
	err := scanCustomer(r.pool.QueryRow(ctx, query,
		customer.ID,
		customer.FirstName,
		customer.LastName,
		customer.Nationality,
		customer.Email,
		customer.Phone,
		customer.DateOfBirth,
		customer.BloodGroup,
		customer.Salary,
	), &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM customers WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanCustomer(row pgx.Row, c *domain.Customer) error {
	return row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Nationality,
		&c.Email,
		&c.Phone,
		&c.DateOfBirth,
		&c.BloodGroup,
		&c.Salary,
		&c.IsActive,
		&c.CreatedAt,
	)
}
