package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

const productKeyPrefix = "product:"

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresProductRepository reads products straight from the backend's
// key-value table, where each product is a JSON document stored under
// "product:<id>". It is a read-only view.
type PostgresProductRepository struct {
	db    *sql.DB
	table string
}

func NewPostgresProductRepository(db *sql.DB, table string) (*PostgresProductRepository, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresProductRepository{db: db, table: table}, nil
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT value FROM ` + r.table + ` WHERE key LIKE $1 ORDER BY value->>'createdAt', key`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, productKeyPrefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p models.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode product document: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	query := `SELECT value FROM ` + r.table + ` WHERE key = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, productKeyPrefix+id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}

	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return models.Product{}, fmt.Errorf("failed to decode product %s: %w", id, err)
	}
	return p, nil
}
