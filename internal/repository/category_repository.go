package repository

import (
	"database/sql"

	"github.com/threadline/wa-marketing-backend/internal/model"
)

type CategoryRepositoryInterface interface {
	GetByName(name string) (*model.ProductCategory, error)
	ListActive() ([]model.ProductCategory, error)
	Create(pc *model.ProductCategory) error
}

type CategoryRepository struct {
	DB *sql.DB
}

func (r *CategoryRepository) GetByName(name string) (*model.ProductCategory, error) {
	query := `SELECT id, category_name, product_url, is_active FROM product_categories WHERE category_name = $1`

	var pc model.ProductCategory
	err := r.DB.QueryRow(query, name).Scan(&pc.ID, &pc.CategoryName, &pc.ProductURL, &pc.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &pc, nil
}

func (r *CategoryRepository) ListActive() ([]model.ProductCategory, error) {
	query := `SELECT id, category_name, product_url, is_active FROM product_categories WHERE is_active ORDER BY category_name`

	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []model.ProductCategory{}
	for rows.Next() {
		var pc model.ProductCategory
		if err := rows.Scan(&pc.ID, &pc.CategoryName, &pc.ProductURL, &pc.IsActive); err != nil {
			return nil, err
		}
		categories = append(categories, pc)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Create(pc *model.ProductCategory) error {
	query := `
        INSERT INTO product_categories (category_name, product_url, is_active)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	return r.DB.QueryRow(query, pc.CategoryName, pc.ProductURL, pc.IsActive).Scan(&pc.ID)
}

var _ CategoryRepositoryInterface = (*CategoryRepository)(nil)
