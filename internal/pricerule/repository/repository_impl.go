package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ruledomain "github.com/railzwaylabs/supportdesk/internal/pricerule/domain"
	"gorm.io/gorm"
)

const selectColumns = `SELECT id, name, name_key, service_type, category, base_price, multiplier,
	 conditions, status, created_at, updated_at FROM price_rules`

type repo struct{}

func Provide() ruledomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *ruledomain.PriceRule) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO price_rules (
			id, name, name_key, service_type, category, base_price, multiplier,
			conditions, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Name,
		p.NameKey,
		p.ServiceType,
		p.Category,
		p.BasePrice,
		p.Multiplier,
		p.Conditions,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ruledomain.PriceRule, error) {
	var p ruledomain.PriceRule
	err := db.WithContext(ctx).Raw(selectColumns+` WHERE id = ?`, id).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*ruledomain.PriceRule, error) {
	var items []*ruledomain.PriceRule
	if err := db.WithContext(ctx).Raw(selectColumns + ` ORDER BY id ASC`).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindActiveInScope(ctx context.Context, db *gorm.DB, serviceType, category, nameKey string) ([]*ruledomain.PriceRule, error) {
	var items []*ruledomain.PriceRule
	err := db.WithContext(ctx).Raw(
		selectColumns+` WHERE status = ? AND service_type = ? AND category = ? AND name_key = ?`,
		ruledomain.StatusActive,
		serviceType,
		category,
		nameKey,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, p *ruledomain.PriceRule) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE price_rules SET
			name = ?, name_key = ?, service_type = ?, category = ?, base_price = ?,
			multiplier = ?, conditions = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name,
		p.NameKey,
		p.ServiceType,
		p.Category,
		p.BasePrice,
		p.Multiplier,
		p.Conditions,
		p.Status,
		p.UpdatedAt,
		p.ID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM price_rules WHERE id = ?`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
