package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	ruledomain "github.com/railzwaylabs/supportdesk/internal/commissionrule/domain"
	"gorm.io/gorm"
)

const selectColumns = `SELECT id, name, region, country, state, service_type, description,
	 commission_rate, min_amount, max_amount, status, created_at, updated_at
	 FROM commission_rules`

type repo struct{}

func Provide() ruledomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, c *ruledomain.CommissionRule) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO commission_rules (
			id, name, region, country, state, service_type, description,
			commission_rate, min_amount, max_amount, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Name,
		c.Region,
		c.Country,
		c.State,
		c.ServiceType,
		c.Description,
		c.CommissionRate,
		c.MinAmount,
		c.MaxAmount,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ruledomain.CommissionRule, error) {
	var c ruledomain.CommissionRule
	if err := db.WithContext(ctx).Raw(selectColumns+` WHERE id = ?`, id).Scan(&c).Error; err != nil {
		return nil, err
	}
	if c.ID == 0 {
		return nil, nil
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*ruledomain.CommissionRule, error) {
	var items []*ruledomain.CommissionRule
	if err := db.WithContext(ctx).Raw(selectColumns + ` ORDER BY id ASC`).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, c *ruledomain.CommissionRule) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE commission_rules SET
			name = ?, region = ?, country = ?, state = ?, service_type = ?, description = ?,
			commission_rate = ?, min_amount = ?, max_amount = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name,
		c.Region,
		c.Country,
		c.State,
		c.ServiceType,
		c.Description,
		c.CommissionRate,
		c.MinAmount,
		c.MaxAmount,
		c.Status,
		c.UpdatedAt,
		c.ID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM commission_rules WHERE id = ?`, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
