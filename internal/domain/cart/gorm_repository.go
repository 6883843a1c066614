// internal/domain/cart/gorm_repository.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRecord is the durable row backing one persisted cart when the
// postgres backend is selected. The cart itself is stored as a JSON payload
// so both repositories share one serialized layout.
type CartRecord struct {
	CartID    string    `gorm:"primaryKey;size:64" json:"cart_id"`
	Payload   []byte    `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (CartRecord) TableName() string {
	return "carts"
}

// GormRepository persists carts in a relational table. Used for signed-in
// customers whose carts must outlive the Redis TTL.
type GormRepository struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewGormRepository creates a database-backed cart repository.
func NewGormRepository(db *gorm.DB, log *logrus.Logger) *GormRepository {
	return &GormRepository{
		db:  db,
		log: log,
	}
}

// Load retrieves the cart row for cartID. A missing row or an unreadable
// payload yields a fresh empty cart.
func (r *GormRepository) Load(ctx context.Context, cartID string) (*Cart, error) {
	var record CartRecord
	err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(record.Payload, &c); err != nil {
		r.log.WithFields(logrus.Fields{
			"cart_id": cartID,
			"error":   err,
		}).Warn("Discarding unreadable cart payload")
		return New(), nil
	}

	return &c, nil
}

// Save upserts the serialized cart under cartID.
func (r *GormRepository) Save(ctx context.Context, cartID string, c *Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}

	record := CartRecord{
		CartID:  cartID,
		Payload: payload,
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes the cart row if present.
func (r *GormRepository) Delete(ctx context.Context, cartID string) error {
	err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&CartRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
