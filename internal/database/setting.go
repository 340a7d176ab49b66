package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a setting does not exist.
var ErrNotFound = errors.New("setting not found")

// Setting is a single key-value row.
type Setting struct {
	Name      string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (c *Client) GetSetting(ctx context.Context, key string) (string, error) {
	var setting Setting
	if err := c.db.WithContext(ctx).Where("name = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		log.Error("failed to get setting", "key", key, "error", err)
		return "", err
	}
	return setting.Value, nil
}

func (c *Client) SetSetting(ctx context.Context, key, value string) error {
	setting := Setting{Name: key, Value: value}
	if err := c.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&setting).Error; err != nil {
		log.Error("failed to store setting", "key", key, "error", err)
		return err
	}
	return nil
}

func (c *Client) DeleteSetting(ctx context.Context, key string) error {
	if err := c.db.WithContext(ctx).Where("name = ?", key).Delete(&Setting{}).Error; err != nil {
		log.Error("failed to delete setting", "key", key, "error", err)
		return err
	}
	return nil
}
