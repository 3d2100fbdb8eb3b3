package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CropType string

const (
	CropTypeVegetables CropType = "vegetables"
	CropTypeFruits     CropType = "fruits"
	CropTypeGrains     CropType = "grains"
	CropTypePulses     CropType = "pulses"
	CropTypeOthers     CropType = "others"
)

type CropStatus string

const (
	CropStatusAvailable CropStatus = "available"
	CropStatusPending   CropStatus = "pending"
	CropStatusSold      CropStatus = "sold"
	CropStatusCancelled CropStatus = "cancelled"
)

type Crop struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	FarmerID    string          `gorm:"type:uuid;not null;index" json:"farmer_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Type        CropType        `gorm:"type:varchar(20);not null;index" json:"type"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	Unit        string          `gorm:"type:varchar(10);not null;default:'kg'" json:"unit"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string          `gorm:"type:varchar(512)" json:"image_url"`
	HealthScore decimal.Decimal `gorm:"type:decimal(3,2)" json:"health_score"`
	Status      CropStatus      `gorm:"type:varchar(20);not null;index" json:"status"`
	HarvestDate *time.Time      `json:"harvest_date"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (c *Crop) IsAvailable() bool {
	return c.Status == CropStatusAvailable
}
