package domain

import (
	"time"
)

const (
	MaterialCategoryBacking  = "backing"
	MaterialCategoryAdhesive = "adhesive"
	MaterialCategoryLiner    = "liner"
)

// CREATE TABLE public.materials (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     nart            TEXT UNIQUE NOT NULL,
//     category        TEXT NOT NULL,
//     material_name   TEXT,
//     thickness       NUMERIC,
//     peel_adhesion   NUMERIC,
//     is_active       BOOLEAN DEFAULT TRUE,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Material struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	NART         string    `gorm:"column:nart;unique;not null" json:"nart"`
	Category     string    `gorm:"column:category;not null" json:"category"`
	MaterialName string    `gorm:"column:material_name;type:text" json:"material_name"`
	Thickness    float64   `gorm:"column:thickness;type:numeric" json:"thickness"`
	PeelAdhesion float64   `gorm:"column:peel_adhesion;type:numeric" json:"peel_adhesion"`
	IsActive     bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Material) TableName() string {
	return "materials"
}

// CREATE TABLE public.material_properties (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     nart            TEXT NOT NULL,
//     property_key    TEXT NOT NULL,
//     value           NUMERIC,
//     text_value      TEXT
// );

// MaterialProperty is the long-format property table, keyed by strings like
// "adhesive##peel adhesion (n/cm)##sus##" or "backing##thickness##".
type MaterialProperty struct {
	ID          uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	NART        string   `gorm:"column:nart;not null;index" json:"nart"`
	PropertyKey string   `gorm:"column:property_key;not null" json:"property_key"`
	Value       *float64 `gorm:"column:value;type:numeric" json:"value"`
	TextValue   string   `gorm:"column:text_value;type:text" json:"text_value"`
}

func (MaterialProperty) TableName() string {
	return "material_properties"
}
