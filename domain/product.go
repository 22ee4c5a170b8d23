package domain

import (
	"time"
)

const (
	ProductTypeSingleLiner = "single_liner"
	ProductTypeDoubleLiner = "double_liner"
)

// CREATE TABLE public.tape_products (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     nart            TEXT UNIQUE NOT NULL,
//     product_name    TEXT,
//     product_type    TEXT,
//     label_l1        TEXT,
//     label_l2        TEXT,
//     colour          TEXT,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type TapeProduct struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	NART        string    `gorm:"column:nart;unique;not null" json:"nart"`
	ProductName string    `gorm:"column:product_name;type:text" json:"product_name"`
	ProductType string    `gorm:"column:product_type;type:text" json:"product_type"`
	LabelL1     string    `gorm:"column:label_l1;type:text" json:"label_l1"`
	LabelL2     string    `gorm:"column:label_l2;type:text" json:"label_l2"`
	Colour      string    `gorm:"column:colour;type:text" json:"colour"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (TapeProduct) TableName() string {
	return "tape_products"
}

// CREATE TABLE public.product_properties (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     nart            TEXT NOT NULL,
//     property_key    TEXT NOT NULL,
//     value           NUMERIC,
//     text_value      TEXT
// );

type ProductProperty struct {
	ID          uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	NART        string   `gorm:"column:nart;not null;index" json:"nart"`
	PropertyKey string   `gorm:"column:property_key;not null" json:"property_key"`
	Value       *float64 `gorm:"column:value;type:numeric" json:"value"`
	TextValue   string   `gorm:"column:text_value;type:text" json:"text_value"`
}

func (ProductProperty) TableName() string {
	return "product_properties"
}

// CREATE TABLE public.item_name_mappings (
//     item_no         TEXT PRIMARY KEY,
//     item_name       TEXT NOT NULL
// );

// ItemNameMapping maps measurement item numbers (P4433, P4006, ...) to
// human-readable names for API output.
type ItemNameMapping struct {
	ItemNo   string `gorm:"column:item_no;primaryKey" json:"item_no"`
	ItemName string `gorm:"column:item_name;not null" json:"item_name"`
}

func (ItemNameMapping) TableName() string {
	return "item_name_mappings"
}
