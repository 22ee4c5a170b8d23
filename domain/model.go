package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Item numbers of the measured product properties the predictive models target.
const (
	ItemNoTotalThickness = "P4433"
	ItemNoOpenPA         = "P4006"
	ItemNoCoverPA        = "P4005"
)

// CREATE TABLE public.regression_models (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     item_no         TEXT UNIQUE NOT NULL,
//     target_name     TEXT,
//     feature_names   JSONB NOT NULL,
//     coefficients    JSONB NOT NULL,
//     intercept       NUMERIC NOT NULL,
//     feature_mean    JSONB NOT NULL,
//     feature_scale   JSONB NOT NULL,
//     updated_at      TIMESTAMPTZ DEFAULT NOW()
// );

// RegressionModel stores one trained linear model per measured item number,
// with the standardization parameters bundled so inference needs no other
// artifact.
type RegressionModel struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemNo       string         `gorm:"column:item_no;unique;not null" json:"item_no"`
	TargetName   string         `gorm:"column:target_name;type:text" json:"target_name"`
	FeatureNames datatypes.JSON `gorm:"column:feature_names;type:jsonb;not null" json:"feature_names"`
	Coefficients datatypes.JSON `gorm:"column:coefficients;type:jsonb;not null" json:"coefficients"`
	Intercept    float64        `gorm:"column:intercept;type:numeric;not null" json:"intercept"`
	FeatureMean  datatypes.JSON `gorm:"column:feature_mean;type:jsonb;not null" json:"feature_mean"`
	FeatureScale datatypes.JSON `gorm:"column:feature_scale;type:jsonb;not null" json:"feature_scale"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RegressionModel) TableName() string {
	return "regression_models"
}
