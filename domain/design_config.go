package domain

// CREATE TABLE public.design_configs (
//     product_type         TEXT PRIMARY KEY,
//     w_thickness          NUMERIC,
//     w_peel_adhesion      NUMERIC,
//     coating_weight_min   NUMERIC,
//     coating_weight_max   NUMERIC,
//     coating_weight_step  NUMERIC,
//     grid_points          INT,
//     default_n_best       INT,
//     solver_budget_ms     INT,
//     updated_at           TIMESTAMPTZ DEFAULT NOW()
// );

type DesignConfigRow struct {
	ProductType string `json:"product_type" gorm:"column:product_type;primaryKey"`

	WThickness    float64 `json:"w_thickness" gorm:"column:w_thickness"`
	WPeelAdhesion float64 `json:"w_peel_adhesion" gorm:"column:w_peel_adhesion"`

	CoatingWeightMin  float64 `json:"coating_weight_min" gorm:"column:coating_weight_min"`
	CoatingWeightMax  float64 `json:"coating_weight_max" gorm:"column:coating_weight_max"`
	CoatingWeightStep float64 `json:"coating_weight_step" gorm:"column:coating_weight_step"`

	GridPoints     int `json:"grid_points" gorm:"column:grid_points"`
	DefaultNBest   int `json:"default_n_best" gorm:"column:default_n_best"`
	SolverBudgetMs int `json:"solver_budget_ms" gorm:"column:solver_budget_ms"`
}

func (DesignConfigRow) TableName() string {
	return "design_configs"
}
