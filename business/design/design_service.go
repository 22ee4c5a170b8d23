package design

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/taomoai/tesa-PDA/domain"
	"github.com/taomoai/tesa-PDA/pkg/logger"
	"github.com/taomoai/tesa-PDA/pkg/metrics"

	"github.com/google/uuid"
	"github.com/pobyzaarif/goshortcute"
)

const (
	RunTypeProposal = "proposal"
	RunTypeOptimize = "optimize"

	RunStatusCompleted  = "completed"
	RunStatusInfeasible = "infeasible"
)

// ---- Repository interfaces ----

type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.DesignRun) error
	FindRunByID(ctx context.Context, id string) (domain.DesignRun, error)
	FindRecentRuns(ctx context.Context, limit int) ([]domain.DesignRun, error)
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type ModelRepository interface {
	FindAll(ctx context.Context) ([]domain.RegressionModel, error)
	Upsert(ctx context.Context, model *domain.RegressionModel) error
}

// ResultCache keeps serialized proposal responses keyed by request hash.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// ---- Usecase / Service ----

type DesignService struct {
	materialRepo MaterialRepository
	modelRepo    ModelRepository
	cfgRepo      ConfigRepository
	runRepo      RunRepository
	cache        ResultCache
	solver       Solver
	reverse      *ReverseLookup
	defaultCfg   Config
	cacheTTL     time.Duration

	bankMu sync.RWMutex
	bank   *ModelBank
}

func NewDesignService(
	materialRepo MaterialRepository,
	modelRepo ModelRepository,
	bank *ModelBank,
	cfgRepo ConfigRepository,
	runRepo RunRepository,
	cache ResultCache,
	solver Solver,
	defaultCfg Config,
	cacheTTL time.Duration,
) *DesignService {
	return &DesignService{
		materialRepo: materialRepo,
		modelRepo:    modelRepo,
		bank:         bank,
		cfgRepo:      cfgRepo,
		runRepo:      runRepo,
		cache:        cache,
		solver:       solver,
		reverse:      NewReverseLookup(materialRepo),
		defaultCfg:   defaultCfg,
		cacheTTL:     cacheTTL,
	}
}

func (s *DesignService) models() *ModelBank {
	s.bankMu.RLock()
	defer s.bankMu.RUnlock()
	return s.bank
}

// ReloadModels rebuilds the in-memory model bank from storage.
func (s *DesignService) ReloadModels(ctx context.Context) error {
	rows, err := s.modelRepo.FindAll(ctx)
	if err != nil {
		logger.Error("failed to load regression models", err)
		return err
	}

	bank, err := NewModelBank(rows)
	if err != nil {
		logger.Error("failed to build model bank", err)
		return err
	}

	s.bankMu.Lock()
	s.bank = bank
	s.bankMu.Unlock()

	logger.Info("model bank reloaded", "models", len(rows))
	return nil
}

// UpsertModel stores a regression model row and refreshes the bank.
func (s *DesignService) UpsertModel(ctx context.Context, model *domain.RegressionModel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if model.ItemNo == "" {
		return errors.New("item_no is required")
	}

	// reject rows the bank could not load before they hit storage
	if _, err := newLinearModel(*model); err != nil {
		logger.Error("invalid regression model", err)
		return err
	}

	if err := s.modelRepo.Upsert(ctx, model); err != nil {
		logger.Error("failed to upsert regression model", err)
		return err
	}

	return s.ReloadModels(ctx)
}

func validateTarget(target domain.DesignTarget) error {
	if target.ProductType != domain.ProductTypeSingleLiner && target.ProductType != domain.ProductTypeDoubleLiner {
		return errors.New("product type must be single_liner or double_liner")
	}
	if target.Thickness <= 0 {
		return errors.New("target thickness must be greater than 0")
	}
	if target.OpenPA <= 0 {
		return errors.New("target open side peel adhesion must be greater than 0")
	}
	if target.ProductType == domain.ProductTypeDoubleLiner && target.CoverPA <= 0 {
		return errors.New("target cover side peel adhesion must be greater than 0")
	}
	return nil
}

// Propose enumerates the candidate feature space, predicts properties for
// every combination, filters hard-constraint violators, and returns the
// n best scored proposals with resolved catalog materials.
func (s *DesignService) Propose(ctx context.Context, target domain.DesignTarget) ([]domain.PredictedProduct, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when proposing design")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := validateTarget(target); err != nil {
		logger.Error("invalid design target", err)
		return nil, err
	}

	cfg := s.loadConfig(ctx, target.ProductType)

	nBest := target.NBest
	if nBest <= 0 {
		nBest = cfg.DefaultNBest
	}

	cacheKey := proposalCacheKey(target, nBest)
	if s.cache != nil {
		if payload, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
			var cached []domain.PredictedProduct
			if err := json.Unmarshal(payload, &cached); err == nil {
				logger.Debug("design proposal served from cache", "key", cacheKey)
				return cached, nil
			}
		}
	}

	backings, adhesives, err := s.loadMaterials(ctx)
	if err != nil {
		return nil, err
	}

	space := buildFeatureSpace(target, backings, adhesives, adhesives, cfg)
	candidates := space.Enumerate(target.ProductType)
	if len(candidates) == 0 {
		logger.Warn("empty candidate space", "product_type", target.ProductType)
		return []domain.PredictedProduct{}, nil
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		predictions, err := s.predictCandidate(ctx, c, target.ProductType)
		if err != nil {
			return nil, err
		}

		// violating candidates are expected filtering, not errors
		if violatesHardConstraints(predictions, target) {
			continue
		}

		details, overall := evaluateCandidate(predictions, target)
		scored = append(scored, scoredCandidate{
			features:    c,
			predictions: predictions,
			details:     details,
			overall:     overall,
		})
	}

	rankCandidates(scored)
	if len(scored) > nBest {
		scored = scored[:nBest]
	}

	products := make([]domain.PredictedProduct, 0, len(scored))
	for _, sc := range scored {
		products = append(products, s.resolveProduct(ctx, sc, target.ProductType))
	}

	s.persistRun(ctx, RunTypeProposal, target, products, RunStatusCompleted, 0)

	if s.cache != nil {
		if payload, err := json.Marshal(products); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
				logger.Warn("failed to cache design proposal", err)
			}
		}
	}

	metrics.DesignProposalRequests.Inc()

	return products, nil
}

// Optimize formulates the mixed-integer program for the target and delegates
// to the configured solver.
func (s *DesignService) Optimize(ctx context.Context, target domain.DesignTarget) (domain.OptimizationResult, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when optimizing design")
		return domain.OptimizationResult{}, fmt.Errorf("context error: %w", err)
	}

	if err := validateTarget(target); err != nil {
		logger.Error("invalid design target", err)
		return domain.OptimizationResult{}, err
	}

	cfg := s.loadConfig(ctx, target.ProductType)

	backings, adhesives, err := s.loadMaterials(ctx)
	if err != nil {
		return domain.OptimizationResult{}, err
	}

	problem := Problem{
		Backings:       materialOptions(backings, func(m domain.Material) float64 { return m.Thickness }),
		OpenAdhesives:  materialOptions(adhesives, func(m domain.Material) float64 { return m.PeelAdhesion }),
		CoatingWeights: stepRange(cfg.CoatingWeightMin, cfg.CoatingWeightMax, cfg.CoatingWeightStep),
		Target:         target,
		WThickness:     cfg.WThickness,
		WPeelAdhesion:  cfg.WPeelAdhesion,
		Predict:        s.models().Predict,
	}
	if target.ProductType == domain.ProductTypeDoubleLiner {
		problem.CoverAdhesives = problem.OpenAdhesives
	}

	start := time.Now()
	solution, err := s.solver.Solve(ctx, problem)
	metrics.SolverDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, domain.ErrInfeasible) {
			s.persistRun(ctx, RunTypeOptimize, target, nil, RunStatusInfeasible, 0)
		}
		logger.Error("solver failed", err)
		return domain.OptimizationResult{}, err
	}

	result := domain.OptimizationResult{
		BackingNART:        solution.Backing.NART,
		OpenAdhesiveNART:   solution.OpenAdhesive.NART,
		OpenCoatingWeight:  solution.OpenCoatingWeight,
		PredictedThickness: solution.PredictedThickness,
		PredictedOpenPA:    solution.PredictedOpenPA,
		Objective:          solution.Objective,
	}
	if target.ProductType == domain.ProductTypeDoubleLiner {
		result.CoverAdhesiveNART = solution.CoverAdhesive.NART
		result.CoverCoatingWeight = solution.CoverCoatingWeight
		result.PredictedCoverPA = solution.PredictedCoverPA
	}

	s.persistRun(ctx, RunTypeOptimize, target, result, RunStatusCompleted, solution.Objective)

	return result, nil
}

// predictCandidate runs every model relevant to the product type.
func (s *DesignService) predictCandidate(ctx context.Context, c domain.CandidateFeatureVector, productType string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	itemNos := []string{domain.ItemNoTotalThickness, domain.ItemNoOpenPA}
	if productType == domain.ProductTypeDoubleLiner {
		itemNos = append(itemNos, domain.ItemNoCoverPA)
	}

	bank := s.models()
	predictions := make(map[string]float64, len(itemNos))
	for _, itemNo := range itemNos {
		v, err := bank.Predict(itemNo, c)
		if err != nil {
			return nil, err
		}
		predictions[itemNo] = v
	}

	return predictions, nil
}

// resolveProduct maps a scored candidate's feature values back to catalog
// NARTs. A missing catalog match leaves the list empty rather than failing
// the whole proposal.
func (s *DesignService) resolveProduct(ctx context.Context, sc scoredCandidate, productType string) domain.PredictedProduct {
	p := domain.PredictedProduct{
		PredictBackingThickness:  sc.features[domain.FeatureBackingThickness],
		PredictOpenAdhesivePA:    sc.features[domain.FeatureOpenAdhesivePA],
		PredictOpenCoatingWeight: sc.features[domain.FeatureOpenCoatingWeight],
		EvalDetails:              sc.details,
		OverallScore:             sc.overall,
	}

	if backings, err := s.reverse.BackingByThickness(ctx, p.PredictBackingThickness); err == nil {
		p.AvailableBackingNART = narts(backings)
	} else if !errors.Is(err, domain.ErrNoMatchFound) {
		logger.Warn("backing reverse lookup failed", err)
	}

	if adhesives, err := s.reverse.AdhesiveByPeelAdhesion(ctx, p.PredictOpenAdhesivePA); err == nil {
		p.AvailableOpenAdhNART = narts(adhesives)
	} else if !errors.Is(err, domain.ErrNoMatchFound) {
		logger.Warn("open adhesive reverse lookup failed", err)
	}

	if productType == domain.ProductTypeDoubleLiner {
		p.PredictCoverAdhesivePA = sc.features[domain.FeatureCoverAdhesivePA]
		p.PredictCoverCoatingWght = sc.features[domain.FeatureCoverCoatingWght]

		if adhesives, err := s.reverse.AdhesiveByPeelAdhesion(ctx, p.PredictCoverAdhesivePA); err == nil {
			p.AvailableCoverAdhNART = narts(adhesives)
		} else if !errors.Is(err, domain.ErrNoMatchFound) {
			logger.Warn("cover adhesive reverse lookup failed", err)
		}
	}

	return p
}

func narts(materials []domain.Material) []string {
	out := make([]string, 0, len(materials))
	for _, m := range materials {
		out = append(out, m.NART)
	}
	return out
}

func (s *DesignService) loadMaterials(ctx context.Context) ([]domain.Material, []domain.Material, error) {
	backings, err := s.materialRepo.FindActiveByCategory(ctx, domain.MaterialCategoryBacking)
	if err != nil {
		return nil, nil, fmt.Errorf("load backings: %w", err)
	}

	adhesives, err := s.materialRepo.FindActiveByCategory(ctx, domain.MaterialCategoryAdhesive)
	if err != nil {
		return nil, nil, fmt.Errorf("load adhesives: %w", err)
	}

	return backings, adhesives, nil
}

func (s *DesignService) persistRun(ctx context.Context, runType string, target domain.DesignTarget, result any, status string, objective float64) {
	if s.runRepo == nil {
		return
	}

	reqJSON, err := json.Marshal(target)
	if err != nil {
		logger.Warn("failed to marshal design run request", err)
		return
	}

	var resJSON []byte
	if result != nil {
		if resJSON, err = json.Marshal(result); err != nil {
			logger.Warn("failed to marshal design run result", err)
			return
		}
	}

	run := &domain.DesignRun{
		ID:          uuid.NewString(),
		RunType:     runType,
		ProductType: target.ProductType,
		Request:     reqJSON,
		Result:      resJSON,
		Status:      status,
		Objective:   objective,
	}

	if err := s.runRepo.SaveRun(ctx, run); err != nil {
		logger.Warn("failed to save design run", err)
	}
}

// GetRun returns one persisted design run.
func (s *DesignService) GetRun(ctx context.Context, id string) (domain.DesignRun, error) {
	if err := ctx.Err(); err != nil {
		return domain.DesignRun{}, fmt.Errorf("context error: %w", err)
	}
	if id == "" {
		return domain.DesignRun{}, errors.New("run id is required")
	}

	return s.runRepo.FindRunByID(ctx, id)
}

// ListRuns returns the most recent design runs.
func (s *DesignService) ListRuns(ctx context.Context, limit int) ([]domain.DesignRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = 20
	}

	return s.runRepo.FindRecentRuns(ctx, limit)
}

// PruneRuns deletes runs older than the retention window.
func (s *DesignService) PruneRuns(ctx context.Context, retention time.Duration) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	deleted, err := s.runRepo.DeleteRunsBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("prune design runs: %w", err)
	}
	if deleted > 0 {
		logger.Info("pruned design runs", "deleted", deleted)
	}

	return deleted, nil
}

// GetDesignConfig returns the stored per-product-type config row.
func (s *DesignService) GetDesignConfig(ctx context.Context, productType string) (domain.DesignConfigRow, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.DesignConfigRow{}, false, fmt.Errorf("context error: %w", err)
	}

	return s.cfgRepo.GetConfig(ctx, productType)
}

// UpsertDesignConfig stores a per-product-type config row.
func (s *DesignService) UpsertDesignConfig(ctx context.Context, row domain.DesignConfigRow) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if row.ProductType != domain.ProductTypeSingleLiner && row.ProductType != domain.ProductTypeDoubleLiner {
		return errors.New("product type must be single_liner or double_liner")
	}

	return s.cfgRepo.UpsertConfig(ctx, row)
}

func materialOptions(materials []domain.Material, attr func(domain.Material) float64) []MaterialOption {
	out := make([]MaterialOption, 0, len(materials))
	for _, m := range materials {
		out = append(out, MaterialOption{NART: m.NART, Value: attr(m)})
	}
	return out
}

func proposalCacheKey(target domain.DesignTarget, nBest int) string {
	raw := fmt.Sprintf("propose|%s|%g|%g|%g|%g|%g|%d",
		target.ProductType,
		target.Thickness,
		target.OpenPA,
		target.CoverPA,
		target.BackingThicknessMin,
		target.BackingThicknessMax,
		nBest,
	)
	return "design:proposal:" + goshortcute.StringtoBase64Encode(raw)
}
