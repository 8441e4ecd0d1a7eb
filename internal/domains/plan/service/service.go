package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"atelier/config"
	"atelier/infras/otel"
	"atelier/internal/domains/plan/model"
	"atelier/internal/domains/plan/model/dto"
	"atelier/internal/domains/plan/repository"
	"atelier/shared"
	"atelier/shared/constant"
	gDto "atelier/shared/dto"
	"atelier/shared/failure"
	"atelier/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const refundMaxRetries = 3

const candidateOrdering = "plan_purchases.expires_at ASC NULLS LAST, plan_purchases.starts_on"

type Allocator interface {
	Allocate(ctx context.Context, spec dto.AllocationSpec) (*dto.AllocatedPlan, error)
	Refund(ctx context.Context, planID, bookingID, sessionID string) error
	RestoreDecrement(ctx context.Context, planID string, previousRemaining *int) error
	HasActiveFixedPlan(ctx context.Context, clientID string) (bool, error)
	IsFlexiblePlan(ctx context.Context, planID string) (bool, error)
	RecordUsage(ctx context.Context, planID, bookingID, sessionID string, creditDelta int) error
}

type serviceImpl struct {
	repo      repository.Purchase
	usageRepo repository.Usage
	cfg       *config.Config
	otel      otel.Otel
}

func New(repo repository.Purchase, usageRepo repository.Usage, cfg *config.Config, otel otel.Otel) Allocator {
	return &serviceImpl{
		repo:      repo,
		usageRepo: usageRepo,
		cfg:       cfg,
		otel:      otel,
	}
}

// Allocate spends one credit for the client against the session. A preferred
// plan is attempted first and its ineligibility is reported as a typed error,
// but the error is only surfaced after the ordered fallback candidates have
// also been tried. A nil result with a nil error means no plan could pay.
func (s *serviceImpl) Allocate(ctx context.Context, spec dto.AllocationSpec) (res *dto.AllocatedPlan, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Allocate")
	defer scope.End()
	defer scope.TraceIfError(err)

	tried := map[string]bool{}

	var strictErr error

	if spec.PreferredPlanID != nil && *spec.PreferredPlanID != "" {
		res, strictErr, err = s.allocatePreferred(ctx, spec)
		if err != nil {
			return nil, err
		}

		if res != nil {
			return res, nil
		}

		tried[*spec.PreferredPlanID] = true
	}

	candidates, err := s.listCandidates(ctx, spec.ClientID)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		if tried[candidate.ID] {
			continue
		}

		tried[candidate.ID] = true

		if eligErr := s.checkEligibility(candidate, spec); eligErr != nil {
			continue
		}

		res, claimed, claimErr := s.claim(ctx, candidate)
		if claimErr != nil {
			return nil, claimErr
		}

		if claimed {
			return res, nil
		}
	}

	if strictErr != nil {
		return nil, strictErr
	}

	return nil, nil
}

// allocatePreferred tries the explicitly chosen plan in strict mode. The
// second return value carries the typed ineligibility, the third a storage
// failure. A lost decrement race yields all-nil so the caller falls through
// to the ordered candidates.
func (s *serviceImpl) allocatePreferred(ctx context.Context, spec dto.AllocationSpec) (*dto.AllocatedPlan, error, error) {
	plan, err := s.repo.Get(ctx, shared.FilterByID(*spec.PreferredPlanID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get preferred plan")

		return nil, nil, fmt.Errorf("failed to get preferred plan: %w", err)
	}

	if plan.ID == "" || plan.ClientID != spec.ClientID {
		return nil, failure.NotFound(model.EntityName), nil
	}

	if eligErr := s.checkEligibility(plan, spec); eligErr != nil {
		return nil, eligErr, nil
	}

	res, claimed, err := s.claim(ctx, plan)
	if err != nil {
		return nil, nil, err
	}

	if !claimed {
		return nil, nil, nil
	}

	return res, nil, nil
}

func (s *serviceImpl) listCandidates(ctx context.Context, clientID string) ([]model.PlanPurchase, error) {
	today := timezone.Format(timezone.Now(), constant.DateOnly)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldClientID, Value: clientID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusActive, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldModality, Value: model.ModalityFlexible, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStartsOn, Value: today, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{Field: model.FieldExpiresAt, Operator: gDto.FilterIsNull, Table: model.TableName},
					gDto.Filter{Field: model.FieldExpiresAt, Value: today, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
				},
			},
		},
	}

	params := gDto.QueryParams{
		Limit:   s.cfg.Booking.PlanCandidateLimit,
		SortBy:  candidateOrdering,
		SortDir: gDto.SortDirAsc,
	}

	candidates, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list candidate plans")

		return nil, fmt.Errorf("failed to list candidate plans: %w", err)
	}

	return candidates, nil
}

func (s *serviceImpl) checkEligibility(plan model.PlanPurchase, spec dto.AllocationSpec) error {
	if plan.Status != model.StatusActive {
		return failure.Unprocessable("plan is not active") //nolint:wrapcheck
	}

	now := timezone.Now()
	today := timezone.Format(now, constant.DateOnly)

	if timezone.Format(plan.StartsOn, constant.DateOnly) > today {
		return failure.Unprocessable("plan is not yet valid") //nolint:wrapcheck
	}

	if plan.ExpiresAt != nil && timezone.Format(*plan.ExpiresAt, constant.DateOnly) < today {
		return failure.Unprocessable("plan has expired") //nolint:wrapcheck
	}

	if plan.Category != nil && spec.SessionCategory != nil && *plan.Category != *spec.SessionCategory {
		return failure.Unprocessable("plan does not cover this class category") //nolint:wrapcheck
	}

	if plan.AppOnly && spec.StaffActor {
		return failure.Unprocessable("plan credits can only be spent from the app") //nolint:wrapcheck
	}

	if plan.RemainingClasses != nil && *plan.RemainingClasses <= 0 {
		return failure.Unprocessable("plan has no remaining classes") //nolint:wrapcheck
	}

	return nil
}

// claim performs the conditional decrement. The filter pins the remaining
// count read moments ago, so a zero-row update means another allocation got
// there first and the caller should move on.
func (s *serviceImpl) claim(ctx context.Context, plan model.PlanPurchase) (*dto.AllocatedPlan, bool, error) {
	if plan.RemainingClasses == nil {
		return &dto.AllocatedPlan{
			PlanPurchaseID: plan.ID,
			Name:           plan.Name,
			Unlimited:      true,
		}, true, nil
	}

	previous := *plan.RemainingClasses
	remaining := previous - 1

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	mod := map[string]any{
		model.FieldRemainingClasses: remaining,
		constant.FieldModifiedAt:    timezone.Now(),
		constant.FieldModifiedBy:    user,
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: plan.ID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldRemainingClasses, Value: previous, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	affected, err := s.repo.UpdateChecked(ctx, mod, filter)
	if err != nil {
		log.Error().Err(err).Str("planID", plan.ID).Msg("failed to decrement plan credit")

		return nil, false, fmt.Errorf("failed to decrement plan credit: %w", err)
	}

	if affected == 0 {
		log.Info().Str("planID", plan.ID).Msg("lost plan decrement race, trying next candidate")

		return nil, false, nil
	}

	return &dto.AllocatedPlan{
		PlanPurchaseID:    plan.ID,
		Name:              plan.Name,
		PreviousRemaining: &previous,
		NewRemaining:      &remaining,
	}, true, nil
}

// Refund restores one credit to the plan and writes the compensating ledger
// row. The increment is conditional on the remaining count just read and
// retried a few times under contention.
func (s *serviceImpl) Refund(ctx context.Context, planID, bookingID, sessionID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Refund")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	for attempt := 0; attempt < refundMaxRetries; attempt++ {
		plan, err := s.repo.Get(ctx, shared.FilterByID(planID, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get plan for refund")

			return fmt.Errorf("failed to get plan for refund: %w", err)
		}

		if plan.ID == "" {
			return failure.NotFound(model.EntityName) //nolint:wrapcheck
		}

		if plan.RemainingClasses == nil {
			return s.RecordUsage(ctx, planID, bookingID, sessionID, model.CreditDeltaRefund)
		}

		previous := *plan.RemainingClasses

		mod := map[string]any{
			model.FieldRemainingClasses: previous + 1,
			constant.FieldModifiedAt:    timezone.Now(),
			constant.FieldModifiedBy:    user,
		}

		filter := gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{Field: model.FieldID, Value: planID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
				gDto.Filter{Field: model.FieldRemainingClasses, Value: previous, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			},
		}

		affected, err := s.repo.UpdateChecked(ctx, mod, filter)
		if err != nil {
			log.Error().Err(err).Str("planID", planID).Msg("failed to restore plan credit")

			return fmt.Errorf("failed to restore plan credit: %w", err)
		}

		if affected > 0 {
			return s.RecordUsage(ctx, planID, bookingID, sessionID, model.CreditDeltaRefund)
		}

		log.Info().Str("planID", planID).Int("attempt", attempt+1).Msg("lost refund race, retrying")
	}

	return fmt.Errorf("failed to refund plan credit after %d attempts (%s)", refundMaxRetries, planID)
}

// RestoreDecrement undoes a decrement whose follow-up bookkeeping failed. If
// the count has already moved on, the restore is skipped rather than fought
// over.
func (s *serviceImpl) RestoreDecrement(ctx context.Context, planID string, previousRemaining *int) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RestoreDecrement")
	defer scope.End()
	defer scope.TraceIfError(err)

	if previousRemaining == nil {
		return nil
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	mod := map[string]any{
		model.FieldRemainingClasses: *previousRemaining,
		constant.FieldModifiedAt:    timezone.Now(),
		constant.FieldModifiedBy:    user,
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: planID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldRemainingClasses, Value: *previousRemaining - 1, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	affected, err := s.repo.UpdateChecked(ctx, mod, filter)
	if err != nil {
		log.Error().Err(err).Str("planID", planID).Msg("failed to restore plan decrement")

		return fmt.Errorf("failed to restore plan decrement: %w", err)
	}

	if affected == 0 {
		log.Warn().Str("planID", planID).Msg("plan decrement not restored, count already moved")
	}

	return nil
}

func (s *serviceImpl) HasActiveFixedPlan(ctx context.Context, clientID string) (res bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HasActiveFixedPlan")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldClientID, Value: clientID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusActive, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldModality, Value: model.ModalityFixed, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check fixed plans")

		return false, fmt.Errorf("failed to check fixed plans: %w", err)
	}

	return exist, nil
}

// IsFlexiblePlan reports whether the plan spends self-service credits, the
// only modality eligible for window-based refunds.
func (s *serviceImpl) IsFlexiblePlan(ctx context.Context, planID string) (res bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsFlexiblePlan")
	defer scope.End()
	defer scope.TraceIfError(err)

	plan, err := s.repo.Get(ctx, shared.FilterByID(planID, model.FieldID, model.TableName), model.FieldID, model.FieldModality)
	if err != nil {
		log.Error().Err(err).Msg("failed to get plan modality")

		return false, fmt.Errorf("failed to get plan modality: %w", err)
	}

	if plan.ID == "" {
		return false, failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	return plan.Modality == model.ModalityFlexible, nil
}

// RecordUsage appends a ledger row for one credit movement.
func (s *serviceImpl) RecordUsage(ctx context.Context, planID, bookingID, sessionID string, creditDelta int) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordUsage")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	usage := model.PlanUsage{
		ID:             uuid.NewString(),
		PlanPurchaseID: planID,
		BookingID:      bookingID,
		SessionID:      sessionID,
		CreditDelta:    creditDelta,
		CreatedAt:      timezone.Now(),
		CreatedBy:      user,
	}

	if err = s.usageRepo.Insert(ctx, usage); err != nil {
		log.Error().Err(err).Msg("failed to record plan usage")

		return fmt.Errorf("failed to record plan usage: %w", err)
	}

	return nil
}
