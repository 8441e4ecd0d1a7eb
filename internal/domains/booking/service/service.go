package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"atelier/config"
	"atelier/infras/kafka"
	"atelier/infras/otel"
	"atelier/internal/domains/booking/model"
	"atelier/internal/domains/booking/model/dto"
	"atelier/internal/domains/booking/repository"
	clientModel "atelier/internal/domains/client/model"
	clientRepo "atelier/internal/domains/client/repository"
	planDto "atelier/internal/domains/plan/model/dto"
	planService "atelier/internal/domains/plan/service"
	sessionModel "atelier/internal/domains/session/model"
	sessionRepo "atelier/internal/domains/session/repository"
	waitlistModel "atelier/internal/domains/waitlist/model"
	waitlistRepo "atelier/internal/domains/waitlist/repository"
	"atelier/shared"
	"atelier/shared/cache"
	"atelier/shared/constant"
	gDto "atelier/shared/dto"
	"atelier/shared/failure"
	gModel "atelier/shared/model"
	"atelier/shared/shortcode"
	"atelier/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheGetAllSession = "session:gets"
	cacheGetSession    = "session:get"
)

// promotionMaxCandidates bounds how many waitlist entries one cancellation
// will walk through before giving up.
const promotionMaxCandidates = 25

const actorSystem = "system"

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResult, error)
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (dto.CancelBookingResult, error)
	Rebook(ctx context.Context, id string, req dto.RebookBookingRequest) (dto.RebookBookingResult, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo         repository.Booking
	eventRepo    repository.Event
	qrRepo       repository.QrToken
	sessionRepo  sessionRepo.Session
	clientRepo   clientRepo.Client
	waitlistRepo waitlistRepo.Waitlist
	allocator    planService.Allocator
	cfg          *config.Config
	cache        cache.RedisCache
	kafka        kafka.Client
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	eventRepo repository.Event,
	qrRepo repository.QrToken,
	sessRepo sessionRepo.Session,
	cliRepo clientRepo.Client,
	wlRepo waitlistRepo.Waitlist,
	allocator planService.Allocator,
	cfg *config.Config,
	redisCache cache.RedisCache,
	kafkaClient kafka.Client,
	otl otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		eventRepo:    eventRepo,
		qrRepo:       qrRepo,
		sessionRepo:  sessRepo,
		clientRepo:   cliRepo,
		waitlistRepo: wlRepo,
		allocator:    allocator,
		cfg:          cfg,
		cache:        redisCache,
		kafka:        kafkaClient,
		otel:         otl,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.create(ctx, req, nil)
}

// create is the shared entry for Create, Rebook and waitlist promotion.
// rebookedFrom links the new row back to the booking it replaces.
func (s *serviceImpl) create(ctx context.Context, req dto.CreateBookingRequest, rebookedFrom *string) (res dto.CreateBookingResult, err error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	session, err := s.getSession(ctx, req.SessionID)
	if err != nil {
		return res, err
	}

	if err = s.checkBookingWindow(session); err != nil {
		return res, err
	}

	clientID, err := s.resolveClient(ctx, req.ClientID, req.ClientHint, user)
	if err != nil {
		return res, err
	}

	existing, err := s.repo.Get(ctx, filterBySessionClient(req.SessionID, clientID))
	if err != nil {
		log.Error().Err(err).Msg("failed to look up existing booking")

		return res, fmt.Errorf("failed to look up existing booking: %w", err)
	}

	if existing.ID != "" && existing.Status != model.StatusCancelled {
		res.BookingID = existing.ID
		res.Duplicated = true

		return res, nil
	}

	if err = s.checkCapacity(ctx, session); err != nil {
		return res, err
	}

	booking, reactivated, err := s.placeBooking(ctx, req, existing, clientID, rebookedFrom, user)
	if err != nil {
		return res, err
	}

	code, err := s.issueQrToken(ctx, booking.ID, session.StartsAt)
	if err != nil {
		return res, err
	}

	allocated, err := s.allocateCredit(ctx, booking, session, req.PreferredPlanID, clientID, role)
	if err != nil {
		return res, err
	}

	if err = s.syncOccupancy(ctx, session.ID); err != nil {
		return res, err
	}

	s.recordEvent(ctx, booking, model.EventCreated, map[string]any{
		"plan_purchase_id": planIDOrNil(allocated),
		"reactivated":      reactivated,
	})

	go s.invalidateBookingCaches(ctx)

	res.BookingID = booking.ID
	res.Reactivated = reactivated
	res.QrCode = code

	if allocated != nil {
		res.PlanPurchaseID = &allocated.PlanPurchaseID
		res.PlanName = allocated.Name
	}

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (res dto.CancelBookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return res, failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	res.BookingID = booking.ID

	if booking.Status == model.StatusCancelled {
		res.AlreadyCancelled = true

		return res, nil
	}

	session, err := s.getSession(ctx, booking.SessionID)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	mod := map[string]any{
		model.FieldStatus:        model.StatusCancelled,
		model.FieldCancelledAt:   now,
		model.FieldCancelledBy:   user,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if req.Notes != "" {
		mod[model.FieldNotes] = req.Notes
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: booking.ID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusCancelled, Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
		},
	}

	affected, err := s.repo.UpdateChecked(ctx, mod, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return res, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if affected == 0 {
		res.AlreadyCancelled = true

		return res, nil
	}

	res.Cancelled = true
	res.Refunded = s.refundIfEligible(ctx, booking, session, req.ForceRefund, now)

	if err = s.syncOccupancy(ctx, session.ID); err != nil {
		return res, err
	}

	s.recordEvent(ctx, booking, model.EventCancelled, map[string]any{
		"refunded":     res.Refunded,
		"force_refund": req.ForceRefund,
	})

	s.promoteWaitlist(ctx, session.ID)

	go s.invalidateBookingCaches(ctx)

	return res, nil
}

func (s *serviceImpl) Rebook(ctx context.Context, id string, req dto.RebookBookingRequest) (res dto.RebookBookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Rebook")
	defer scope.End()
	defer scope.TraceIfError(err)

	original, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if original.ID == "" {
		return res, failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	if original.Status == model.StatusCancelled {
		return res, failure.Conflict("booking is already cancelled") //nolint:wrapcheck
	}

	createReq := dto.CreateBookingRequest{
		SessionID:       req.NewSessionID,
		ClientID:        original.ClientID,
		PreferredPlanID: original.PlanPurchaseID,
		Notes:           req.Notes,
	}

	created, err := s.create(ctx, createReq, &original.ID)
	if err != nil {
		return res, err
	}

	if created.Duplicated {
		return res, failure.Conflict("client already has a booking on the target session") //nolint:wrapcheck
	}

	if _, err = s.Cancel(ctx, original.ID, dto.CancelBookingRequest{ForceRefund: true}); err != nil {
		return res, err
	}

	newBooking, err := s.repo.Get(ctx, shared.FilterByID(created.BookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get rebooked booking")

		return res, fmt.Errorf("failed to get rebooked booking: %w", err)
	}

	s.recordEvent(ctx, newBooking, model.EventRebooked, map[string]any{
		"rebooked_from": original.ID,
		"rebooked_to":   created.BookingID,
	})

	res.BookingID = created.BookingID
	res.RebookedFrom = original.ID
	res.QrCode = created.QrCode
	res.PlanPurchaseID = created.PlanPurchaseID
	res.PlanName = created.PlanName

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return res, failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

// GetMine lists the bookings of the client tied to the authenticated user.
// A user with no client row simply has no bookings.
func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == "" {
		return res, failure.Unauthorized("unauthorized") //nolint:wrapcheck
	}

	clientFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: clientModel.FieldAuthUserID, Value: user, Operator: gDto.FilterOperatorEq, Table: clientModel.TableName},
		},
	}

	client, err := s.clientRepo.Get(ctx, clientFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve client for user")

		return res, fmt.Errorf("failed to resolve client for user: %w", err)
	}

	if client.ID == "" {
		res.Bookings = []dto.BookingResponse{}
		res.TotalPage = 1

		return res, nil
	}

	filter.Operator = gDto.FilterGroupOperatorAnd
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldClientID,
		Value:    client.ID,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})

	return s.GetAll(ctx, req, filter)
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) getSession(ctx context.Context, id string) (sessionModel.Session, error) {
	session, err := s.sessionRepo.Get(ctx, shared.FilterByID(id, sessionModel.FieldID, sessionModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get session")

		return session, fmt.Errorf("failed to get session: %w", err)
	}

	if session.ID == "" {
		return session, failure.NotFound(sessionModel.EntityName) //nolint:wrapcheck
	}

	return session, nil
}

// checkBookingWindow enforces the course's rolling booking window. A course
// without a window leaves the session open-ended.
func (s *serviceImpl) checkBookingWindow(session sessionModel.Session) error {
	if session.BookingWindowDays == nil {
		return nil
	}

	opensAt := session.StartsAt.AddDate(0, 0, -*session.BookingWindowDays)
	if timezone.Now().Before(opensAt) {
		return failure.Forbidden(fmt.Sprintf("session can only be booked within %d days of its start", *session.BookingWindowDays)) //nolint:wrapcheck
	}

	return nil
}

// resolveClient turns an explicit id or a kiosk name hint into a client row,
// creating one lazily for first-time hints.
func (s *serviceImpl) resolveClient(ctx context.Context, clientID, clientHint, user string) (string, error) {
	if clientID != "" {
		exist, err := s.clientRepo.Exist(ctx, shared.FilterByID(clientID, clientModel.FieldID, clientModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check client")

			return "", fmt.Errorf("failed to check client: %w", err)
		}

		if !exist {
			return "", failure.NotFound(clientModel.EntityName) //nolint:wrapcheck
		}

		return clientID, nil
	}

	if clientHint == "" {
		return "", failure.BadRequestFromString("either client_id or client_hint is required") //nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: clientModel.FieldDisplayName, Value: clientHint, Operator: gDto.FilterOperatorEq, Table: clientModel.TableName},
		},
	}

	existing, err := s.clientRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up client by hint")

		return "", fmt.Errorf("failed to look up client by hint: %w", err)
	}

	if existing.ID != "" {
		return existing.ID, nil
	}

	now := timezone.Now()
	client := clientModel.Client{
		ID:          uuid.NewString(),
		DisplayName: clientHint,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if err = s.clientRepo.Insert(ctx, client); err != nil {
		log.Error().Err(err).Msg("failed to create client")

		return "", fmt.Errorf("failed to create client: %w", err)
	}

	return client.ID, nil
}

// checkCapacity relies on a fresh count, not the cached occupancy, so
// back-to-back bookings don't compound staleness.
func (s *serviceImpl) checkCapacity(ctx context.Context, session sessionModel.Session) error {
	count, err := s.countActive(ctx, session.ID)
	if err != nil {
		return err
	}

	if count >= session.Capacity {
		return failure.Conflict("session is fully booked") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) countActive(ctx context.Context, sessionID string) (int, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldSessionID, Value: sessionID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusCancelled, Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
		},
	}

	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count active bookings")

		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}

	return count, nil
}

// placeBooking inserts a fresh row or reactivates the cancelled one in
// place, keeping the booking id stable across cancel/rebook chains.
func (s *serviceImpl) placeBooking(ctx context.Context, req dto.CreateBookingRequest, existing model.Booking, clientID string, rebookedFrom *string, user string) (model.Booking, bool, error) {
	if existing.ID == "" {
		booking := dto.NewBooking(req.SessionID, clientID, req.Notes, user, rebookedFrom)

		if err := s.repo.Insert(ctx, booking); err != nil {
			log.Error().Err(err).Msg("failed to create booking")

			return booking, false, fmt.Errorf("failed to create booking: %w", err)
		}

		return booking, false, nil
	}

	now := timezone.Now()

	mod := map[string]any{
		model.FieldStatus:                model.StatusConfirmed,
		model.FieldReservedAt:            now,
		model.FieldCancelledAt:           nil,
		model.FieldCancelledBy:           nil,
		model.FieldPlanPurchaseID:        nil,
		model.FieldNotes:                 req.Notes,
		model.FieldRebookedFromBookingID: rebookedFrom,
		constant.FieldModifiedAt:         now,
		constant.FieldModifiedBy:         user,
	}

	if err := s.repo.Update(ctx, mod, shared.FilterByID(existing.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to reactivate booking")

		return existing, false, fmt.Errorf("failed to reactivate booking: %w", err)
	}

	existing.Status = model.StatusConfirmed
	existing.ClientID = clientID
	existing.ReservedAt = now
	existing.CancelledAt = nil
	existing.CancelledBy = nil
	existing.PlanPurchaseID = nil
	existing.RebookedFromBookingID = rebookedFrom

	return existing, true, nil
}

func (s *serviceImpl) issueQrToken(ctx context.Context, bookingID string, startsAt time.Time) (string, error) {
	code, err := shortcode.New(shortcode.DefaultLength)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate qr code")

		return "", fmt.Errorf("failed to generate qr code: %w", err)
	}

	token := model.QrToken{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		Code:      code,
		ExpiresAt: startsAt.Add(time.Duration(s.cfg.Booking.QrTokenTTLHours) * time.Hour),
		CreatedAt: timezone.Now(),
	}

	if err = s.qrRepo.Upsert(ctx, token); err != nil {
		log.Error().Err(err).Msg("failed to upsert qr token")

		return "", fmt.Errorf("failed to upsert qr token: %w", err)
	}

	return code, nil
}

// allocateCredit runs the allocator and the follow-up bookkeeping. Any
// outcome that leaves the seat unpaid rolls the booking back to CANCELLED so
// the caller never ends up with a confirmed-but-unpaid row.
func (s *serviceImpl) allocateCredit(ctx context.Context, booking model.Booking, session sessionModel.Session, preferredPlanID *string, clientID, role string) (*planDto.AllocatedPlan, error) {
	spec := planDto.AllocationSpec{
		ClientID:        clientID,
		SessionID:       session.ID,
		PreferredPlanID: preferredPlanID,
		SessionCategory: session.Category,
		StaffActor:      role == constant.RoleAdmin || role == constant.RoleStaff || role == constant.RoleInstructor,
	}

	allocated, err := s.allocator.Allocate(ctx, spec)
	if err != nil {
		s.rollbackBooking(ctx, booking.ID)

		return nil, err //nolint:wrapcheck
	}

	if allocated == nil {
		s.rollbackBooking(ctx, booking.ID)

		hasFixed, fixedErr := s.allocator.HasActiveFixedPlan(ctx, clientID)
		if fixedErr != nil {
			return nil, fixedErr //nolint:wrapcheck
		}

		if hasFixed {
			return nil, failure.Unprocessable("your membership is managed by the studio, please contact staff to book") //nolint:wrapcheck
		}

		return nil, failure.Unprocessable("no active plan with remaining classes") //nolint:wrapcheck
	}

	if err = s.attachPlan(ctx, booking, session.ID, allocated); err != nil {
		if restoreErr := s.allocator.RestoreDecrement(ctx, allocated.PlanPurchaseID, allocated.PreviousRemaining); restoreErr != nil {
			log.Error().Err(restoreErr).Str("planID", allocated.PlanPurchaseID).Msg("failed to restore plan decrement")
		}

		s.rollbackBooking(ctx, booking.ID)

		return nil, err
	}

	return allocated, nil
}

func (s *serviceImpl) attachPlan(ctx context.Context, booking model.Booking, sessionID string, allocated *planDto.AllocatedPlan) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	mod := map[string]any{
		model.FieldPlanPurchaseID: allocated.PlanPurchaseID,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  user,
	}

	if err := s.repo.Update(ctx, mod, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to attach plan to booking")

		return fmt.Errorf("failed to attach plan to booking: %w", err)
	}

	if err := s.allocator.RecordUsage(ctx, allocated.PlanPurchaseID, booking.ID, sessionID, 1); err != nil {
		return err //nolint:wrapcheck
	}

	return nil
}

// rollbackBooking reverts a just-placed booking after allocation failed, so
// the seat does not stay held without a paying plan.
func (s *serviceImpl) rollbackBooking(ctx context.Context, bookingID string) {
	now := timezone.Now()

	mod := map[string]any{
		model.FieldStatus:        model.StatusCancelled,
		model.FieldCancelledAt:   now,
		model.FieldCancelledBy:   actorSystem,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: actorSystem,
	}

	if err := s.repo.Update(ctx, mod, shared.FilterByID(bookingID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to roll back unpaid booking")
	}
}

// refundIfEligible restores the credit when a plan paid for the seat and the
// cancellation is either forced or early enough for a flexible plan. Refund
// failures are logged, never fatal to the cancel.
func (s *serviceImpl) refundIfEligible(ctx context.Context, booking model.Booking, session sessionModel.Session, forceRefund bool, now time.Time) bool {
	if booking.PlanPurchaseID == nil {
		return false
	}

	if !forceRefund && !s.withinRefundWindow(ctx, *booking.PlanPurchaseID, session, now) {
		return false
	}

	if err := s.allocator.Refund(ctx, *booking.PlanPurchaseID, booking.ID, session.ID); err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to refund plan credit")

		return false
	}

	return true
}

func (s *serviceImpl) withinRefundWindow(ctx context.Context, planID string, session sessionModel.Session, now time.Time) bool {
	flexible, err := s.allocator.IsFlexiblePlan(ctx, planID)
	if err != nil {
		log.Error().Err(err).Str("planID", planID).Msg("failed to check plan modality")

		return false
	}

	if !flexible {
		return false
	}

	windowHours := s.cfg.Booking.CancellationWindowHours
	if session.CancellationWindowHours != nil {
		windowHours = *session.CancellationWindowHours
	}

	deadline := session.StartsAt.Add(-time.Duration(windowHours) * time.Hour)

	return !now.After(deadline)
}

// syncOccupancy rewrites the session's cached seat count from a fresh count
// of non-cancelled bookings. Safe to call redundantly.
func (s *serviceImpl) syncOccupancy(ctx context.Context, sessionID string) error {
	count, err := s.countActive(ctx, sessionID)
	if err != nil {
		return err
	}

	mod := map[string]any{
		sessionModel.FieldOccupancy: count,
		constant.FieldModifiedAt:    timezone.Now(),
		constant.FieldModifiedBy:    actorSystem,
	}

	if err = s.sessionRepo.Update(ctx, mod, shared.FilterByID(sessionID, sessionModel.FieldID, sessionModel.TableName)); err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("failed to sync session occupancy")

		return fmt.Errorf("failed to sync session occupancy: %w", err)
	}

	return nil
}

// promoteWaitlist gives the freed seat to the next pending entry. Best
// effort: every failure is logged and the cancel that triggered it still
// succeeds. The loop walks candidates in order instead of recursing.
func (s *serviceImpl) promoteWaitlist(ctx context.Context, sessionID string) {
	for range promotionMaxCandidates {
		entry, ok := s.nextPending(ctx, sessionID)
		if !ok {
			return
		}

		if !s.claimEntry(ctx, entry) {
			return
		}

		promoteCtx := context.WithValue(context.WithoutCancel(ctx), constant.ContextKeyUserID, entry.ClientID)
		promoteCtx = context.WithValue(promoteCtx, constant.ContextKeyUserRole, constant.RoleMember)

		req := dto.CreateBookingRequest{
			SessionID: sessionID,
			ClientID:  entry.ClientID,
		}

		created, err := s.create(promoteCtx, req, nil)
		if err != nil || created.Duplicated {
			if err != nil {
				log.Warn().Err(err).Str("entryID", entry.ID).Msg("waitlist promotion failed, trying next candidate")
			}

			s.dropEntry(ctx, entry, sessionID)

			continue
		}

		s.markNotified(ctx, entry)
		s.resequence(ctx, sessionID)

		return
	}
}

func (s *serviceImpl) nextPending(ctx context.Context, sessionID string) (waitlistModel.WaitlistEntry, bool) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: waitlistModel.FieldSessionID, Value: sessionID, Operator: gDto.FilterOperatorEq, Table: waitlistModel.TableName},
			gDto.Filter{Field: waitlistModel.FieldStatus, Value: waitlistModel.StatusPending, Operator: gDto.FilterOperatorEq, Table: waitlistModel.TableName},
		},
	}

	params := gDto.QueryParams{
		Limit:   1,
		SortBy:  "waitlist_entries.position, waitlist_entries.created_at",
		SortDir: gDto.SortDirAsc,
	}

	entries, err := s.waitlistRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("failed to get next waitlist entry")

		return waitlistModel.WaitlistEntry{}, false
	}

	if len(entries) == 0 {
		return waitlistModel.WaitlistEntry{}, false
	}

	return entries[0], true
}

// claimEntry flips PENDING to PROMOTED conditionally. Zero rows means a
// concurrent promoter owns the entry, so this one backs off.
func (s *serviceImpl) claimEntry(ctx context.Context, entry waitlistModel.WaitlistEntry) bool {
	mod := map[string]any{
		waitlistModel.FieldStatus: waitlistModel.StatusPromoted,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  actorSystem,
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: waitlistModel.FieldID, Value: entry.ID, Operator: gDto.FilterOperatorEq, Table: waitlistModel.TableName},
			gDto.Filter{Field: waitlistModel.FieldStatus, Value: waitlistModel.StatusPending, Operator: gDto.FilterOperatorEq, Table: waitlistModel.TableName},
		},
	}

	affected, err := s.waitlistRepo.UpdateChecked(ctx, mod, filter)
	if err != nil {
		log.Error().Err(err).Str("entryID", entry.ID).Msg("failed to claim waitlist entry")

		return false
	}

	return affected > 0
}

func (s *serviceImpl) dropEntry(ctx context.Context, entry waitlistModel.WaitlistEntry, sessionID string) {
	mod := map[string]any{
		waitlistModel.FieldStatus: waitlistModel.StatusCancelled,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  actorSystem,
	}

	if _, err := s.waitlistRepo.UpdateChecked(ctx, mod, shared.FilterByID(entry.ID, waitlistModel.FieldID, waitlistModel.TableName)); err != nil {
		log.Error().Err(err).Str("entryID", entry.ID).Msg("failed to cancel waitlist entry")
	}

	s.resequence(ctx, sessionID)
}

func (s *serviceImpl) markNotified(ctx context.Context, entry waitlistModel.WaitlistEntry) {
	mod := map[string]any{
		waitlistModel.FieldNotifiedAt: timezone.Now(),
		constant.FieldModifiedAt:      timezone.Now(),
		constant.FieldModifiedBy:      actorSystem,
	}

	if _, err := s.waitlistRepo.UpdateChecked(ctx, mod, shared.FilterByID(entry.ID, waitlistModel.FieldID, waitlistModel.TableName)); err != nil {
		log.Error().Err(err).Str("entryID", entry.ID).Msg("failed to mark waitlist entry notified")
	}
}

func (s *serviceImpl) resequence(ctx context.Context, sessionID string) {
	if err := s.waitlistRepo.Resequence(ctx, sessionID); err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("failed to resequence waitlist")
	}
}

// recordEvent appends the audit row and publishes a copy to the event topic.
// Both writes are best effort: the lifecycle transition already happened and
// is never unwound over audit plumbing.
func (s *serviceImpl) recordEvent(ctx context.Context, booking model.Booking, eventType string, detail map[string]any) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if user == "" {
		user = actorSystem
	}

	detailJSON, err := json.Marshal(detail)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event detail")

		detailJSON = []byte("{}")
	}

	event := model.BookingEvent{
		ID:        uuid.NewString(),
		BookingID: booking.ID,
		SessionID: booking.SessionID,
		Type:      eventType,
		ActorID:   user,
		ActorRole: role,
		Detail:    string(detailJSON),
		CreatedAt: timezone.Now(),
	}

	if err = s.eventRepo.Insert(ctx, event); err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Str("type", eventType).Msg("failed to append booking event")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.EventTopic, kafka.Message{Key: booking.ID, Value: event}); err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context) {
	c := context.WithoutCancel(ctx)

	shared.InvalidateCaches(c, s.cache, cacheGetBooking)
	shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	shared.InvalidateCaches(c, s.cache, cacheGetSession)
	shared.InvalidateCaches(c, s.cache, cacheGetAllSession)
}

func filterBySessionClient(sessionID, clientID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldSessionID, Value: sessionID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldClientID, Value: clientID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}

func planIDOrNil(allocated *planDto.AllocatedPlan) *string {
	if allocated == nil {
		return nil
	}

	return &allocated.PlanPurchaseID
}
