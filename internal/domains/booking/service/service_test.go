package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"atelier/config"
	kafkaMocks "atelier/infras/kafka/mocks"
	"atelier/infras/otel/mocks"
	bookingMocks "atelier/internal/domains/booking/mocks"
	"atelier/internal/domains/booking/model"
	"atelier/internal/domains/booking/model/dto"
	"atelier/internal/domains/booking/service"
	clientMocks "atelier/internal/domains/client/mocks"
	clientModel "atelier/internal/domains/client/model"
	planMocks "atelier/internal/domains/plan/mocks"
	planDto "atelier/internal/domains/plan/model/dto"
	sessionMocks "atelier/internal/domains/session/mocks"
	sessionModel "atelier/internal/domains/session/model"
	waitlistMocks "atelier/internal/domains/waitlist/mocks"
	waitlistModel "atelier/internal/domains/waitlist/model"
	cacheMocks "atelier/shared/cache/mocks"
	"atelier/shared/constant"
	gDto "atelier/shared/dto"
	"atelier/shared/timezone"
)

type bookingMockSet struct {
	repo      *bookingMocks.MockBooking
	eventRepo *bookingMocks.MockEvent
	qrRepo    *bookingMocks.MockQrToken
	session   *sessionMocks.MockSession
	client    *clientMocks.MockClient
	waitlist  *waitlistMocks.MockWaitlist
	allocator *planMocks.MockAllocator
	cache     *cacheMocks.MockRedisCache
	kafka     *kafkaMocks.MockClient
}

func newBookingService(ctrl *gomock.Controller) (service.Booking, *bookingMockSet) {
	m := &bookingMockSet{
		repo:      bookingMocks.NewMockBooking(ctrl),
		eventRepo: bookingMocks.NewMockEvent(ctrl),
		qrRepo:    bookingMocks.NewMockQrToken(ctrl),
		session:   sessionMocks.NewMockSession(ctrl),
		client:    clientMocks.NewMockClient(ctrl),
		waitlist:  waitlistMocks.NewMockWaitlist(ctrl),
		allocator: planMocks.NewMockAllocator(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		kafka:     kafkaMocks.NewMockClient(ctrl),
	}

	// Audit and cache invalidation are best effort and partly asynchronous.
	m.kafka.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	m.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.CancellationWindowHours = 24
	cfg.Booking.PlanCandidateLimit = 10
	cfg.Booking.QrTokenTTLHours = 6

	svc := service.New(
		m.repo,
		m.eventRepo,
		m.qrRepo,
		m.session,
		m.client,
		m.waitlist,
		m.allocator,
		cfg,
		m.cache,
		m.kafka,
		mocks.NewOtel(),
	)

	return svc, m
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func sessionFixture(id string, startsIn time.Duration) sessionModel.Session {
	return sessionModel.Session{
		ID:       id,
		Capacity: 10,
		StartsAt: timezone.Now().Add(startsIn),
		EndsAt:   timezone.Now().Add(startsIn + time.Hour),
	}
}

func allocatedFixture() *planDto.AllocatedPlan {
	return &planDto.AllocatedPlan{
		PlanPurchaseID:    "plan-1",
		Name:              "10 Class Pack",
		PreviousRemaining: intPtr(5),
		NewRemaining:      intPtr(4),
	}
}

func memberCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleMember)
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	tests := []struct {
		name            string
		req             dto.CreateBookingRequest
		setupMock       func()
		wantErr         bool
		wantDuplicated  bool
		wantReactivated bool
		wantPlanID      string
	}{
		{
			name: "successful creation",
			req:  dto.CreateBookingRequest{SessionID: "session-1", ClientID: "client-1"},
			setupMock: func() {
				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.qrRepo.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					Allocate(gomock.Any(), gomock.Any()).
					Return(allocatedFixture(), nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					RecordUsage(gomock.Any(), "plan-1", gomock.Any(), "session-1", 1).
					Return(nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				m.session.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.eventRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr:    false,
			wantPlanID: "plan-1",
		},
		{
			name: "duplicate booking short-circuits",
			req:  dto.CreateBookingRequest{SessionID: "session-1", ClientID: "client-1"},
			setupMock: func() {
				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusConfirmed}, nil)
			},
			wantErr:        false,
			wantDuplicated: true,
		},
		{
			name: "reactivates the cancelled row in place",
			req:  dto.CreateBookingRequest{SessionID: "session-1", ClientID: "client-1"},
			setupMock: func() {
				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{
						ID:        "booking-1",
						SessionID: "session-1",
						ClientID:  "client-1",
						Status:    model.StatusCancelled,
					}, nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				// Reactivation and plan attachment both update the row.
				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					Times(2)

				m.qrRepo.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					Allocate(gomock.Any(), gomock.Any()).
					Return(allocatedFixture(), nil)

				m.allocator.EXPECT().
					RecordUsage(gomock.Any(), "plan-1", "booking-1", "session-1", 1).
					Return(nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				m.session.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.eventRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr:         false,
			wantReactivated: true,
			wantPlanID:      "plan-1",
		},
		{
			name: "session not found",
			req:  dto.CreateBookingRequest{SessionID: "nonexistent-id", ClientID: "client-1"},
			setupMock: func() {
				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionModel.Session{}, nil)
			},
			wantErr: true,
		},
		{
			name: "session outside its booking window",
			req:  dto.CreateBookingRequest{SessionID: "session-1", ClientID: "client-1"},
			setupMock: func() {
				session := sessionFixture("session-1", 72*time.Hour)
				session.BookingWindowDays = intPtr(1)

				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(session, nil)
			},
			wantErr: true,
		},
		{
			name: "client not found",
			req:  dto.CreateBookingRequest{SessionID: "session-1", ClientID: "nonexistent-id"},
			setupMock: func() {
				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "missing client id and hint",
			req:  dto.CreateBookingRequest{SessionID: "session-1"},
			setupMock: func() {
				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)
			},
			wantErr: true,
		},
		{
			name: "session fully booked",
			req:  dto.CreateBookingRequest{SessionID: "session-1", ClientID: "client-1"},
			setupMock: func() {
				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(10, nil)
			},
			wantErr: true,
		},
		{
			name: "no plan can pay rolls the booking back",
			req:  dto.CreateBookingRequest{SessionID: "session-1", ClientID: "client-1"},
			setupMock: func() {
				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.qrRepo.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					Allocate(gomock.Any(), gomock.Any()).
					Return(nil, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					HasActiveFixedPlan(gomock.Any(), "client-1").
					Return(false, nil)
			},
			wantErr: true,
		},
		{
			name: "fixed plan member is pointed at staff",
			req:  dto.CreateBookingRequest{SessionID: "session-1", ClientID: "client-1"},
			setupMock: func() {
				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.qrRepo.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					Allocate(gomock.Any(), gomock.Any()).
					Return(nil, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					HasActiveFixedPlan(gomock.Any(), "client-1").
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "failed plan attachment restores the credit",
			req:  dto.CreateBookingRequest{SessionID: "session-1", ClientID: "client-1"},
			setupMock: func() {
				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.qrRepo.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					Allocate(gomock.Any(), gomock.Any()).
					Return(allocatedFixture(), nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("update error"))

				m.allocator.EXPECT().
					RestoreDecrement(gomock.Any(), "plan-1", gomock.Any()).
					Return(nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Create(memberCtx(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantDuplicated, result.Duplicated)
			assert.Equal(t, tt.wantReactivated, result.Reactivated)

			if tt.wantDuplicated {
				return
			}

			assert.NotEmpty(t, result.BookingID)
			assert.NotEmpty(t, result.QrCode)

			if tt.wantPlanID != "" {
				assert.Equal(t, tt.wantPlanID, *result.PlanPurchaseID)
			}
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	confirmedBooking := model.Booking{
		ID:             "booking-1",
		SessionID:      "session-1",
		ClientID:       "client-1",
		Status:         model.StatusConfirmed,
		PlanPurchaseID: strPtr("plan-1"),
	}

	unpaidBooking := model.Booking{
		ID:        "booking-1",
		SessionID: "session-1",
		ClientID:  "client-1",
		Status:    model.StatusConfirmed,
	}

	tests := []struct {
		name          string
		req           dto.CancelBookingRequest
		setupMock     func()
		wantErr       bool
		wantCancelled bool
		wantAlready   bool
		wantRefunded  bool
	}{
		{
			name: "early cancellation refunds the credit",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmedBooking, nil)

				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)

				m.repo.EXPECT().
					UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)

				m.allocator.EXPECT().
					IsFlexiblePlan(gomock.Any(), "plan-1").
					Return(true, nil)

				m.allocator.EXPECT().
					Refund(gomock.Any(), "plan-1", "booking-1", "session-1").
					Return(nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				m.session.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.eventRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.waitlist.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]waitlistModel.WaitlistEntry{}, nil)
			},
			wantCancelled: true,
			wantRefunded:  true,
		},
		{
			name: "late cancellation keeps the credit",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmedBooking, nil)

				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", time.Hour), nil)

				m.repo.EXPECT().
					UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)

				m.allocator.EXPECT().
					IsFlexiblePlan(gomock.Any(), "plan-1").
					Return(true, nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				m.session.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.eventRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.waitlist.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]waitlistModel.WaitlistEntry{}, nil)
			},
			wantCancelled: true,
			wantRefunded:  false,
		},
		{
			name: "forced refund ignores the window",
			req:  dto.CancelBookingRequest{ForceRefund: true},
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmedBooking, nil)

				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", time.Hour), nil)

				m.repo.EXPECT().
					UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)

				m.allocator.EXPECT().
					Refund(gomock.Any(), "plan-1", "booking-1", "session-1").
					Return(nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				m.session.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.eventRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.waitlist.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]waitlistModel.WaitlistEntry{}, nil)
			},
			wantCancelled: true,
			wantRefunded:  true,
		},
		{
			name: "already cancelled is idempotent",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusCancelled}, nil)
			},
			wantAlready: true,
		},
		{
			name: "lost cancel race reports already cancelled",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(confirmedBooking, nil)

				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)

				m.repo.EXPECT().
					UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(0), nil)
			},
			wantAlready: true,
		},
		{
			name: "booking not found",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
		{
			name: "promotes the next pending waitlist entry",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(unpaidBooking, nil)

				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil).
					Times(2)

				m.repo.EXPECT().
					UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil).
					Times(3)

				m.session.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					Times(2)

				m.eventRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil).
					Times(2)

				m.waitlist.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]waitlistModel.WaitlistEntry{{
						ID:        "entry-1",
						SessionID: "session-1",
						ClientID:  "client-2",
						Status:    waitlistModel.StatusPending,
						Position:  1,
					}}, nil)

				// Claim and notified-at flip.
				m.waitlist.EXPECT().
					UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil).
					Times(2)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.qrRepo.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					Allocate(gomock.Any(), gomock.Any()).
					Return(allocatedFixture(), nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					RecordUsage(gomock.Any(), "plan-1", gomock.Any(), "session-1", 1).
					Return(nil)

				m.waitlist.EXPECT().
					Resequence(gomock.Any(), "session-1").
					Return(nil)
			},
			wantCancelled: true,
		},
		{
			name: "failed promotion drops the entry and tries the next",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(unpaidBooking, nil)

				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil).
					Times(2)

				m.repo.EXPECT().
					UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				m.session.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.eventRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.waitlist.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]waitlistModel.WaitlistEntry{{
						ID:        "entry-1",
						SessionID: "session-1",
						ClientID:  "client-gone",
						Status:    waitlistModel.StatusPending,
						Position:  1,
					}}, nil)

				// Claim, then drop after the promotion fails.
				m.waitlist.EXPECT().
					UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil).
					Times(2)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				m.waitlist.EXPECT().
					Resequence(gomock.Any(), "session-1").
					Return(nil)

				m.waitlist.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]waitlistModel.WaitlistEntry{}, nil)
			},
			wantCancelled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Cancel(memberCtx(), "booking-1", tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantCancelled, result.Cancelled)
			assert.Equal(t, tt.wantAlready, result.AlreadyCancelled)
			assert.Equal(t, tt.wantRefunded, result.Refunded)
		})
	}
}

func TestBookingService_Rebook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	original := model.Booking{
		ID:             "booking-1",
		SessionID:      "session-1",
		ClientID:       "client-1",
		Status:         model.StatusConfirmed,
		PlanPurchaseID: strPtr("plan-1"),
	}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful rebook",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(original, nil)

				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-2", 72*time.Hour), nil)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil).
					Times(3)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.qrRepo.EXPECT().
					Upsert(gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					Allocate(gomock.Any(), gomock.Any()).
					Return(allocatedFixture(), nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				m.allocator.EXPECT().
					RecordUsage(gomock.Any(), "plan-1", gomock.Any(), "session-2", 1).
					Return(nil)

				m.session.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					Times(2)

				m.eventRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil).
					Times(3)

				// Cancel of the original with a forced refund.
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(original, nil)

				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-1", 48*time.Hour), nil)

				m.repo.EXPECT().
					UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)

				m.allocator.EXPECT().
					Refund(gomock.Any(), "plan-1", "booking-1", "session-1").
					Return(nil)

				m.waitlist.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]waitlistModel.WaitlistEntry{}, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-2", SessionID: "session-2", ClientID: "client-1"}, nil)
			},
			wantErr: false,
		},
		{
			name: "cancelled booking cannot be rebooked",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-1", Status: model.StatusCancelled}, nil)
			},
			wantErr: true,
		},
		{
			name: "existing booking on the target session",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(original, nil)

				m.session.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(sessionFixture("session-2", 72*time.Hour), nil)

				m.client.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{ID: "booking-3", Status: model.StatusConfirmed}, nil)
			},
			wantErr: true,
		},
		{
			name: "booking not found",
			setupMock: func() {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Rebook(memberCtx(), "booking-1", dto.RebookBookingRequest{NewSessionID: "session-2"})

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "booking-1", result.RebookedFrom)
			assert.NotEmpty(t, result.BookingID)
			assert.NotEmpty(t, result.QrCode)
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	booking := model.Booking{
		ID:         "booking-1",
		SessionID:  "session-1",
		ClientID:   "client-1",
		Status:     model.StatusConfirmed,
		ReservedAt: timezone.Now(),
	}

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
		wantID    string
	}{
		{
			name: "cache hit",
			id:   "booking-1",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "cache miss, successful get from db",
			id:   "booking-1",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(booking, nil)

				m.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantID:  "booking-1",
		},
		{
			name: "booking not found",
			id:   "nonexistent-id",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			id:   "booking-1",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)

			if tt.wantID != "" {
				assert.Equal(t, tt.wantID, result.ID)
			}
		})
	}
}

func TestBookingService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantResult dto.GetBookingsResponse
	}{
		{
			name: "successful get all",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{{
						ID:         "booking-1",
						SessionID:  "session-1",
						ClientID:   "client-1",
						Status:     model.StatusConfirmed,
						ReservedAt: timezone.Now(),
					}}, nil)

				m.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantResult: dto.GetBookingsResponse{
				TotalData: 1,
				TotalPage: 1,
			},
		},
		{
			name: "count error",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, errors.New("count error"))
			},
			wantErr: true,
		},
		{
			name: "get all error",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("get all error"))

				m.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			params := gDto.QueryParams{Limit: 10, Page: 1}
			result, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantResult.TotalData, result.TotalData)
			assert.Equal(t, tt.wantResult.TotalPage, result.TotalPage)
		})
	}
}

func TestBookingService_GetMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantData  int
	}{
		{
			name:      "missing user is unauthorized",
			ctx:       context.Background(),
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "user without a client row has no bookings",
			ctx:  memberCtx(),
			setupMock: func() {
				m.client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(clientModel.Client{}, nil)
			},
			wantErr:  false,
			wantData: 0,
		},
		{
			name: "bookings scoped to the resolved client",
			ctx:  memberCtx(),
			setupMock: func() {
				m.client.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(clientModel.Client{ID: "client-1", AuthUserID: strPtr("test-user-id")}, nil)

				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss")).
					Times(2)

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)

				m.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Booking{{
						ID:         "booking-1",
						SessionID:  "session-1",
						ClientID:   "client-1",
						Status:     model.StatusConfirmed,
						ReservedAt: timezone.Now(),
					}}, nil)

				m.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr:  false,
			wantData: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			params := gDto.QueryParams{Limit: 10, Page: 1}
			result, err := svc.GetMine(tt.ctx, params, gDto.FilterGroup{})

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantData, result.TotalData)
		})
	}
}

func TestBookingService_Count(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newBookingService(ctrl)

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
		want      int
	}{
		{
			name: "cache miss counts from db",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(5, nil)

				m.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			want: 5,
		},
		{
			name: "repository error",
			setupMock: func() {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Count(context.Background(), gDto.QueryParams{}, gDto.FilterGroup{})

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}
