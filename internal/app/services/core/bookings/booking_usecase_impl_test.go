package bookings

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type usecaseFixture struct {
	usecase  *bookingUsecase
	repo     *memoryBookingRepository
	doctors  *memoryDoctorRepository
	locker   *fakeLocker
	notifier *recordingNotifier
	limiter  *switchLimiter
	storage  *memoryStorage
}

func newUsecaseFixture() *usecaseFixture {
	repo := newMemoryBookingRepository()
	doctors := &memoryDoctorRepository{doctors: map[string]*models.Doctor{
		"doctor-1": {ID: "doctor-1", UserID: "user-doc-1", Name: "Dr. Ada", Specialization: "Cardiology", ConsultationFee: 150, ClinicID: "clinic-1"},
		"doctor-2": {ID: "doctor-2", UserID: "user-doc-2", Name: "Dr. Bo", Specialization: "Dermatology", ConsultationFee: 90},
	}}
	users := &memoryUserRepository{users: map[string]*models.User{
		"patient-1": {ID: "patient-1", Name: "Pat One", Email: "pat1@example.com", Phone: "+10000000001", Role: "patient"},
		"patient-2": {ID: "patient-2", Name: "Pat Two", Email: "pat2@example.com", Phone: "+10000000002", Role: "patient"},
		"patient-3": {ID: "patient-3", Name: "Pat Three", Email: "pat3@example.com", Role: "patient"},
	}}
	locker := newFakeLocker()
	notifier := &recordingNotifier{}
	limiter := &switchLimiter{}
	storage := &memoryStorage{}
	logger := zap.NewNop()

	usecase := &bookingUsecase{
		BookingRepository:   repo,
		DoctorRepository:    doctors,
		UserRepository:      users,
		AvailabilityChecker: NewSlotAvailabilityChecker(repo, logger),
		SessionService:      jsonSessionService{},
		LockerService:       locker,
		ActivityNotifier:    notifier,
		CreateRateLimiter:   limiter,
		Storage:             storage,
		InternalConfig: &config.InternalConfig{
			Minio:   config.AppMinio{BucketName: "booking-exports", PreSignedUrlExpiryTimeInHours: 1},
			Booking: config.AppBooking{SlotLockExpiryInSeconds: 10},
		},
		Log: logger,
		now: func() time.Time { return time.Date(2025, 5, 20, 8, 30, 0, 0, time.UTC) },
	}

	return &usecaseFixture{
		usecase:  usecase,
		repo:     repo,
		doctors:  doctors,
		locker:   locker,
		notifier: notifier,
		limiter:  limiter,
		storage:  storage,
	}
}

func sessionFor(t *testing.T, userID, role, doctorID string) string {
	t.Helper()
	data, err := json.Marshal(models.Session{SessionID: "s-" + userID, UserID: userID, Role: role, DoctorID: doctorID})
	require.NoError(t, err)
	return string(data)
}

func stringPtr(value string) *string {
	return &value
}

func createRequest(doctorID, date, appointmentTime string) *requests.CreateBooking {
	return &requests.CreateBooking{
		DoctorID:        doctorID,
		AppointmentDate: date,
		AppointmentTime: appointmentTime,
		Symptoms:        "chest pain",
	}
}

func TestBookingUsecase_Scenario(t *testing.T) {
	f := newUsecaseFixture()
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-scenario")

	patient := sessionFor(t, "patient-1", constvars.RolePatient, "")
	otherPatient := sessionFor(t, "patient-2", constvars.RolePatient, "")
	doctor := sessionFor(t, "user-doc-1", constvars.RoleDoctor, "doctor-1")
	admin := sessionFor(t, "admin-1", constvars.RoleAdmin, "")

	created, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, constvars.BookingStatusConfirmed, created.Status)
	assert.Equal(t, float64(150), created.ConsultationFee)
	assert.Equal(t, "patient-1", created.PatientID)
	assert.Equal(t, "clinic-1", created.ClinicID)
	assert.Equal(t, constvars.BookingDefaultPaymentMethod, created.PaymentMethod)
	assert.Regexp(t, `^BK-20250520-[A-Z0-9]{6}$`, created.BookingReference)
	require.NotNil(t, created.DoctorSummary)
	assert.Equal(t, "Dr. Ada", created.DoctorSummary.Name)
	require.NotNil(t, created.PatientSummary)
	assert.Equal(t, "Pat One", created.PatientSummary.Name)

	_, err = f.usecase.CreateBooking(ctx, otherPatient, createRequest("doctor-1", "2025-06-01", "10:00"))
	assert.True(t, exceptions.IsKind(err, exceptions.KindConflict), "second booking of the same slot must conflict, got %v", err)

	completed, err := f.usecase.UpdateStatus(ctx, doctor, created.ID, &requests.UpdateBookingStatus{
		Status:    stringPtr(constvars.BookingStatusCompleted),
		Diagnosis: stringPtr("stable angina"),
	})
	require.NoError(t, err)
	assert.Equal(t, constvars.BookingStatusCompleted, completed.Status)
	assert.Equal(t, "stable angina", completed.Diagnosis)
	assert.NotNil(t, completed.CompletedAt)

	_, err = f.usecase.CancelBooking(ctx, doctor, created.ID, &requests.CancelBooking{})
	assert.True(t, exceptions.IsKind(err, exceptions.KindInvalidTransition), "cancelling a completed booking must be rejected, got %v", err)

	_, err = f.usecase.FindByID(ctx, otherPatient, created.ID)
	assert.True(t, exceptions.IsKind(err, exceptions.KindForbidden))

	second, err := f.usecase.CreateBooking(ctx, otherPatient, createRequest("doctor-1", "2025-06-02", "11:00"))
	require.NoError(t, err)
	_, err = f.usecase.CancelBooking(ctx, otherPatient, second.ID, nil)
	require.NoError(t, err)
	third, err := f.usecase.CreateBooking(ctx, otherPatient, createRequest("doctor-2", "2025-06-03", "09:00"))
	require.NoError(t, err)
	_, err = f.usecase.CancelBooking(ctx, otherPatient, third.ID, &requests.CancelBooking{Reason: "feeling better"})
	require.NoError(t, err)

	list, err := f.usecase.FindAll(ctx, admin, requests.BookingFilter{Status: constvars.BookingStatusCancelled}, requests.Pagination{Page: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, constvars.BookingStatusCancelled, list.Bookings[0].Status)
	assert.Equal(t, 2, list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.Pages)
	assert.Equal(t, 1, list.Pagination.Limit)

	page2, err := f.usecase.FindAll(ctx, admin, requests.BookingFilter{Status: constvars.BookingStatusCancelled}, requests.Pagination{Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page2.Bookings, 1)
	assert.NotEqual(t, list.Bookings[0].ID, page2.Bookings[0].ID)
	assert.Equal(t, constvars.BookingStatusCancelled, page2.Bookings[0].Status)
}

func TestBookingUsecase_CreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancelling Frees The Slot", func(t *testing.T) {
		f := newUsecaseFixture()
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")
		otherPatient := sessionFor(t, "patient-2", constvars.RolePatient, "")

		first, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)

		cancelled, err := f.usecase.CancelBooking(ctx, patient, first.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, constvars.BookingStatusCancelled, cancelled.Status)
		assert.Equal(t, constvars.BookingDefaultCancelNote, cancelled.Notes)
		assert.Equal(t, "patient-1", cancelled.CancelledBy)

		second, err := f.usecase.CreateBooking(ctx, otherPatient, createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)
		assert.Equal(t, constvars.BookingStatusConfirmed, second.Status)
	})

	t.Run("Same Slot Different Time Is Free", func(t *testing.T) {
		f := newUsecaseFixture()
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")

		_, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)
		_, err = f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:30"))
		require.NoError(t, err)
		_, err = f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01T10:00:00Z", "10:00"))
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict), "RFC3339 dates resolve to the same calendar day")
	})

	t.Run("Consultation Fee Is A Snapshot", func(t *testing.T) {
		f := newUsecaseFixture()
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")

		created, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)

		f.doctors.setFee("doctor-1", 400)

		found, err := f.usecase.FindByID(ctx, patient, created.ID)
		require.NoError(t, err)
		assert.Equal(t, float64(150), found.ConsultationFee)
		assert.Equal(t, float64(400), found.DoctorSummary.ConsultationFee)
	})

	t.Run("Patient Details Merge With Profile", func(t *testing.T) {
		f := newUsecaseFixture()
		patient := sessionFor(t, "patient-3", constvars.RolePatient, "")

		request := createRequest("doctor-1", "2025-06-01", "10:00")
		request.PatientDetails = &requests.PatientDetails{Phone: "+19999999999"}

		created, err := f.usecase.CreateBooking(ctx, patient, request)
		require.NoError(t, err)
		assert.Equal(t, "Pat Three", created.PatientDetails.Name)
		assert.Equal(t, "pat3@example.com", created.PatientDetails.Email)
		assert.Equal(t, "+19999999999", created.PatientDetails.Phone)
	})

	t.Run("Unknown Doctor", func(t *testing.T) {
		f := newUsecaseFixture()
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")

		_, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-404", "2025-06-01", "10:00"))
		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
	})

	t.Run("Unknown Patient Profile", func(t *testing.T) {
		f := newUsecaseFixture()
		ghost := sessionFor(t, "patient-ghost", constvars.RolePatient, "")

		_, err := f.usecase.CreateBooking(ctx, ghost, createRequest("doctor-1", "2025-06-01", "10:00"))
		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
	})

	t.Run("Bad Date", func(t *testing.T) {
		f := newUsecaseFixture()
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")

		_, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "next tuesday", "10:00"))
		assert.True(t, exceptions.IsKind(err, exceptions.KindValidation))
	})

	t.Run("Only Patients Create", func(t *testing.T) {
		f := newUsecaseFixture()

		for _, session := range []string{
			sessionFor(t, "user-doc-1", constvars.RoleDoctor, "doctor-1"),
			sessionFor(t, "admin-1", constvars.RoleAdmin, ""),
		} {
			_, err := f.usecase.CreateBooking(ctx, session, createRequest("doctor-1", "2025-06-01", "10:00"))
			assert.True(t, exceptions.IsKind(err, exceptions.KindForbidden))
		}
		assert.Empty(t, f.repo.bookings)
	})

	t.Run("Throttled", func(t *testing.T) {
		f := newUsecaseFixture()
		f.limiter.deny = true
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")

		_, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
		assert.True(t, exceptions.IsKind(err, exceptions.KindTooManyRequests))
	})

	t.Run("Held Slot Lock Conflicts", func(t *testing.T) {
		f := newUsecaseFixture()
		f.locker.held["booking:slot:doctor-1:2025-06-01:10:00"] = "other-request"
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")

		_, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
		assert.Empty(t, f.repo.bookings)
	})

	t.Run("Lock Is Released After Create", func(t *testing.T) {
		f := newUsecaseFixture()
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")

		_, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)
		assert.Empty(t, f.locker.held)
		assert.Equal(t, []string{"booking:slot:doctor-1:2025-06-01:10:00"}, f.locker.released)
	})

	t.Run("Redis Outage Falls Back To Index", func(t *testing.T) {
		f := newUsecaseFixture()
		f.locker.err = errors.New("redis: connection refused")
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")

		created, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)
		assert.Equal(t, constvars.BookingStatusConfirmed, created.Status)
	})

	t.Run("Index Closes The Check Then Insert Race", func(t *testing.T) {
		f := newUsecaseFixture()
		f.usecase.AvailabilityChecker = alwaysAvailable{}
		date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		f.repo.forceActive("doctor-1", date, "10:00")
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")

		_, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
	})

	t.Run("Emits Created Activity", func(t *testing.T) {
		f := newUsecaseFixture()
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")

		created, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)

		require.Len(t, f.notifier.activities, 1)
		activity := f.notifier.activities[0]
		assert.Equal(t, constvars.ActivityTypeBookingCreated, activity.Type)
		assert.Equal(t, "patient-1", activity.Actor)
		assert.Equal(t, created.ID, activity.TargetID)
		assert.Equal(t, constvars.ActivityTargetModelBooking, activity.TargetModel)
		assert.Contains(t, activity.Message, created.BookingReference)
	})
}

type alwaysAvailable struct{}

func (alwaysAvailable) IsAvailable(ctx context.Context, doctorID string, appointmentDate time.Time, appointmentTime string) (bool, error) {
	return true, nil
}

func TestBookingUsecase_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	patient := "patient-1"

	setup := func(t *testing.T) (*usecaseFixture, string) {
		f := newUsecaseFixture()
		created, err := f.usecase.CreateBooking(ctx, sessionFor(t, patient, constvars.RolePatient, ""), createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)
		return f, created.ID
	}

	t.Run("Patient Cannot Update", func(t *testing.T) {
		f, id := setup(t)

		_, err := f.usecase.UpdateStatus(ctx, sessionFor(t, patient, constvars.RolePatient, ""), id, &requests.UpdateBookingStatus{
			Status: stringPtr(constvars.BookingStatusCancelled),
		})
		assert.True(t, exceptions.IsKind(err, exceptions.KindForbidden))
	})

	t.Run("Other Doctor Cannot Update", func(t *testing.T) {
		f, id := setup(t)

		_, err := f.usecase.UpdateStatus(ctx, sessionFor(t, "user-doc-2", constvars.RoleDoctor, "doctor-2"), id, &requests.UpdateBookingStatus{
			Diagnosis: stringPtr("flu"),
		})
		assert.True(t, exceptions.IsKind(err, exceptions.KindForbidden))
	})

	t.Run("Unknown Status", func(t *testing.T) {
		f, id := setup(t)

		_, err := f.usecase.UpdateStatus(ctx, sessionFor(t, "user-doc-1", constvars.RoleDoctor, "doctor-1"), id, &requests.UpdateBookingStatus{
			Status: stringPtr("archived"),
		})
		assert.True(t, exceptions.IsKind(err, exceptions.KindInvalidStatus))
	})

	t.Run("Doctor Cannot Move Back To Pending", func(t *testing.T) {
		f, id := setup(t)

		_, err := f.usecase.UpdateStatus(ctx, sessionFor(t, "user-doc-1", constvars.RoleDoctor, "doctor-1"), id, &requests.UpdateBookingStatus{
			Status: stringPtr(constvars.BookingStatusPending),
		})
		assert.True(t, exceptions.IsKind(err, exceptions.KindInvalidTransition))
	})

	t.Run("Missing Booking", func(t *testing.T) {
		f, _ := setup(t)

		_, err := f.usecase.UpdateStatus(ctx, sessionFor(t, "admin-1", constvars.RoleAdmin, ""), "65f0000000000000000000ff", &requests.UpdateBookingStatus{})
		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
	})

	t.Run("Absent Fields Do Not Clear", func(t *testing.T) {
		f, id := setup(t)
		doctor := sessionFor(t, "user-doc-1", constvars.RoleDoctor, "doctor-1")

		_, err := f.usecase.UpdateStatus(ctx, doctor, id, &requests.UpdateBookingStatus{
			Diagnosis:    stringPtr("migraine"),
			Prescription: stringPtr("ibuprofen"),
		})
		require.NoError(t, err)

		updated, err := f.usecase.UpdateStatus(ctx, doctor, id, &requests.UpdateBookingStatus{
			Notes: stringPtr("follow up in two weeks"),
		})
		require.NoError(t, err)
		assert.Equal(t, "migraine", updated.Diagnosis)
		assert.Equal(t, "ibuprofen", updated.Prescription)
		assert.Equal(t, "follow up in two weeks", updated.Notes)
		assert.Equal(t, constvars.BookingStatusConfirmed, updated.Status)

		stored, _ := f.repo.FindByID(ctx, id)
		assert.Equal(t, "migraine", stored.Diagnosis)
	})

	t.Run("Same Status Is A No-op", func(t *testing.T) {
		f, id := setup(t)
		activitiesBefore := len(f.notifier.activities)

		updated, err := f.usecase.UpdateStatus(ctx, sessionFor(t, "user-doc-1", constvars.RoleDoctor, "doctor-1"), id, &requests.UpdateBookingStatus{
			Status: stringPtr(constvars.BookingStatusConfirmed),
		})
		require.NoError(t, err)
		assert.Equal(t, constvars.BookingStatusConfirmed, updated.Status)
		assert.Len(t, f.notifier.activities, activitiesBefore)
	})

	t.Run("Doctor Cancel Emits Cancelled Activity", func(t *testing.T) {
		f, id := setup(t)

		updated, err := f.usecase.UpdateStatus(ctx, sessionFor(t, "user-doc-1", constvars.RoleDoctor, "doctor-1"), id, &requests.UpdateBookingStatus{
			Status: stringPtr(constvars.BookingStatusCancelled),
		})
		require.NoError(t, err)
		assert.Equal(t, "user-doc-1", updated.CancelledBy)
		assert.Equal(t, []string{constvars.ActivityTypeBookingCreated, constvars.ActivityTypeBookingCancelled}, f.notifier.types())
	})

	t.Run("Doctor Marks No Show", func(t *testing.T) {
		f, id := setup(t)

		updated, err := f.usecase.UpdateStatus(ctx, sessionFor(t, "user-doc-1", constvars.RoleDoctor, "doctor-1"), id, &requests.UpdateBookingStatus{
			Status: stringPtr(constvars.BookingStatusNoShow),
		})
		require.NoError(t, err)
		assert.Equal(t, constvars.BookingStatusNoShow, updated.Status)

		stored, _ := f.repo.FindByID(ctx, id)
		assert.False(t, stored.ActiveSlot)
	})

	t.Run("Doctor Adds Diagnosis After Completion", func(t *testing.T) {
		f, id := setup(t)
		doctor := sessionFor(t, "user-doc-1", constvars.RoleDoctor, "doctor-1")

		_, err := f.usecase.UpdateStatus(ctx, doctor, id, &requests.UpdateBookingStatus{Status: stringPtr(constvars.BookingStatusCompleted)})
		require.NoError(t, err)

		updated, err := f.usecase.UpdateStatus(ctx, doctor, id, &requests.UpdateBookingStatus{Diagnosis: stringPtr("resolved")})
		require.NoError(t, err)
		assert.Equal(t, "resolved", updated.Diagnosis)
		assert.Equal(t, constvars.BookingStatusCompleted, updated.Status)
	})

	t.Run("Admin Reopen Blocked When Slot Retaken", func(t *testing.T) {
		f, id := setup(t)
		admin := sessionFor(t, "admin-1", constvars.RoleAdmin, "")

		_, err := f.usecase.CancelBooking(ctx, sessionFor(t, patient, constvars.RolePatient, ""), id, nil)
		require.NoError(t, err)
		_, err = f.usecase.CreateBooking(ctx, sessionFor(t, "patient-2", constvars.RolePatient, ""), createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)

		_, err = f.usecase.UpdateStatus(ctx, admin, id, &requests.UpdateBookingStatus{Status: stringPtr(constvars.BookingStatusConfirmed)})
		assert.True(t, exceptions.IsKind(err, exceptions.KindConflict))
	})

	t.Run("Admin Reopens Free Slot", func(t *testing.T) {
		f, id := setup(t)
		admin := sessionFor(t, "admin-1", constvars.RoleAdmin, "")

		_, err := f.usecase.CancelBooking(ctx, sessionFor(t, patient, constvars.RolePatient, ""), id, nil)
		require.NoError(t, err)

		reopened, err := f.usecase.UpdateStatus(ctx, admin, id, &requests.UpdateBookingStatus{Status: stringPtr(constvars.BookingStatusPending)})
		require.NoError(t, err)
		assert.Equal(t, constvars.BookingStatusPending, reopened.Status)
		assert.Nil(t, reopened.CancelledAt)
	})
}

func TestBookingUsecase_CancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("Stranger Cannot Cancel", func(t *testing.T) {
		f := newUsecaseFixture()
		created, err := f.usecase.CreateBooking(ctx, sessionFor(t, "patient-1", constvars.RolePatient, ""), createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)

		_, err = f.usecase.CancelBooking(ctx, sessionFor(t, "patient-2", constvars.RolePatient, ""), created.ID, nil)
		assert.True(t, exceptions.IsKind(err, exceptions.KindForbidden))
	})

	t.Run("Reason Becomes Notes", func(t *testing.T) {
		f := newUsecaseFixture()
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")
		created, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)

		cancelled, err := f.usecase.CancelBooking(ctx, patient, created.ID, &requests.CancelBooking{Reason: "  travelling  "})
		require.NoError(t, err)
		assert.Equal(t, "travelling", cancelled.Notes)
		assert.NotNil(t, cancelled.CancelledAt)
	})

	t.Run("Cancelling Twice Is Rejected For Patient", func(t *testing.T) {
		f := newUsecaseFixture()
		patient := sessionFor(t, "patient-1", constvars.RolePatient, "")
		created, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
		require.NoError(t, err)

		_, err = f.usecase.CancelBooking(ctx, patient, created.ID, nil)
		require.NoError(t, err)
		_, err = f.usecase.CancelBooking(ctx, patient, created.ID, nil)
		assert.True(t, exceptions.IsKind(err, exceptions.KindInvalidTransition))
	})

	t.Run("Repository Failure Surfaces", func(t *testing.T) {
		f := newUsecaseFixture()
		f.repo.findErr = exceptions.ErrMongoDBFindDocument(errors.New("server selection timeout"))

		_, err := f.usecase.CancelBooking(ctx, sessionFor(t, "admin-1", constvars.RoleAdmin, ""), "65f000000000000000000001", nil)
		assert.True(t, exceptions.IsKind(err, exceptions.KindInternal))
	})
}

func TestBookingUsecase_Listing(t *testing.T) {
	ctx := context.Background()
	f := newUsecaseFixture()

	patient1 := sessionFor(t, "patient-1", constvars.RolePatient, "")
	patient2 := sessionFor(t, "patient-2", constvars.RolePatient, "")
	doctor1 := sessionFor(t, "user-doc-1", constvars.RoleDoctor, "doctor-1")
	superuser := sessionFor(t, constvars.APIKeySuperuserUserID, constvars.RoleSuperuser, "")

	for _, slot := range []struct{ doctor, date, time, session string }{
		{"doctor-1", "2025-06-01", "09:00", patient1},
		{"doctor-1", "2025-06-01", "10:00", patient1},
		{"doctor-2", "2025-06-01", "09:00", patient1},
		{"doctor-1", "2025-06-02", "09:00", patient2},
	} {
		_, err := f.usecase.CreateBooking(ctx, slot.session, createRequest(slot.doctor, slot.date, slot.time))
		require.NoError(t, err)
	}

	t.Run("Patient Lists Own", func(t *testing.T) {
		list, err := f.usecase.FindByPatientID(ctx, patient1, "patient-1", requests.Pagination{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, list.Bookings, 2)
		assert.Equal(t, 3, list.Pagination.Total)
		assert.Equal(t, 2, list.Pagination.Pages)
	})

	t.Run("Patient Cannot List Others", func(t *testing.T) {
		_, err := f.usecase.FindByPatientID(ctx, patient2, "patient-1", requests.Pagination{Page: 1, Limit: 10})
		assert.True(t, exceptions.IsKind(err, exceptions.KindForbidden))
	})

	t.Run("Doctor Lists Own By Date", func(t *testing.T) {
		list, err := f.usecase.FindByDoctorID(ctx, doctor1, "doctor-1", requests.BookingFilter{Date: "2025-06-01"}, requests.Pagination{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, list.Bookings, 2)
		for _, booking := range list.Bookings {
			assert.Equal(t, "doctor-1", booking.DoctorID)
			assert.Equal(t, "2025-06-01", booking.AppointmentDateString())
		}
	})

	t.Run("Doctor Cannot List Other Doctor", func(t *testing.T) {
		_, err := f.usecase.FindByDoctorID(ctx, doctor1, "doctor-2", requests.BookingFilter{}, requests.Pagination{Page: 1, Limit: 10})
		assert.True(t, exceptions.IsKind(err, exceptions.KindForbidden))
	})

	t.Run("Doctor Cannot List All", func(t *testing.T) {
		_, err := f.usecase.FindAll(ctx, doctor1, requests.BookingFilter{}, requests.Pagination{Page: 1, Limit: 10})
		assert.True(t, exceptions.IsKind(err, exceptions.KindForbidden))
	})

	t.Run("Superuser Lists All", func(t *testing.T) {
		list, err := f.usecase.FindAll(ctx, superuser, requests.BookingFilter{}, requests.Pagination{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, list.Bookings, 4)
		assert.Equal(t, 1, list.Pagination.Pages)
	})

	t.Run("Invalid Status Filter", func(t *testing.T) {
		_, err := f.usecase.FindAll(ctx, superuser, requests.BookingFilter{Status: "archived"}, requests.Pagination{Page: 1, Limit: 10})
		assert.True(t, exceptions.IsKind(err, exceptions.KindInvalidStatus))
	})

	t.Run("Availability", func(t *testing.T) {
		taken, err := f.usecase.CheckAvailability(ctx, patient2, &requests.CheckAvailability{DoctorID: "doctor-1", AppointmentDate: "2025-06-01", AppointmentTime: "09:00"})
		require.NoError(t, err)
		assert.False(t, taken.Available)

		free, err := f.usecase.CheckAvailability(ctx, patient2, &requests.CheckAvailability{DoctorID: "doctor-1", AppointmentDate: "2025-06-01", AppointmentTime: "11:00"})
		require.NoError(t, err)
		assert.True(t, free.Available)
		assert.Equal(t, "2025-06-01", free.AppointmentDate)

		_, err = f.usecase.CheckAvailability(ctx, patient2, &requests.CheckAvailability{DoctorID: "doctor-404", AppointmentDate: "2025-06-01", AppointmentTime: "11:00"})
		assert.True(t, exceptions.IsKind(err, exceptions.KindNotFound))
	})
}

func TestBookingUsecase_ExportBookings(t *testing.T) {
	ctx := context.Background()
	f := newUsecaseFixture()
	patient := sessionFor(t, "patient-1", constvars.RolePatient, "")
	admin := sessionFor(t, "admin-1", constvars.RoleAdmin, "")

	first, err := f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "09:00"))
	require.NoError(t, err)
	_, err = f.usecase.CreateBooking(ctx, patient, createRequest("doctor-1", "2025-06-01", "10:00"))
	require.NoError(t, err)
	_, err = f.usecase.CancelBooking(ctx, patient, first.ID, nil)
	require.NoError(t, err)

	t.Run("Patient Cannot Export", func(t *testing.T) {
		_, err := f.usecase.ExportBookings(ctx, patient, requests.BookingFilter{}, "")
		assert.True(t, exceptions.IsKind(err, exceptions.KindForbidden))
	})

	t.Run("Admin Exports Filtered CSV", func(t *testing.T) {
		export, err := f.usecase.ExportBookings(ctx, admin, requests.BookingFilter{Status: constvars.BookingStatusCancelled}, "")
		require.NoError(t, err)
		assert.Equal(t, 1, export.Total)
		assert.Equal(t, constvars.ExportFormatCSV, export.Format)
		assert.Equal(t, "exports/bookings_20250520_083000.000000000.csv", export.ObjectName)
		assert.Contains(t, export.URL, "booking-exports/exports/bookings_")
		assert.Equal(t, constvars.MIMETextCSV, f.storage.contentType)

		data := f.storage.objects["booking-exports/"+export.ObjectName]
		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, bookingExportHeader, records[0])
		assert.Equal(t, first.ID, records[1][0])
		assert.Equal(t, constvars.BookingStatusCancelled, records[1][7])
		assert.Equal(t, "150.00", records[1][8])
	})

	t.Run("Admin Exports XLSX", func(t *testing.T) {
		export, err := f.usecase.ExportBookings(ctx, admin, requests.BookingFilter{}, "XLSX")
		require.NoError(t, err)
		assert.Equal(t, 2, export.Total)
		assert.Equal(t, "exports/bookings_20250520_083000.000000000.xlsx", export.ObjectName)
		assert.Equal(t, constvars.MIMEApplicationXLSX, f.storage.contentType)

		workbook, err := excelize.OpenReader(bytes.NewReader(f.storage.objects["booking-exports/"+export.ObjectName]))
		require.NoError(t, err)
		defer workbook.Close()

		rows, err := workbook.GetRows(constvars.BookingExportSheetName)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, bookingExportHeader, rows[0])
		assert.Equal(t, "doctor-1", rows[1][3])
	})

	t.Run("Unsupported Format", func(t *testing.T) {
		_, err := f.usecase.ExportBookings(ctx, admin, requests.BookingFilter{}, "pdf")
		assert.True(t, exceptions.IsKind(err, exceptions.KindValidation))
	})

	t.Run("Upload Failure Surfaces", func(t *testing.T) {
		f.storage.uploadErr = exceptions.ErrMinioCreateObject(errors.New("bucket missing"), "booking-exports")
		defer func() { f.storage.uploadErr = nil }()

		_, err := f.usecase.ExportBookings(ctx, admin, requests.BookingFilter{}, constvars.ExportFormatCSV)
		assert.True(t, exceptions.IsKind(err, exceptions.KindInternal))
	})
}
