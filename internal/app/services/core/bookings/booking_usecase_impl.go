package bookings

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/app/services/core/access"
	"medibook-service/internal/app/services/shared/metrics"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const unlockTimeout = 2 * time.Second

var (
	bookingUsecaseInstance contracts.BookingUsecase
	onceBookingUsecase     sync.Once
)

type bookingUsecase struct {
	BookingRepository   contracts.BookingRepository
	DoctorRepository    contracts.DoctorRepository
	UserRepository      contracts.UserRepository
	AvailabilityChecker contracts.SlotAvailabilityChecker
	SessionService      contracts.SessionService
	LockerService       contracts.LockerService
	ActivityNotifier    contracts.ActivityNotifier
	CreateRateLimiter   contracts.ActorRateLimiter
	Storage             contracts.Storage
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
	now                 func() time.Time
}

func NewBookingUsecase(
	bookingRepository contracts.BookingRepository,
	doctorRepository contracts.DoctorRepository,
	userRepository contracts.UserRepository,
	availabilityChecker contracts.SlotAvailabilityChecker,
	sessionService contracts.SessionService,
	lockerService contracts.LockerService,
	activityNotifier contracts.ActivityNotifier,
	createRateLimiter contracts.ActorRateLimiter,
	storage contracts.Storage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.BookingUsecase {
	onceBookingUsecase.Do(func() {
		bookingUsecaseInstance = &bookingUsecase{
			BookingRepository:   bookingRepository,
			DoctorRepository:    doctorRepository,
			UserRepository:      userRepository,
			AvailabilityChecker: availabilityChecker,
			SessionService:      sessionService,
			LockerService:       lockerService,
			ActivityNotifier:    activityNotifier,
			CreateRateLimiter:   createRateLimiter,
			Storage:             storage,
			InternalConfig:      internalConfig,
			Log:                 logger,
			now:                 time.Now,
		}
	})
	return bookingUsecaseInstance
}

func (uc *bookingUsecase) CreateBooking(ctx context.Context, sessionData string, request *requests.CreateBooking) (*responses.Booking, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.CreateBooking called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
	)

	actor, err := uc.resolveActor(ctx, sessionData)
	if err != nil {
		return nil, err
	}

	if !access.CanAccess(actor, access.PatientTarget(actor.UserID), access.OperationCreate) {
		uc.logAccessDenied(requestID, actor, access.OperationCreate)
		return nil, exceptions.ErrAccessDenied(string(access.OperationCreate))
	}

	if !uc.CreateRateLimiter.Allow(actor.UserID) {
		uc.Log.Warn("bookingUsecase.CreateBooking throttled",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingActorIDKey, actor.UserID),
		)
		return nil, exceptions.ErrTooManyBookingRequests(actor.UserID)
	}

	appointmentDate, err := utils.ParseAppointmentDate(request.AppointmentDate)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}
	appointmentTime := strings.TrimSpace(request.AppointmentTime)
	dateString := appointmentDate.Format(constvars.DateLayoutISO)

	doctor, err := uc.DoctorRepository.FindByID(ctx, request.DoctorID)
	if err != nil {
		uc.Log.Error("bookingUsecase.CreateBooking error calling DoctorRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(request.DoctorID)
	}

	lockKey := fmt.Sprintf(constvars.BookingSlotLockKeyFormat, doctor.ID, dateString, appointmentTime)
	release, err := uc.acquireSlotLock(ctx, lockKey)
	if err != nil {
		return nil, err
	}
	defer release()

	available, err := uc.AvailabilityChecker.IsAvailable(ctx, doctor.ID, appointmentDate, appointmentTime)
	if err != nil {
		return nil, err
	}
	if !available {
		uc.Log.Info("bookingUsecase.CreateBooking slot already booked",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctor.ID),
			zap.String(constvars.LoggingAppointmentDateKey, dateString),
			zap.String(constvars.LoggingAppointmentTimeKey, appointmentTime),
		)
		metrics.IncSlotConflict()
		return nil, exceptions.ErrSlotAlreadyBooked(nil, doctor.ID, dateString, appointmentTime)
	}

	patient, err := uc.UserRepository.FindByID(ctx, actor.UserID)
	if err != nil {
		uc.Log.Error("bookingUsecase.CreateBooking error calling UserRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.ErrPatientNotFound(actor.UserID)
	}

	now := uc.now().UTC()
	reference, err := utils.GenerateBookingReference(now)
	if err != nil {
		return nil, exceptions.ErrServerProcess(err)
	}

	booking := &models.Booking{
		BookingReference: reference,
		PatientID:        actor.UserID,
		DoctorID:         doctor.ID,
		ClinicID:         firstNonEmpty(request.ClinicID, doctor.ClinicID),
		AppointmentDate:  appointmentDate,
		AppointmentTime:  appointmentTime,
		Symptoms:         request.Symptoms,
		ReasonForVisit:   request.ReasonForVisit,
		ConsultationFee:  doctor.ConsultationFee,
		PaymentMethod:    firstNonEmpty(strings.TrimSpace(request.PaymentMethod), constvars.BookingDefaultPaymentMethod),
		PatientDetails:   mergePatientDetails(request.PatientDetails, patient),
		TimeModel: models.TimeModel{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	booking.SetStatus(constvars.BookingStatusConfirmed)

	bookingID, err := uc.BookingRepository.CreateBooking(ctx, booking)
	if err != nil {
		uc.Log.Error("bookingUsecase.CreateBooking error calling BookingRepository.CreateBooking",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		if exceptions.IsKind(err, exceptions.KindConflict) {
			metrics.IncSlotConflict()
		}
		return nil, err
	}
	booking.ID = bookingID
	metrics.IncBookingCreated()

	uc.ActivityNotifier.Notify(ctx, &models.Activity{
		Type:        constvars.ActivityTypeBookingCreated,
		Message:     fmt.Sprintf("Booking %s created with %s on %s at %s", booking.BookingReference, doctor.Name, dateString, appointmentTime),
		Actor:       actor.UserID,
		TargetID:    booking.ID,
		TargetModel: constvars.ActivityTargetModelBooking,
		CreatedAt:   now,
	})

	uc.Log.Info("bookingUsecase.CreateBooking succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, booking.ID),
		zap.String(constvars.LoggingBookingReferenceKey, booking.BookingReference),
	)
	return buildBookingResponse(booking, doctor, patient), nil
}

func (uc *bookingUsecase) FindByID(ctx context.Context, sessionData string, bookingID string) (*responses.Booking, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)

	actor, err := uc.resolveActor(ctx, sessionData)
	if err != nil {
		return nil, err
	}

	booking, err := uc.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !access.CanAccess(actor, access.BookingTarget(booking), access.OperationRead) {
		uc.logAccessDenied(requestID, actor, access.OperationRead)
		return nil, exceptions.ErrAccessDenied(string(access.OperationRead))
	}

	uc.Log.Info("bookingUsecase.FindByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)
	return uc.enrichBooking(ctx, booking), nil
}

func (uc *bookingUsecase) FindAll(ctx context.Context, sessionData string, filter requests.BookingFilter, pagination requests.Pagination) (*responses.BookingList, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingStatusKey, filter.Status),
	)

	actor, err := uc.resolveActor(ctx, sessionData)
	if err != nil {
		return nil, err
	}

	if !access.CanAccess(actor, access.Target{}, access.OperationListAll) {
		uc.logAccessDenied(requestID, actor, access.OperationListAll)
		return nil, exceptions.ErrAccessDenied(string(access.OperationListAll))
	}

	return uc.listBookings(ctx, "bookingUsecase.FindAll", filter, pagination)
}

func (uc *bookingUsecase) FindByPatientID(ctx context.Context, sessionData string, patientID string, pagination requests.Pagination) (*responses.BookingList, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.FindByPatientID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	actor, err := uc.resolveActor(ctx, sessionData)
	if err != nil {
		return nil, err
	}

	if !access.CanAccess(actor, access.PatientTarget(patientID), access.OperationListPatient) {
		uc.logAccessDenied(requestID, actor, access.OperationListPatient)
		return nil, exceptions.ErrAccessDenied(string(access.OperationListPatient))
	}

	return uc.listBookings(ctx, "bookingUsecase.FindByPatientID", requests.BookingFilter{PatientID: patientID}, pagination)
}

func (uc *bookingUsecase) FindByDoctorID(ctx context.Context, sessionData string, doctorID string, filter requests.BookingFilter, pagination requests.Pagination) (*responses.BookingList, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.FindByDoctorID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	actor, err := uc.resolveActor(ctx, sessionData)
	if err != nil {
		return nil, err
	}

	if !access.CanAccess(actor, access.DoctorTarget(doctorID), access.OperationListDoctor) {
		uc.logAccessDenied(requestID, actor, access.OperationListDoctor)
		return nil, exceptions.ErrAccessDenied(string(access.OperationListDoctor))
	}

	filter.PatientID = ""
	filter.DoctorID = doctorID
	return uc.listBookings(ctx, "bookingUsecase.FindByDoctorID", filter, pagination)
}

func (uc *bookingUsecase) UpdateStatus(ctx context.Context, sessionData string, bookingID string, request *requests.UpdateBookingStatus) (*responses.Booking, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.UpdateStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)

	actor, err := uc.resolveActor(ctx, sessionData)
	if err != nil {
		return nil, err
	}

	booking, err := uc.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !access.CanAccess(actor, access.BookingTarget(booking), access.OperationUpdate) {
		uc.logAccessDenied(requestID, actor, access.OperationUpdate)
		return nil, exceptions.ErrAccessDenied(string(access.OperationUpdate))
	}

	now := uc.now().UTC()
	previousStatus := booking.Status
	statusChanged := false
	if request.Status != nil {
		status := strings.TrimSpace(*request.Status)
		if !models.IsValidBookingStatus(status) {
			return nil, exceptions.ErrInvalidBookingStatus(status)
		}

		if CanTransition(booking.Status, status, actor) {
			err = uc.ensureSlotFreeForReactivation(ctx, booking, status)
			if err != nil {
				return nil, err
			}
		}

		statusChanged, err = ApplyTransition(booking, status, actor, now)
		if err != nil {
			uc.Log.Info("bookingUsecase.UpdateStatus transition rejected",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingBookingIDKey, bookingID),
				zap.String(constvars.LoggingActorRoleKey, string(actor.Role)),
				zap.Error(err),
			)
			return nil, err
		}
	}

	clinicalChanged := applyClinicalFields(booking, request)
	if !statusChanged && !clinicalChanged {
		uc.Log.Info("bookingUsecase.UpdateStatus nothing to change",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingIDKey, bookingID),
		)
		return uc.enrichBooking(ctx, booking), nil
	}

	booking.UpdatedAt = now
	err = uc.BookingRepository.UpdateBooking(ctx, booking)
	if err != nil {
		uc.Log.Error("bookingUsecase.UpdateStatus error calling BookingRepository.UpdateBooking",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	activityType := constvars.ActivityTypeBookingStatusUpdated
	message := fmt.Sprintf("Booking %s updated", booking.BookingReference)
	if statusChanged {
		message = fmt.Sprintf("Booking %s changed from %s to %s", booking.BookingReference, previousStatus, booking.Status)
		metrics.IncStatusTransition(previousStatus, booking.Status)
		if booking.Status == constvars.BookingStatusCancelled {
			activityType = constvars.ActivityTypeBookingCancelled
			metrics.IncBookingCancelled(string(actor.Role))
		}
	}
	uc.ActivityNotifier.Notify(ctx, &models.Activity{
		Type:        activityType,
		Message:     message,
		Actor:       actor.UserID,
		TargetID:    booking.ID,
		TargetModel: constvars.ActivityTargetModelBooking,
		CreatedAt:   now,
	})

	uc.Log.Info("bookingUsecase.UpdateStatus succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
		zap.String(constvars.LoggingBookingStatusKey, booking.Status),
	)
	return uc.enrichBooking(ctx, booking), nil
}

func (uc *bookingUsecase) CancelBooking(ctx context.Context, sessionData string, bookingID string, request *requests.CancelBooking) (*responses.Booking, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.CancelBooking called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)

	actor, err := uc.resolveActor(ctx, sessionData)
	if err != nil {
		return nil, err
	}

	booking, err := uc.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !access.CanAccess(actor, access.BookingTarget(booking), access.OperationCancel) {
		uc.logAccessDenied(requestID, actor, access.OperationCancel)
		return nil, exceptions.ErrAccessDenied(string(access.OperationCancel))
	}

	now := uc.now().UTC()
	previousStatus := booking.Status
	changed, err := ApplyTransition(booking, constvars.BookingStatusCancelled, actor, now)
	if err != nil {
		uc.Log.Info("bookingUsecase.CancelBooking transition rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingIDKey, bookingID),
			zap.String(constvars.LoggingBookingStatusKey, booking.Status),
			zap.Error(err),
		)
		return nil, err
	}
	if !changed {
		return uc.enrichBooking(ctx, booking), nil
	}

	reason := ""
	if request != nil {
		reason = strings.TrimSpace(request.Reason)
	}
	booking.Notes = firstNonEmpty(reason, constvars.BookingDefaultCancelNote)
	booking.UpdatedAt = now

	err = uc.BookingRepository.UpdateBooking(ctx, booking)
	if err != nil {
		uc.Log.Error("bookingUsecase.CancelBooking error calling BookingRepository.UpdateBooking",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.IncStatusTransition(previousStatus, booking.Status)
	metrics.IncBookingCancelled(string(actor.Role))

	uc.ActivityNotifier.Notify(ctx, &models.Activity{
		Type:        constvars.ActivityTypeBookingCancelled,
		Message:     fmt.Sprintf("Booking %s cancelled: %s", booking.BookingReference, booking.Notes),
		Actor:       actor.UserID,
		TargetID:    booking.ID,
		TargetModel: constvars.ActivityTargetModelBooking,
		CreatedAt:   now,
	})

	uc.Log.Info("bookingUsecase.CancelBooking succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)
	return uc.enrichBooking(ctx, booking), nil
}

func (uc *bookingUsecase) CheckAvailability(ctx context.Context, sessionData string, request *requests.CheckAvailability) (*responses.SlotAvailability, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.CheckAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
	)

	actor, err := uc.resolveActor(ctx, sessionData)
	if err != nil {
		return nil, err
	}

	if !access.CanAccess(actor, access.DoctorTarget(request.DoctorID), access.OperationCheckAvailability) {
		uc.logAccessDenied(requestID, actor, access.OperationCheckAvailability)
		return nil, exceptions.ErrAccessDenied(string(access.OperationCheckAvailability))
	}

	appointmentDate, err := utils.ParseAppointmentDate(request.AppointmentDate)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}
	appointmentTime := strings.TrimSpace(request.AppointmentTime)

	doctor, err := uc.DoctorRepository.FindByID(ctx, request.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, exceptions.ErrDoctorNotFound(request.DoctorID)
	}

	available, err := uc.AvailabilityChecker.IsAvailable(ctx, doctor.ID, appointmentDate, appointmentTime)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("bookingUsecase.CheckAvailability succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool(constvars.LoggingSlotAvailableKey, available),
	)
	return &responses.SlotAvailability{
		DoctorID:        doctor.ID,
		AppointmentDate: appointmentDate.Format(constvars.DateLayoutISO),
		AppointmentTime: appointmentTime,
		Available:       available,
	}, nil
}

func (uc *bookingUsecase) resolveActor(ctx context.Context, sessionData string) (access.Actor, error) {
	session, err := uc.SessionService.ParseSessionData(ctx, sessionData)
	if err != nil {
		return access.Actor{}, err
	}
	return access.ActorFromSession(session), nil
}

func (uc *bookingUsecase) loadBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := uc.BookingRepository.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, exceptions.ErrBookingNotFound(bookingID)
	}
	return booking, nil
}

func (uc *bookingUsecase) listBookings(ctx context.Context, caller string, filter requests.BookingFilter, pagination requests.Pagination) (*responses.BookingList, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if filter.Status != "" && !models.IsValidBookingStatus(filter.Status) {
		return nil, exceptions.ErrInvalidBookingStatus(filter.Status)
	}

	bookings, total, err := uc.BookingRepository.FindAll(ctx, filter, pagination)
	if err != nil {
		uc.Log.Error(caller+" error calling BookingRepository.FindAll",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	uc.Log.Info(caller+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64(constvars.LoggingTotalKey, total),
	)
	return &responses.BookingList{
		Bookings:   bookings,
		Pagination: *utils.BuildPaginationResponse(total, pagination.Page, pagination.Limit),
	}, nil
}

// acquireSlotLock takes the advisory slot lock. A lock held by another request
// is a conflict; a Redis failure only downgrades to the index-backed path.
func (uc *bookingUsecase) acquireSlotLock(ctx context.Context, lockKey string) (func(), error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	expiration := time.Duration(uc.InternalConfig.Booking.SlotLockExpiryInSeconds) * time.Second

	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, expiration)
	if err != nil {
		uc.Log.Warn("bookingUsecase.acquireSlotLock continuing without slot lock",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, lockKey),
			zap.Error(err),
		)
		return func() {}, nil
	}
	if !acquired {
		return nil, exceptions.ErrSlotLockHeld(lockKey)
	}

	return func() {
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
		defer cancel()
		unlockErr := uc.LockerService.Unlock(unlockCtx, lockKey, lockValue)
		if unlockErr != nil {
			uc.Log.Warn("bookingUsecase.acquireSlotLock error releasing slot lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, lockKey),
				zap.Error(unlockErr),
			)
		}
	}, nil
}

// ensureSlotFreeForReactivation guards administrative moves from a terminal
// status back into an active one.
func (uc *bookingUsecase) ensureSlotFreeForReactivation(ctx context.Context, booking *models.Booking, status string) error {
	if booking.IsActive() || !models.IsActiveBookingStatus(status) {
		return nil
	}

	available, err := uc.AvailabilityChecker.IsAvailable(ctx, booking.DoctorID, booking.AppointmentDate, booking.AppointmentTime)
	if err != nil {
		return err
	}
	if !available {
		metrics.IncSlotConflict()
		return exceptions.ErrSlotAlreadyBooked(nil, booking.DoctorID, booking.AppointmentDateString(), booking.AppointmentTime)
	}
	return nil
}

// enrichBooking attaches doctor and patient summaries. Lookup failures only
// drop the summary.
func (uc *bookingUsecase) enrichBooking(ctx context.Context, booking *models.Booking) *responses.Booking {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	doctor, err := uc.DoctorRepository.FindByID(ctx, booking.DoctorID)
	if err != nil {
		uc.Log.Warn("bookingUsecase.enrichBooking error calling DoctorRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	patient, err := uc.UserRepository.FindByID(ctx, booking.PatientID)
	if err != nil {
		uc.Log.Warn("bookingUsecase.enrichBooking error calling UserRepository.FindByID",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	return buildBookingResponse(booking, doctor, patient)
}

func (uc *bookingUsecase) logAccessDenied(requestID string, actor access.Actor, operation access.Operation) {
	uc.Log.Warn("bookingUsecase access denied",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingActorIDKey, actor.UserID),
		zap.String(constvars.LoggingActorRoleKey, string(actor.Role)),
		zap.String("operation", string(operation)),
	)
}

func applyClinicalFields(booking *models.Booking, request *requests.UpdateBookingStatus) bool {
	changed := false
	if request.Diagnosis != nil && *request.Diagnosis != booking.Diagnosis {
		booking.Diagnosis = *request.Diagnosis
		changed = true
	}
	if request.Prescription != nil && *request.Prescription != booking.Prescription {
		booking.Prescription = *request.Prescription
		changed = true
	}
	if request.Notes != nil && *request.Notes != booking.Notes {
		booking.Notes = *request.Notes
		changed = true
	}
	return changed
}

// mergePatientDetails prefers submitted values and falls back to the stored profile per field.
func mergePatientDetails(submitted *requests.PatientDetails, patient *models.User) models.PatientDetails {
	details := models.PatientDetails{
		Name:  patient.Name,
		Email: patient.Email,
		Phone: patient.Phone,
	}
	if submitted == nil {
		return details
	}
	details.Name = firstNonEmpty(strings.TrimSpace(submitted.Name), details.Name)
	details.Email = firstNonEmpty(strings.TrimSpace(submitted.Email), details.Email)
	details.Phone = firstNonEmpty(strings.TrimSpace(submitted.Phone), details.Phone)
	return details
}

func buildBookingResponse(booking *models.Booking, doctor *models.Doctor, patient *models.User) *responses.Booking {
	response := &responses.Booking{Booking: *booking}
	if doctor != nil {
		response.DoctorSummary = &responses.DoctorSummary{
			ID:              doctor.ID,
			Name:            doctor.Name,
			Specialization:  doctor.Specialization,
			ConsultationFee: doctor.ConsultationFee,
		}
	}
	if patient != nil {
		response.PatientSummary = &responses.PatientSummary{
			ID:    patient.ID,
			Name:  patient.Name,
			Email: patient.Email,
			Phone: patient.Phone,
		}
	}
	return response
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
