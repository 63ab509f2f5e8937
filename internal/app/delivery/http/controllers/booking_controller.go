package controllers

import (
	"context"
	"errors"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingController struct {
	Log            *zap.Logger
	BookingUsecase contracts.BookingUsecase
	InternalConfig *config.InternalConfig
}

func NewBookingController(logger *zap.Logger, bookingUsecase contracts.BookingUsecase, internalConfig *config.InternalConfig) *BookingController {
	return &BookingController{
		Log:            logger,
		BookingUsecase: bookingUsecase,
		InternalConfig: internalConfig,
	}
}

func (ctrl *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("BookingController.CreateBooking called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.CreateBooking)
	err := utils.DecodeJSONRequest(r.Body, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	result, err := ctrl.BookingUsecase.CreateBooking(ctx, sessionDataFrom(r), request)
	if err != nil {
		ctrl.handleUsecaseError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateBookingSuccessMessage, result)
}

func (ctrl *BookingController) FindByID(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	bookingID := chi.URLParam(r, constvars.URLParamBookingID)
	ctrl.Log.Info("BookingController.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	result, err := ctrl.BookingUsecase.FindByID(ctx, sessionDataFrom(r), bookingID)
	if err != nil {
		ctrl.handleUsecaseError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBookingSuccessMessage, result)
}

// FindAll serves the administrative listing; filters are status and date.
func (ctrl *BookingController) FindAll(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("BookingController.FindAll called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryParamsKey, r.URL.RawQuery),
	)

	filter, err := utils.BuildBookingFilterRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	pagination := utils.BuildPaginationRequest(r)

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	result, err := ctrl.BookingUsecase.FindAll(ctx, sessionDataFrom(r), *filter, *pagination)
	if err != nil {
		ctrl.handleUsecaseError(w, err)
		return
	}

	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.GetBookingsSuccessMessage, &result.Pagination, result.Bookings)
}

func (ctrl *BookingController) FindByPatientID(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	patientID := chi.URLParam(r, constvars.URLParamUserID)
	ctrl.Log.Info("BookingController.FindByPatientID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	pagination := utils.BuildPaginationRequest(r)

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	result, err := ctrl.BookingUsecase.FindByPatientID(ctx, sessionDataFrom(r), patientID, *pagination)
	if err != nil {
		ctrl.handleUsecaseError(w, err)
		return
	}

	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.GetBookingsSuccessMessage, &result.Pagination, result.Bookings)
}

func (ctrl *BookingController) FindByDoctorID(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	doctorID := chi.URLParam(r, constvars.URLParamDoctorID)
	ctrl.Log.Info("BookingController.FindByDoctorID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
	)

	filter, err := utils.BuildBookingFilterRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	pagination := utils.BuildPaginationRequest(r)

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	result, err := ctrl.BookingUsecase.FindByDoctorID(ctx, sessionDataFrom(r), doctorID, *filter, *pagination)
	if err != nil {
		ctrl.handleUsecaseError(w, err)
		return
	}

	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.GetBookingsSuccessMessage, &result.Pagination, result.Bookings)
}

func (ctrl *BookingController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	bookingID := chi.URLParam(r, constvars.URLParamBookingID)
	ctrl.Log.Info("BookingController.UpdateStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)

	request := new(requests.UpdateBookingStatus)
	err := utils.DecodeJSONRequest(r.Body, request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	result, err := ctrl.BookingUsecase.UpdateStatus(ctx, sessionDataFrom(r), bookingID, request)
	if err != nil {
		ctrl.handleUsecaseError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.UpdateBookingStatusSuccessMessage, result)
}

// CancelBooking accepts an optional {"reason": "..."} body.
func (ctrl *BookingController) CancelBooking(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	bookingID := chi.URLParam(r, constvars.URLParamBookingID)
	ctrl.Log.Info("BookingController.CancelBooking called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)

	request := new(requests.CancelBooking)
	if r.ContentLength > 0 {
		err := utils.DecodeJSONRequest(r.Body, request)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}

		err = utils.ValidateStruct(request)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
			return
		}
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	result, err := ctrl.BookingUsecase.CancelBooking(ctx, sessionDataFrom(r), bookingID, request)
	if err != nil {
		ctrl.handleUsecaseError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CancelBookingSuccessMessage, result)
}

func (ctrl *BookingController) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	query := r.URL.Query()
	request := &requests.CheckAvailability{
		DoctorID:        strings.TrimSpace(query.Get(constvars.QueryParamDoctorID)),
		AppointmentDate: strings.TrimSpace(query.Get(constvars.QueryParamDate)),
		AppointmentTime: strings.TrimSpace(query.Get(constvars.QueryParamTime)),
	}
	ctrl.Log.Info("BookingController.CheckAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
	)

	err := utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	result, err := ctrl.BookingUsecase.CheckAvailability(ctx, sessionDataFrom(r), request)
	if err != nil {
		ctrl.handleUsecaseError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CheckAvailabilitySuccessMessage, result)
}

func (ctrl *BookingController) ExportBookings(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	ctrl.Log.Info("BookingController.ExportBookings called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueryParamsKey, r.URL.RawQuery),
	)

	filter, err := utils.BuildBookingFilterRequest(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := ctrl.requestContext(r)
	defer cancel()

	format := r.URL.Query().Get(constvars.QueryParamFormat)
	result, err := ctrl.BookingUsecase.ExportBookings(ctx, sessionDataFrom(r), *filter, format)
	if err != nil {
		ctrl.handleUsecaseError(w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ExportBookingsSuccessMessage, result)
}

func (ctrl *BookingController) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

func (ctrl *BookingController) handleUsecaseError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(ctrl.Log, w, err)
}

func sessionDataFrom(r *http.Request) string {
	sessionData, _ := r.Context().Value(constvars.CONTEXT_SESSION_DATA_KEY).(string)
	return sessionData
}
