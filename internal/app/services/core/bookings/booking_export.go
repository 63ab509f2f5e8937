package bookings

import (
	"bytes"
	"context"
	"encoding/csv"
	"medibook-service/internal/app/models"
	"medibook-service/internal/app/services/core/access"
	"medibook-service/internal/app/services/shared/metrics"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var bookingExportHeader = []string{
	"id",
	"bookingReference",
	"patient",
	"doctor",
	"clinic",
	"appointmentDate",
	"appointmentTime",
	"status",
	"consultationFee",
	"paymentMethod",
	"patientName",
	"patientEmail",
	"patientPhone",
	"createdAt",
	"completedAt",
	"cancelledAt",
	"cancelledBy",
}

func (uc *bookingUsecase) ExportBookings(ctx context.Context, sessionData string, filter requests.BookingFilter, format string) (*responses.BookingExport, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.ExportBookings called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingStatusKey, filter.Status),
		zap.String(constvars.LoggingExportFormatKey, format),
	)

	actor, err := uc.resolveActor(ctx, sessionData)
	if err != nil {
		return nil, err
	}

	if !access.CanAccess(actor, access.Target{}, access.OperationExport) {
		uc.logAccessDenied(requestID, actor, access.OperationExport)
		return nil, exceptions.ErrAccessDenied(string(access.OperationExport))
	}

	if filter.Status != "" && !models.IsValidBookingStatus(filter.Status) {
		return nil, exceptions.ErrInvalidBookingStatus(filter.Status)
	}

	writer, err := newBookingExportWriter(format)
	if err != nil {
		return nil, err
	}

	trigger := constvars.ExportTriggerManual
	if actor.UserID == constvars.ScheduledExportUserID {
		trigger = constvars.ExportTriggerScheduled
	}

	total := 0
	err = uc.BookingRepository.StreamAll(ctx, filter, func(booking *models.Booking) error {
		total++
		return writer.Write(bookingExportRecord(booking))
	})
	if err != nil {
		uc.Log.Error("bookingUsecase.ExportBookings error calling BookingRepository.StreamAll",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	content, err := writer.Bytes()
	if err != nil {
		return nil, err
	}

	bucketName := uc.InternalConfig.Minio.BucketName
	objectName, err := uc.Storage.UploadObject(ctx, bucketName, utils.GenerateExportObjectName(uc.now(), writer.Extension()), writer.ContentType(), content)
	if err != nil {
		uc.Log.Error("bookingUsecase.ExportBookings error calling Storage.UploadObject",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBucketNameKey, bucketName),
			zap.Error(err),
		)
		return nil, err
	}

	expiry := time.Duration(uc.InternalConfig.Minio.PreSignedUrlExpiryTimeInHours) * time.Hour
	url, err := uc.Storage.PresignedGetURL(ctx, bucketName, objectName, expiry)
	if err != nil {
		uc.Log.Error("bookingUsecase.ExportBookings error calling Storage.PresignedGetURL",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectNameKey, objectName),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.IncBookingExport(writer.Extension(), trigger)
	uc.Log.Info("bookingUsecase.ExportBookings succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectNameKey, objectName),
		zap.Int(constvars.LoggingTotalKey, total),
	)
	return &responses.BookingExport{
		ObjectName: objectName,
		URL:        url,
		Format:     writer.Extension(),
		Total:      total,
	}, nil
}

// bookingExportWriter accumulates export rows in one file format.
type bookingExportWriter interface {
	Write(record []string) error
	Bytes() ([]byte, error)
	ContentType() string
	Extension() string
}

func newBookingExportWriter(format string) (bookingExportWriter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", constvars.ExportFormatCSV:
		return newCSVExportWriter()
	case constvars.ExportFormatXLSX:
		return newXLSXExportWriter()
	default:
		return nil, exceptions.ErrUnsupportedExportFormat(format)
	}
}

type csvExportWriter struct {
	buffer bytes.Buffer
	writer *csv.Writer
}

func newCSVExportWriter() (*csvExportWriter, error) {
	w := &csvExportWriter{}
	w.writer = csv.NewWriter(&w.buffer)
	if err := w.Write(bookingExportHeader); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *csvExportWriter) Write(record []string) error {
	if err := w.writer.Write(record); err != nil {
		return exceptions.ErrWriteCSV(err)
	}
	return nil
}

func (w *csvExportWriter) Bytes() ([]byte, error) {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return nil, exceptions.ErrWriteCSV(err)
	}
	return w.buffer.Bytes(), nil
}

func (w *csvExportWriter) ContentType() string { return constvars.MIMETextCSV }

func (w *csvExportWriter) Extension() string { return constvars.ExportFormatCSV }

// xlsxExportWriter streams rows into a single sheet so large exports are not
// held as a cell tree.
type xlsxExportWriter struct {
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

func newXLSXExportWriter() (*xlsxExportWriter, error) {
	file := excelize.NewFile()
	err := file.SetSheetName("Sheet1", constvars.BookingExportSheetName)
	if err != nil {
		return nil, exceptions.ErrWriteXLSX(err)
	}

	stream, err := file.NewStreamWriter(constvars.BookingExportSheetName)
	if err != nil {
		return nil, exceptions.ErrWriteXLSX(err)
	}

	w := &xlsxExportWriter{file: file, stream: stream}
	if err := w.Write(bookingExportHeader); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *xlsxExportWriter) Write(record []string) error {
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return exceptions.ErrWriteXLSX(err)
	}

	values := make([]interface{}, len(record))
	for i, value := range record {
		values[i] = value
	}
	if err := w.stream.SetRow(cell, values); err != nil {
		return exceptions.ErrWriteXLSX(err)
	}
	return nil
}

func (w *xlsxExportWriter) Bytes() ([]byte, error) {
	defer w.file.Close()

	err := w.stream.Flush()
	if err != nil {
		return nil, exceptions.ErrWriteXLSX(err)
	}

	buffer, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, exceptions.ErrWriteXLSX(err)
	}
	return buffer.Bytes(), nil
}

func (w *xlsxExportWriter) ContentType() string { return constvars.MIMEApplicationXLSX }

func (w *xlsxExportWriter) Extension() string { return constvars.ExportFormatXLSX }

func bookingExportRecord(booking *models.Booking) []string {
	return []string{
		booking.ID,
		booking.BookingReference,
		booking.PatientID,
		booking.DoctorID,
		booking.ClinicID,
		booking.AppointmentDateString(),
		booking.AppointmentTime,
		booking.Status,
		strconv.FormatFloat(booking.ConsultationFee, 'f', 2, 64),
		booking.PaymentMethod,
		booking.PatientDetails.Name,
		booking.PatientDetails.Email,
		booking.PatientDetails.Phone,
		formatExportTime(&booking.CreatedAt),
		formatExportTime(booking.CompletedAt),
		formatExportTime(booking.CancelledAt),
		booking.CancelledBy,
	}
}

func formatExportTime(value *time.Time) string {
	if value == nil || value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
