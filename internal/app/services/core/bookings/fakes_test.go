package bookings

import (
	"context"
	"errors"
	"fmt"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// memoryBookingRepository mimics the collection including its partial unique
// index on active slots.
type memoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	order    []string
	seq      int
	findErr  error
}

func newMemoryBookingRepository() *memoryBookingRepository {
	return &memoryBookingRepository{bookings: make(map[string]models.Booking)}
}

func (r *memoryBookingRepository) slotTaken(booking *models.Booking, exceptID string) bool {
	if !booking.ActiveSlot {
		return false
	}
	for id, other := range r.bookings {
		if id == exceptID || !other.ActiveSlot {
			continue
		}
		if other.DoctorID == booking.DoctorID &&
			other.AppointmentDate.Equal(booking.AppointmentDate) &&
			other.AppointmentTime == booking.AppointmentTime {
			return true
		}
	}
	return false
}

func (r *memoryBookingRepository) CreateBooking(ctx context.Context, booking *models.Booking) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slotTaken(booking, "") {
		return "", exceptions.ErrSlotAlreadyBooked(errors.New("E11000 duplicate key error"), booking.DoctorID, booking.AppointmentDateString(), booking.AppointmentTime)
	}

	r.seq++
	id := fmt.Sprintf("65f0000000000000000000%02d", r.seq)
	stored := *booking
	stored.ID = id
	r.bookings[id] = stored
	r.order = append(r.order, id)
	return id, nil
}

func (r *memoryBookingRepository) FindByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	stored, ok := r.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	return &stored, nil
}

func (r *memoryBookingRepository) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; !ok {
		return exceptions.ErrBookingNotFound(booking.ID)
	}
	if r.slotTaken(booking, booking.ID) {
		return exceptions.ErrSlotAlreadyBooked(errors.New("E11000 duplicate key error"), booking.DoctorID, booking.AppointmentDateString(), booking.AppointmentTime)
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *memoryBookingRepository) CountActiveBySlot(ctx context.Context, doctorID string, appointmentDate time.Time, appointmentTime string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, booking := range r.bookings {
		if booking.DoctorID == doctorID &&
			booking.AppointmentDate.Equal(appointmentDate) &&
			booking.AppointmentTime == appointmentTime &&
			models.IsActiveBookingStatus(booking.Status) {
			count++
		}
	}
	return count, nil
}

func (r *memoryBookingRepository) matching(filter requests.BookingFilter) ([]models.Booking, error) {
	var date time.Time
	if filter.Date != "" {
		parsed, err := utils.ParseAppointmentDate(filter.Date)
		if err != nil {
			return nil, exceptions.ErrCannotParseDate(err)
		}
		date = parsed
	}

	var result []models.Booking
	for _, id := range r.order {
		booking := r.bookings[id]
		if filter.PatientID != "" && booking.PatientID != filter.PatientID {
			continue
		}
		if filter.DoctorID != "" && booking.DoctorID != filter.DoctorID {
			continue
		}
		if filter.Status != "" && booking.Status != filter.Status {
			continue
		}
		if filter.Date != "" && !booking.AppointmentDate.Equal(date) {
			continue
		}
		result = append(result, booking)
	}
	return result, nil
}

func (r *memoryBookingRepository) FindAll(ctx context.Context, filter requests.BookingFilter, pagination requests.Pagination) ([]models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched, err := r.matching(filter)
	if err != nil {
		return nil, 0, err
	}

	// newest first
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}

	start := int(pagination.Skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pagination.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (r *memoryBookingRepository) StreamAll(ctx context.Context, filter requests.BookingFilter, fn func(booking *models.Booking) error) error {
	r.mu.Lock()
	matched, err := r.matching(filter)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	for i := range matched {
		if err := fn(&matched[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryBookingRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

// forceActive inserts a booking bypassing the availability check, as a
// concurrent request would.
func (r *memoryBookingRepository) forceActive(doctorID string, date time.Time, appointmentTime string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("65f0000000000000000000%02d", r.seq)
	booking := models.Booking{ID: id, PatientID: "someone-else", DoctorID: doctorID, AppointmentDate: date, AppointmentTime: appointmentTime}
	booking.SetStatus("confirmed")
	r.bookings[id] = booking
	r.order = append(r.order, id)
}

type memoryDoctorRepository struct {
	mu      sync.Mutex
	doctors map[string]*models.Doctor
}

func (r *memoryDoctorRepository) FindByID(ctx context.Context, doctorID string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doctor, ok := r.doctors[doctorID]
	if !ok {
		return nil, nil
	}
	copied := *doctor
	return &copied, nil
}

func (r *memoryDoctorRepository) setFee(doctorID string, fee float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doctors[doctorID].ConsultationFee = fee
}

type memoryUserRepository struct {
	users map[string]*models.User
}

func (r *memoryUserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

type jsonSessionService struct{}

func (jsonSessionService) GetSessionData(ctx context.Context, sessionID string) (string, error) {
	return "", errors.New("not used")
}

func (jsonSessionService) ParseSessionData(ctx context.Context, sessionData string) (*models.Session, error) {
	session := new(models.Session)
	if err := json.Unmarshal([]byte(sessionData), session); err != nil {
		return nil, exceptions.ErrMissingSessionData(err)
	}
	return session, nil
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]string
	err      error
	released []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]string)}
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, "", l.err
	}
	if _, exists := l.held[key]; exists {
		return false, "", nil
	}
	l.held[key] = "lock-" + key
	return true, l.held[key], nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == lockValue {
		delete(l.held, key)
		l.released = append(l.released, key)
	}
	return nil
}

type recordingNotifier struct {
	mu         sync.Mutex
	activities []models.Activity
}

func (n *recordingNotifier) Notify(ctx context.Context, activity *models.Activity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activities = append(n.activities, *activity)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var result []string
	for _, activity := range n.activities {
		result = append(result, activity.Type)
	}
	return result
}

type switchLimiter struct {
	deny bool
}

func (l *switchLimiter) Allow(actorID string) bool {
	return !l.deny
}

type memoryStorage struct {
	objects     map[string][]byte
	contentType string
	uploadErr   error
}

func (s *memoryStorage) UploadObject(ctx context.Context, bucketName, objectName, contentType string, data []byte) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[bucketName+"/"+objectName] = data
	s.contentType = contentType
	return objectName, nil
}

func (s *memoryStorage) PresignedGetURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://minio.local/%s/%s?expires=%d", bucketName, objectName, int(expiry.Seconds())), nil
}
