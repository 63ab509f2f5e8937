package bookings

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	IndexNameActiveSlot       = "uniq_active_slot"
	IndexNameBookingReference = "uniq_booking_reference"
	IndexNamePatientCreatedAt = "patient_created_at"
	IndexNameDoctorDate       = "doctor_appointment_date"
	IndexNameStatusCreatedAt  = "status_created_at"
)

type BookingMongoRepository struct {
	Collection *mongo.Collection
}

func NewBookingMongoRepository(db *mongo.Client, dbName string) contracts.BookingRepository {
	return &BookingMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionBookings),
	}
}

// CreateBooking maps a unique index violation on the active slot to a slot conflict.
func (repo *BookingMongoRepository) CreateBooking(ctx context.Context, booking *models.Booking) (string, error) {
	result, err := repo.Collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", exceptions.ErrSlotAlreadyBooked(err, booking.DoctorID, booking.AppointmentDateString(), booking.AppointmentTime)
		}
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

// FindByID returns nil, nil when the booking does not exist.
func (repo *BookingMongoRepository) FindByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	booking := new(models.Booking)
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return booking, nil
}

// UpdateBooking writes the mutable fields only; identity, slot and snapshot
// fields are never touched after creation.
func (repo *BookingMongoRepository) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	objectID, err := primitive.ObjectIDFromHex(booking.ID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	result, err := repo.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, buildBookingUpdate(booking))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrSlotAlreadyBooked(err, booking.DoctorID, booking.AppointmentDateString(), booking.AppointmentTime)
		}
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		return exceptions.ErrBookingNotFound(booking.ID)
	}
	return nil
}

func (repo *BookingMongoRepository) CountActiveBySlot(ctx context.Context, doctorID string, appointmentDate time.Time, appointmentTime string) (int64, error) {
	filter := bson.M{
		"doctorId":        doctorID,
		"appointmentDate": appointmentDate,
		"appointmentTime": appointmentTime,
		"status":          bson.M{"$in": models.ActiveBookingStatuses()},
	}

	count, err := repo.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, exceptions.ErrMongoDBCountDocuments(err)
	}
	return count, nil
}

func (repo *BookingMongoRepository) FindAll(ctx context.Context, filter requests.BookingFilter, pagination requests.Pagination) ([]models.Booking, int64, error) {
	query, err := buildBookingFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := repo.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBCountDocuments(err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(pagination.Skip()).
		SetLimit(int64(pagination.Limit))

	cursor, err := repo.Collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}

	bookings := make([]models.Booking, 0, pagination.Limit)
	err = cursor.All(ctx, &bookings)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return bookings, total, nil
}

// StreamAll calls fn for every booking matching filter in appointment order,
// stopping at the first error fn returns.
func (repo *BookingMongoRepository) StreamAll(ctx context.Context, filter requests.BookingFilter, fn func(booking *models.Booking) error) error {
	query, err := buildBookingFilter(filter)
	if err != nil {
		return err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "appointmentDate", Value: 1}, {Key: "appointmentTime", Value: 1}})

	cursor, err := repo.Collection.Find(ctx, query, findOptions)
	if err != nil {
		return exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		booking := new(models.Booking)
		err = cursor.Decode(booking)
		if err != nil {
			return exceptions.ErrMongoDBIterateDocuments(err)
		}
		err = fn(booking)
		if err != nil {
			return err
		}
	}

	err = cursor.Err()
	if err != nil {
		return exceptions.ErrMongoDBIterateDocuments(err)
	}
	return nil
}

// EnsureIndexes creates the booking indexes. The partial unique index is what
// actually guarantees one active booking per doctor slot.
func (repo *BookingMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := repo.Collection.Indexes().CreateMany(ctx, BookingIndexModels())
	if err != nil {
		return exceptions.ErrMongoDBCreateIndex(err)
	}
	return nil
}

func BookingIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "doctorId", Value: 1},
				{Key: "appointmentDate", Value: 1},
				{Key: "appointmentTime", Value: 1},
			},
			Options: options.Index().
				SetName(IndexNameActiveSlot).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"activeSlot": true}),
		},
		{
			Keys: bson.D{{Key: "bookingReference", Value: 1}},
			Options: options.Index().
				SetName(IndexNameBookingReference).
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "patientId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName(IndexNamePatientCreatedAt),
		},
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "appointmentDate", Value: 1}},
			Options: options.Index().SetName(IndexNameDoctorDate),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName(IndexNameStatusCreatedAt),
		},
	}
}

func buildBookingFilter(filter requests.BookingFilter) (bson.M, error) {
	query := bson.M{}
	if filter.PatientID != "" {
		query["patientId"] = filter.PatientID
	}
	if filter.DoctorID != "" {
		query["doctorId"] = filter.DoctorID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Date != "" {
		date, err := utils.ParseAppointmentDate(filter.Date)
		if err != nil {
			return nil, exceptions.ErrCannotParseDate(err)
		}
		query["appointmentDate"] = date
	}
	return query, nil
}

func buildBookingUpdate(booking *models.Booking) bson.M {
	set := bson.M{
		"status":       booking.Status,
		"activeSlot":   booking.ActiveSlot,
		"diagnosis":    booking.Diagnosis,
		"prescription": booking.Prescription,
		"notes":        booking.Notes,
		"updatedAt":    booking.UpdatedAt,
	}
	unset := bson.M{}

	if booking.CompletedAt != nil {
		set["completedAt"] = *booking.CompletedAt
	} else {
		unset["completedAt"] = ""
	}
	if booking.CancelledAt != nil {
		set["cancelledAt"] = *booking.CancelledAt
		set["cancelledBy"] = booking.CancelledBy
	} else {
		unset["cancelledAt"] = ""
		unset["cancelledBy"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
