package models

// Doctor is the subset of the directory's doctor record the booking engine reads.
type Doctor struct {
	ID              string  `bson:"_id,omitempty"`
	UserID          string  `bson:"userId"`
	Name            string  `bson:"name"`
	Specialization  string  `bson:"specialization"`
	ConsultationFee float64 `bson:"consultationFee"`
	ClinicID        string  `bson:"clinicId,omitempty"`
}
