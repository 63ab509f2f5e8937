package models

type User struct {
	ID       string `bson:"_id,omitempty"`
	Name     string `bson:"name"`
	Email    string `bson:"email"`
	Phone    string `bson:"phone"`
	Role     string `bson:"role"`
	DoctorID string `bson:"doctorId,omitempty"`
}
