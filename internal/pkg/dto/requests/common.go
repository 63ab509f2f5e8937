package requests

type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

type BookingFilter struct {
	PatientID string
	DoctorID  string
	Status    string
	Date      string
}
