package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachBookingRoutes(router chi.Router, middlewares *middlewares.Middlewares, bookingController *controllers.BookingController) {
	router.Use(middlewares.Authenticate)

	router.Post("/", bookingController.CreateBooking)
	router.Get("/admin", bookingController.FindAll)
	router.Get("/admin/export", bookingController.ExportBookings)
	router.Get("/availability", bookingController.CheckAvailability)
	router.Get("/user/{userId}", bookingController.FindByPatientID)
	router.Get("/doctor/{doctorId}", bookingController.FindByDoctorID)
	router.Get("/{bookingId}", bookingController.FindByID)
	router.Put("/{bookingId}/status", bookingController.UpdateStatus)
	router.Delete("/{bookingId}", bookingController.CancelBooking)
}
