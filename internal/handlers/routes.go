package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medihub-api/internal/middleware"
	"github.com/harentsoaR/medihub-api/internal/models"
)

// RegisterRoutes mounts the API under /api/v1 and the health check at /healthz.
func RegisterRoutes(r *gin.Engine, h *Handler, v *middleware.Verifier) {
	admin := middleware.Authenticate(models.RoleAdmin, v)
	patient := middleware.Authenticate(models.RolePatient, v)
	doctor := middleware.Authenticate(models.RoleDoctor, v)

	r.GET("/healthz", h.Health)

	api := r.Group("/api/v1")

	user := api.Group("/user")
	{
		user.POST("/patient/register", h.PatientRegister)
		user.POST("/login", h.Login)
		user.POST("/admin/addnew", admin, h.AddNewAdmin)
		user.POST("/doctor/addnew", admin, h.AddNewDoctor)
		user.GET("/alldoctors", h.GetAllDoctors)
		user.GET("/admin/me", admin, h.GetAccountDetails)
		user.GET("/patient/me", patient, h.GetAccountDetails)
		user.GET("/doctor/me", doctor, h.GetDoctorDetails)
		user.GET("/admin/logout", admin, h.Logout(models.RoleAdmin))
		user.GET("/patient/logout", patient, h.Logout(models.RolePatient))
		user.GET("/doctor/logout", doctor, h.Logout(models.RoleDoctor))
	}

	message := api.Group("/message")
	{
		message.POST("/send", h.SendMessage)
		message.GET("/getall", admin, h.GetAllMessages)
	}

	appointment := api.Group("/appointment")
	{
		appointment.POST("/book", patient, h.BookAppointment)
		appointment.GET("/my", patient, h.GetMyAppointments)
		appointment.GET("/getall", doctor, h.GetAllAppointments)
		appointment.GET("/info/:appointmentId", doctor, h.GetAppointmentInfo)
		appointment.PUT("/update/:id", doctor, h.UpdateAppointmentStatus)
		appointment.DELETE("/delete/:id", doctor, h.DeleteAppointment)
	}

	medicines := api.Group("/medicines")
	{
		medicines.POST("/addmedicine", admin, h.AddNewMedicine)
		medicines.PUT("/update-medicine/:id", admin, h.UpdateMedicine)
		medicines.DELETE("/delete-medicine/:id", admin, h.DeleteMedicine)
		medicines.GET("/get/:id", h.GetMedicine)
		medicines.GET("/shop-by-category/:category", h.GetCategoryMedicines)
		medicines.GET("/discount", h.GetDiscountedMedicines)
		medicines.GET("/search-medicine", h.SearchMedicines)
	}

	cart := api.Group("/medicines-cart", patient)
	{
		cart.POST("/add-to-cart", h.ToggleCart)
		cart.DELETE("/delete-from-cart/:id", h.DeleteFromCart)
		cart.GET("/user-cart/:userId", h.GetUserCart)
	}

	payment := api.Group("/payment")
	{
		payment.POST("/checkout", h.Checkout)
		payment.POST("/paymentverification", h.PaymentVerification)
	}

	testimonial := api.Group("/testimonial")
	{
		testimonial.POST("/add", h.AddTestimonial)
		testimonial.GET("/getall", h.GetAllTestimonials)
	}
}

// Health reports whether the database answers.
func (h *Handler) Health(c *gin.Context) {
	if h.Ping != nil {
		if err := h.Ping(c.Request.Context()); err != nil {
			h.Logger.Error().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success":    false,
				"statusCode": http.StatusServiceUnavailable,
				"message":    "Database unavailable",
			})
			return
		}
	}
	respond(c, http.StatusOK, "OK", gin.H{"status": "up"})
}
