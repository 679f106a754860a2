package handlers

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"github.com/harentsoaR/medihub-api/internal/services"
	"github.com/harentsoaR/medihub-api/internal/store"
	"github.com/harentsoaR/medihub-api/internal/utils"
)

// Uploader is the part of the upload relay the doctor registration uses.
type Uploader interface {
	Accept(fh *multipart.FileHeader) (*services.TempFile, error)
	Relay(ctx context.Context, tmp *services.TempFile) (string, error)
	Discard(tmp *services.TempFile)
	MaxBytes() int64
	TooLarge() error
}

type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

// Deps are the collaborators built once by the composition root.
type Deps struct {
	Tokens      *utils.TokenManager
	Revocations *utils.RevocationList
	Uploads     Uploader
	Mailer      services.Mailer
	Payments    services.PaymentGateway
	Cookies     CookieConfig
	// MailTo receives contact form messages.
	MailTo string
	// Ping reports database health for /healthz.
	Ping   func(ctx context.Context) error
	Logger zerolog.Logger
}

type Handler struct {
	Accounts     store.AccountStore
	Doctors      store.DoctorStore
	Appointments store.AppointmentStore
	Medicines    store.MedicineStore
	Carts        store.CartStore
	Contact      store.ContactStore
	Testimonials store.TestimonialStore

	Deps
}

func NewHandler(st *store.Store, deps Deps) *Handler {
	return &Handler{
		Accounts:     st.Accounts,
		Doctors:      st.Doctors,
		Appointments: st.Appointments,
		Medicines:    st.Medicines,
		Carts:        st.Carts,
		Contact:      st.Contact,
		Testimonials: st.Testimonials,
		Deps:         deps,
	}
}
