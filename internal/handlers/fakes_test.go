package handlers

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/models"
	"github.com/harentsoaR/medihub-api/internal/services"
	"github.com/harentsoaR/medihub-api/internal/store"
	"github.com/harentsoaR/medihub-api/internal/utils"
)

// The fakes mirror the Mongo stores: validate, hash, enforce the unique
// keys, and hide password hashes from ordinary reads.

type fakeAccounts struct {
	byID map[primitive.ObjectID]models.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[primitive.ObjectID]models.Account{}}
}

func (f *fakeAccounts) Create(ctx context.Context, a *models.Account) error {
	if err := models.Validate(a); err != nil {
		return err
	}
	for _, existing := range f.byID {
		if existing.Email == a.Email {
			return &apperr.DuplicateKeyError{Field: "email"}
		}
	}
	hash, err := utils.HashPassword(a.Password)
	if err != nil {
		return err
	}
	a.ID = primitive.NewObjectID()
	stored := *a
	stored.Password = hash
	f.byID[a.ID] = stored
	a.Password = ""
	return nil
}

func (f *fakeAccounts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a.Password = ""
	return &a, nil
}

func (f *fakeAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	a, err := f.FindByEmailWithPassword(ctx, email)
	if err == nil {
		a.Password = ""
	}
	return a, err
}

func (f *fakeAccounts) FindByEmailWithPassword(ctx context.Context, email string) (*models.Account, error) {
	for _, a := range f.byID {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeDoctors struct {
	byID map[primitive.ObjectID]models.Doctor
}

func newFakeDoctors() *fakeDoctors {
	return &fakeDoctors{byID: map[primitive.ObjectID]models.Doctor{}}
}

func (f *fakeDoctors) Create(ctx context.Context, d *models.Doctor) error {
	d.Role = models.RoleDoctor
	if err := models.Validate(d); err != nil {
		return err
	}
	for _, existing := range f.byID {
		if existing.Email == d.Email {
			return &apperr.DuplicateKeyError{Field: "email"}
		}
	}
	hash, err := utils.HashPassword(d.Password)
	if err != nil {
		return err
	}
	d.ID = primitive.NewObjectID()
	stored := *d
	stored.Password = hash
	f.byID[d.ID] = stored
	d.Password = ""
	return nil
}

func (f *fakeDoctors) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	d.Password = ""
	return &d, nil
}

func (f *fakeDoctors) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	d, err := f.FindByEmailWithPassword(ctx, email)
	if err == nil {
		d.Password = ""
	}
	return d, err
}

func (f *fakeDoctors) FindByEmailWithPassword(ctx context.Context, email string) (*models.Doctor, error) {
	for _, d := range f.byID {
		if d.Email == email {
			return &d, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeDoctors) List(ctx context.Context) ([]models.Doctor, error) {
	out := []models.Doctor{}
	for _, d := range f.byID {
		d.Password = ""
		out = append(out, d)
	}
	return out, nil
}

type fakeAppointments struct {
	items []models.Appointment
}

func (f *fakeAppointments) Create(ctx context.Context, a *models.Appointment) error {
	if a.Status == "" {
		a.Status = models.AppointmentPending
	}
	if err := models.Validate(a); err != nil {
		return err
	}
	for _, existing := range f.items {
		if existing.Patient == a.Patient && existing.Doctor == a.Doctor {
			return &apperr.DuplicateKeyError{Field: "patient"}
		}
	}
	a.ID = primitive.NewObjectID()
	f.items = append(f.items, *a)
	return nil
}

func (f *fakeAppointments) ExistsForPair(ctx context.Context, patient, doctor primitive.ObjectID) (bool, error) {
	for _, a := range f.items {
		if a.Patient == patient && a.Doctor == doctor {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppointments) List(ctx context.Context) ([]models.Appointment, error) {
	return append([]models.Appointment{}, f.items...), nil
}

func (f *fakeAppointments) ListByPatient(ctx context.Context, patient primitive.ObjectID) ([]models.Appointment, error) {
	out := []models.Appointment{}
	for _, a := range f.items {
		if a.Patient == patient {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Appointment, error) {
	if err := models.Validate(models.AppointmentStatusUpdate{Status: status}); err != nil {
		return nil, err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = status
			a := f.items[i]
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeAppointments) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, a := range f.items {
		if a.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeAppointments) FindDetails(ctx context.Context, id primitive.ObjectID) (*models.AppointmentDetails, error) {
	for _, a := range f.items {
		if a.ID == id {
			return &models.AppointmentDetails{
				ID:              a.ID,
				AppointmentDate: a.AppointmentDate,
				Status:          a.Status,
				City:            a.City,
				Pincode:         a.Pincode,
				Department:      a.Department,
				PatientDetails:  models.PatientContact{FirstName: a.PatientFirstName, LastName: a.PatientLastName},
				DoctorDetails:   models.DoctorContact{FirstName: a.DoctorFirstName, LastName: a.DoctorLastName},
			}, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeMedicines struct {
	byID map[primitive.ObjectID]models.Medicine
}

func newFakeMedicines() *fakeMedicines {
	return &fakeMedicines{byID: map[primitive.ObjectID]models.Medicine{}}
}

func (f *fakeMedicines) Create(ctx context.Context, m *models.Medicine) error {
	if err := models.Validate(m); err != nil {
		return err
	}
	m.ID = primitive.NewObjectID()
	f.byID[m.ID] = *m
	return nil
}

func (f *fakeMedicines) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Medicine, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMedicines) Update(ctx context.Context, id primitive.ObjectID, u models.MedicineUpdate) (*models.Medicine, error) {
	if err := models.Validate(u); err != nil {
		return nil, err
	}
	m, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if u.Stock != nil {
		m.Stock = *u.Stock
	}
	if u.Discount != nil {
		m.Discount = *u.Discount
	}
	f.byID[id] = m
	return &m, nil
}

func (f *fakeMedicines) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeMedicines) filter(keep func(models.Medicine) bool) []models.Medicine {
	out := []models.Medicine{}
	for _, m := range f.byID {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func paginate(ms []models.Medicine, p store.Page) []models.Medicine {
	start := int((p.Number - 1) * p.Limit)
	if start >= len(ms) {
		return []models.Medicine{}
	}
	end := start + int(p.Limit)
	if end > len(ms) {
		end = len(ms)
	}
	return ms[start:end]
}

func (f *fakeMedicines) ListByCategory(ctx context.Context, category string, p store.Page) ([]models.Medicine, error) {
	return paginate(f.filter(func(m models.Medicine) bool { return m.Category == category }), p), nil
}

func (f *fakeMedicines) ListDiscounted(ctx context.Context, minDiscount float64, p store.Page) ([]models.Medicine, error) {
	return paginate(f.filter(func(m models.Medicine) bool { return m.Discount >= minDiscount }), p), nil
}

func (f *fakeMedicines) Search(ctx context.Context, query string) ([]models.Medicine, error) {
	q := strings.ToLower(query)
	return f.filter(func(m models.Medicine) bool {
		return strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.Category), q)
	}), nil
}

type fakeCarts struct {
	items []models.CartItem
}

func (f *fakeCarts) Toggle(ctx context.Context, item *models.CartItem) (bool, error) {
	if item.Status == "" {
		item.Status = "Pending"
	}
	if err := models.Validate(item); err != nil {
		return false, err
	}
	for i, existing := range f.items {
		if existing.UserID == item.UserID && existing.MedicineID == item.MedicineID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			*item = existing
			return true, nil
		}
	}
	item.ID = primitive.NewObjectID()
	f.items = append(f.items, *item)
	return false, nil
}

func (f *fakeCarts) DeleteForUser(ctx context.Context, id, userID primitive.ObjectID) error {
	for i, existing := range f.items {
		if existing.ID == id && existing.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeCarts) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	out := []models.CartItem{}
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeContact struct {
	items []models.ContactMessage
}

func (f *fakeContact) Create(ctx context.Context, m *models.ContactMessage) error {
	if err := models.Validate(m); err != nil {
		return err
	}
	m.ID = primitive.NewObjectID()
	f.items = append(f.items, *m)
	return nil
}

func (f *fakeContact) List(ctx context.Context) ([]models.ContactMessage, error) {
	return append([]models.ContactMessage{}, f.items...), nil
}

type fakeTestimonials struct {
	items []models.Testimonial
}

func (f *fakeTestimonials) Create(ctx context.Context, t *models.Testimonial) error {
	if err := models.Validate(t); err != nil {
		return err
	}
	t.ID = primitive.NewObjectID()
	f.items = append(f.items, *t)
	return nil
}

func (f *fakeTestimonials) List(ctx context.Context) ([]models.Testimonial, error) {
	return append([]models.Testimonial{}, f.items...), nil
}

type fakeMailer struct {
	sent []services.Mail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, m services.Mail) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "receipt-1", nil
}

// fakeImageHost records uploads and answers with a predictable URL.
type fakeImageHost struct {
	uploads []string
	err     error
}

func (f *fakeImageHost) Upload(ctx context.Context, body io.Reader, contentType, folder, publicID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, publicID)
	return "https://images.example.com/" + folder + "/" + publicID, nil
}

var errMailDown = errors.New("smtp relay unavailable")
