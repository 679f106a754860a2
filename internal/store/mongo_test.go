package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/medihub-api/internal/apperr"
	"github.com/harentsoaR/medihub-api/internal/models"
	"github.com/harentsoaR/medihub-api/internal/utils"
)

// testStore connects to MONGO_TEST_URI and returns a store over a throwaway
// database that is dropped when the test ends.
func testStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	utils.HashCost = bcrypt.MinCost

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatal(err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("ping %s: %v", uri, err)
	}
	db := client.Database(fmt.Sprintf("medihub_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	st := New(db)
	if err := st.EnsureIndexes(ctx); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestMongoAccountPasswordHandling(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	a := &models.Account{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Phone:     "9876543210",
		Password:  "s3cretpass",
		Address:   models.Address{Country: "India", City: "Pune", Pincode: "411001"},
		Gender:    "Female",
		DOB:       time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		Role:      models.RolePatient,
	}
	if err := st.Accounts.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if a.ID.IsZero() || a.Password != "" {
		t.Fatalf("after Create: id=%s password=%q", a.ID.Hex(), a.Password)
	}

	byID, err := st.Accounts.FindByID(ctx, a.ID)
	if err != nil || byID.Password != "" {
		t.Errorf("FindByID leaked the hash or failed: %q %v", byID.Password, err)
	}
	withHash, err := st.Accounts.FindByEmailWithPassword(ctx, a.Email)
	if err != nil {
		t.Fatal(err)
	}
	if withHash.Password == "s3cretpass" || !utils.CheckPasswordHash("s3cretpass", withHash.Password) {
		t.Errorf("stored password is not a bcrypt hash of the input")
	}

	dup := *a
	dup.ID = primitive.NilObjectID
	dup.Password = "another-pass"
	var dupErr *apperr.DuplicateKeyError
	if err := st.Accounts.Create(ctx, &dup); !errors.As(err, &dupErr) || dupErr.Field != "email" {
		t.Errorf("duplicate email: %v", err)
	}
	if _, err := st.Accounts.FindByID(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: %v", err)
	}
}

func TestMongoCartToggle(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	user, medicine := primitive.NewObjectID(), primitive.NewObjectID()
	item := func() *models.CartItem {
		return &models.CartItem{UserID: user, MedicineID: medicine, Quantity: 2, TotalPrice: 240}
	}

	first := item()
	removed, err := st.Carts.Toggle(ctx, first)
	if err != nil || removed {
		t.Fatalf("first toggle: removed=%v err=%v", removed, err)
	}
	if first.ID.IsZero() || first.Status != cartPending {
		t.Errorf("inserted item = %+v", first)
	}

	second := item()
	removed, err = st.Carts.Toggle(ctx, second)
	if err != nil || !removed || second.ID != first.ID {
		t.Fatalf("second toggle: removed=%v err=%v item=%+v", removed, err, second)
	}
	items, err := st.Carts.ListByUser(ctx, user)
	if err != nil || len(items) != 0 {
		t.Fatalf("cart after removal = %v %v", items, err)
	}

	third := item()
	if removed, err := st.Carts.Toggle(ctx, third); err != nil || removed {
		t.Fatalf("third toggle: removed=%v err=%v", removed, err)
	}
	if err := st.Carts.DeleteForUser(ctx, third.ID, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete by another user: %v", err)
	}
	if err := st.Carts.DeleteForUser(ctx, third.ID, user); err != nil {
		t.Errorf("delete by owner: %v", err)
	}
}

func TestMongoFeedbackAssignsItsOwnIDs(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	chosen := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		m := &models.ContactMessage{ID: chosen, Email: "visitor@example.com", Message: "Hello"}
		if err := st.Contact.Create(ctx, m); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if m.ID == chosen {
			t.Errorf("message %d kept the caller's id", i)
		}

		tm := &models.Testimonial{ID: chosen, FullName: "Ravi Kumar", Email: "ravi@example.com",
			Country: "India", State: "Kerala", Review: "Great care."}
		if err := st.Testimonials.Create(ctx, tm); err != nil {
			t.Fatalf("testimonial %d: %v", i, err)
		}
		if tm.ID == chosen {
			t.Errorf("testimonial %d kept the caller's id", i)
		}
	}

	msgs, err := st.Contact.List(ctx)
	if err != nil || len(msgs) != 2 {
		t.Errorf("messages = %v %v", msgs, err)
	}
}
