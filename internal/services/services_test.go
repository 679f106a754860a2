package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/harentsoaR/medihub-api/internal/apperr"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

func fileHeader(t *testing.T, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="docAvatar"; filename="avatar.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["docAvatar"][0]
}

type fakeHost struct {
	failures int
	calls    int
	bodies   [][]byte
	folder   string
}

func (h *fakeHost) Upload(ctx context.Context, body io.Reader, contentType, folder, publicID string) (string, error) {
	h.calls++
	b, _ := io.ReadAll(body)
	h.bodies = append(h.bodies, b)
	h.folder = folder
	if h.calls <= h.failures {
		return "", fmt.Errorf("boom %d", h.calls)
	}
	return "https://img.example.com/" + folder + "/" + publicID, nil
}

func newRelay(t *testing.T, host ImageHost, maxBytes int64) (*UploadRelay, *[]time.Duration) {
	t.Helper()
	r := NewUploadRelay(host, UploadConfig{TempDir: t.TempDir(), Folder: "medi-hub/images", MaxBytes: maxBytes}, zerolog.Nop())
	var sleeps []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return r, &sleeps
}

func assertBadRequest(t *testing.T, err error, want string) {
	t.Helper()
	status, msg := apperr.Normalize(err)
	if status != http.StatusBadRequest || msg != want {
		t.Errorf("got %d %q, want 400 %q", status, msg, want)
	}
}

func TestAccept_ValidImage(t *testing.T) {
	r, _ := newRelay(t, &fakeHost{}, 10<<20)
	tmp, err := r.Accept(fileHeader(t, "image/png", pngBytes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r.Discard(tmp)

	if tmp.ContentType != "image/png" || tmp.Size != int64(len(pngBytes)) {
		t.Errorf("unexpected temp file %+v", tmp)
	}
	got, err := os.ReadFile(tmp.Path)
	if err != nil || !bytes.Equal(got, pngBytes) {
		t.Errorf("temp copy differs: %v", err)
	}
}

func TestAccept_Rejections(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		content     []byte
		maxBytes    int64
		want        string
	}{
		{"pdf declared", "application/pdf", []byte("%PDF-1.4 hello"), 10 << 20, MsgInvalidFileType},
		{"pdf disguised as png", "image/png", []byte("%PDF-1.4 hello"), 10 << 20, MsgInvalidFileType},
		{"no content type", "", pngBytes, 10 << 20, MsgInvalidFileType},
		{"too large", "image/png", bytes.Repeat(pngBytes, 1<<15), 1 << 20, "File too large! Maximum size is 1MB."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newRelay(t, &fakeHost{}, tc.maxBytes)
			_, err := r.Accept(fileHeader(t, tc.contentType, tc.content))
			assertBadRequest(t, err, tc.want)

			entries, _ := os.ReadDir(r.cfg.TempDir)
			if len(entries) != 0 {
				t.Errorf("rejected upload left %d temp files", len(entries))
			}
		})
	}
}

func TestRelay_RetriesWithLinearBackoff(t *testing.T) {
	host := &fakeHost{failures: 2}
	r, sleeps := newRelay(t, host, 10<<20)
	tmp, err := r.Accept(fileHeader(t, "image/png", pngBytes))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Discard(tmp)

	url, err := r.Relay(context.Background(), tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "https://img.example.com/medi-hub/images/") {
		t.Errorf("url = %q", url)
	}
	if host.calls != 3 {
		t.Errorf("calls = %d, want 3", host.calls)
	}
	for i, b := range host.bodies {
		if !bytes.Equal(b, pngBytes) {
			t.Errorf("attempt %d sent a different body", i+1)
		}
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if fmt.Sprint(*sleeps) != fmt.Sprint(want) {
		t.Errorf("sleeps = %v, want %v", *sleeps, want)
	}
}

func TestRelay_FailsAfterThreeAttempts(t *testing.T) {
	host := &fakeHost{failures: 10}
	r, sleeps := newRelay(t, host, 10<<20)
	tmp, err := r.Accept(fileHeader(t, "image/png", pngBytes))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Discard(tmp)

	_, err = r.Relay(context.Background(), tmp)
	status, msg := apperr.Normalize(err)
	if status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", status)
	}
	if msg != "Image upload failed after 3 attempts: boom 3" {
		t.Errorf("message = %q", msg)
	}
	if host.calls != 3 || len(*sleeps) != 2 {
		t.Errorf("calls = %d sleeps = %v", host.calls, *sleeps)
	}
}

func TestRelay_StopsOnCancel(t *testing.T) {
	host := &fakeHost{failures: 10}
	r, _ := newRelay(t, host, 10<<20)
	r.sleep = sleepContext
	tmp, err := r.Accept(fileHeader(t, "image/png", pngBytes))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Discard(tmp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Relay(ctx, tmp)
	if !errors.Is(err, context.Canceled) || host.calls != 1 {
		t.Errorf("err = %v calls = %d", err, host.calls)
	}
}

func TestDiscard(t *testing.T) {
	r, _ := newRelay(t, &fakeHost{}, 10<<20)
	tmp, err := r.Accept(fileHeader(t, "image/png", pngBytes))
	if err != nil {
		t.Fatal(err)
	}
	r.Discard(tmp)
	if _, err := os.Stat(tmp.Path); !os.IsNotExist(err) {
		t.Errorf("temp file still present: %v", err)
	}
	r.Discard(tmp)
	r.Discard(nil)
}

type fakeS3 struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	return &s3.PutObjectOutput{}, f.err
}

func TestS3ImageHost(t *testing.T) {
	client := &fakeS3{}
	h := &S3ImageHost{client: client, bucket: "medihub", region: "ap-south-1"}

	url, err := h.Upload(context.Background(), bytes.NewReader(pngBytes), "image/png", "medi-hub/images", "abc")
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://medihub.s3.ap-south-1.amazonaws.com/medi-hub/images/abc" {
		t.Errorf("url = %q", url)
	}
	if *client.input.Bucket != "medihub" || *client.input.Key != "medi-hub/images/abc" || *client.input.ContentType != "image/png" {
		t.Errorf("unexpected input %+v", client.input)
	}

	h.baseURL = "https://cdn.example.com/"
	if got := h.URL("k"); got != "https://cdn.example.com/k" {
		t.Errorf("URL = %q", got)
	}

	client.err = errors.New("denied")
	if _, err := h.Upload(context.Background(), bytes.NewReader(nil), "image/png", "f", "x"); err == nil {
		t.Error("expected error")
	}
	if _, err := (&S3ImageHost{client: client}).Upload(context.Background(), nil, "", "f", "x"); !errors.Is(err, ErrBucketNotConfigured) {
		t.Errorf("err = %v", err)
	}
}

type fakeSendClient struct {
	sent *mail.SGMailV3
	resp *rest.Response
	err  error
}

func (f *fakeSendClient) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = email
	return f.resp, f.err
}

func TestSendGridMailer(t *testing.T) {
	if _, err := NewSendGridMailer("", "MediHub", "noreply@medihub.test").Send(context.Background(), Mail{}); !errors.Is(err, ErrMailerNotConfigured) {
		t.Errorf("err = %v", err)
	}

	client := &fakeSendClient{resp: &rest.Response{
		StatusCode: http.StatusAccepted,
		Headers:    map[string][]string{"X-Message-Id": {"msg-123"}},
	}}
	m := &SendGridMailer{client: client, fromName: "MediHub", from: "noreply@medihub.test"}
	receipt, err := m.Send(context.Background(), Mail{
		To:      "admin@medihub.test",
		ReplyTo: "patient@example.com",
		Subject: "New Message from User: MediHub",
		Text:    "hello",
	})
	if err != nil || receipt != "msg-123" {
		t.Fatalf("receipt = %q err = %v", receipt, err)
	}
	if client.sent.From.Address != "noreply@medihub.test" || client.sent.ReplyTo.Address != "patient@example.com" {
		t.Errorf("unexpected sender fields %+v %+v", client.sent.From, client.sent.ReplyTo)
	}
	if to := client.sent.Personalizations[0].To[0].Address; to != "admin@medihub.test" {
		t.Errorf("to = %q", to)
	}

	client.resp = &rest.Response{StatusCode: http.StatusUnauthorized, Body: "bad key"}
	if _, err := m.Send(context.Background(), Mail{To: "a@b.c"}); err == nil {
		t.Error("expected error on 401")
	}
}

func TestMockGateway(t *testing.T) {
	g := NewMockGateway()
	g.now = func() time.Time { return time.UnixMilli(1700000000123) }

	order, err := g.CreateOrder(context.Background(), 499.99)
	if err != nil {
		t.Fatal(err)
	}
	if order.ID != "mock_order_1700000000123" || order.Amount != 49999 || order.Currency != "INR" {
		t.Errorf("order = %+v", order)
	}
	if err := g.Verify(context.Background(), "o", "p", "s"); !errors.Is(err, ErrVerificationUnsupported) {
		t.Errorf("err = %v", err)
	}
}

func TestMockGatewayRejectsOutOfRangeAmounts(t *testing.T) {
	g := NewMockGateway()
	for _, amount := range []float64{0, -1, MaxOrderAmount * 10, 1e300} {
		if order, err := g.CreateOrder(context.Background(), amount); !errors.Is(err, ErrAmountOutOfRange) {
			t.Errorf("CreateOrder(%v) = %+v, %v", amount, order, err)
		}
	}
	order, err := g.CreateOrder(context.Background(), MaxOrderAmount)
	if err != nil || order.Amount != int64(MaxOrderAmount)*100 {
		t.Errorf("CreateOrder(max) = %+v, %v", order, err)
	}
}
