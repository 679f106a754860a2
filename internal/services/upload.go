package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harentsoaR/medihub-api/internal/apperr"
)

const MsgInvalidFileType = "Invalid file type! Only JPEG, PNG, and WebP are allowed."

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// TempFile is an accepted upload waiting to be relayed.
type TempFile struct {
	Path        string
	ContentType string
	Size        int64
}

type UploadConfig struct {
	TempDir  string
	Folder   string
	MaxBytes int64
}

// UploadRelay validates an uploaded image, keeps a local copy and forwards it
// to the image host.
type UploadRelay struct {
	host     ImageHost
	cfg      UploadConfig
	attempts int
	backoff  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	logger   zerolog.Logger
}

func NewUploadRelay(host ImageHost, cfg UploadConfig, logger zerolog.Logger) *UploadRelay {
	return &UploadRelay{
		host:     host,
		cfg:      cfg,
		attempts: 3,
		backoff:  time.Second,
		sleep:    sleepContext,
		logger:   logger,
	}
}

// Accept checks the declared and the sniffed content type and the size of fh
// before copying it to the temp directory. Every rejection is a 400.
func (r *UploadRelay) Accept(fh *multipart.FileHeader) (*TempFile, error) {
	if fh.Size > r.cfg.MaxBytes {
		return nil, r.TooLarge()
	}
	declared, _, _ := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if _, ok := imageExtensions[declared]; !ok {
		return nil, apperr.BadRequest(MsgInvalidFileType)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, err
	}
	ext, ok := imageExtensions[detected.String()]
	if !ok {
		return nil, apperr.BadRequest(MsgInvalidFileType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(r.cfg.TempDir, 0o755); err != nil {
		return nil, err
	}
	dst, err := os.CreateTemp(r.cfg.TempDir, "upload-*"+ext)
	if err != nil {
		return nil, err
	}
	n, copyErr := io.Copy(dst, io.LimitReader(src, r.cfg.MaxBytes+1))
	closeErr := dst.Close()
	tmp := &TempFile{Path: dst.Name(), ContentType: detected.String(), Size: n}
	switch {
	case copyErr != nil:
		r.Discard(tmp)
		return nil, copyErr
	case closeErr != nil:
		r.Discard(tmp)
		return nil, closeErr
	case n > r.cfg.MaxBytes:
		r.Discard(tmp)
		return nil, r.TooLarge()
	}
	return tmp, nil
}

// MaxBytes is the largest accepted image size.
func (r *UploadRelay) MaxBytes() int64 {
	return r.cfg.MaxBytes
}

// TooLarge is the 400 reported for an image over MaxBytes.
func (r *UploadRelay) TooLarge() error {
	return apperr.BadRequest(fmt.Sprintf("File too large! Maximum size is %dMB.", r.cfg.MaxBytes>>20))
}

// Relay uploads tmp, retrying failed attempts after attempt × backoff. The
// caller still owns tmp and should Discard it.
func (r *UploadRelay) Relay(ctx context.Context, tmp *TempFile) (string, error) {
	publicID := uuid.NewString()
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		url, err := r.upload(ctx, tmp, publicID)
		if err == nil {
			return url, nil
		}
		lastErr = err
		r.logger.Warn().Err(err).Int("attempt", attempt).Str("file", tmp.Path).Msg("image upload failed")

		if attempt < r.attempts {
			if err := r.sleep(ctx, time.Duration(attempt)*r.backoff); err != nil {
				lastErr = err
				break
			}
		}
	}
	return "", apperr.Wrap(http.StatusBadGateway,
		fmt.Sprintf("Image upload failed after %d attempts: %v", r.attempts, lastErr), lastErr)
}

func (r *UploadRelay) upload(ctx context.Context, tmp *TempFile, publicID string) (string, error) {
	f, err := os.Open(tmp.Path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return r.host.Upload(ctx, f, tmp.ContentType, r.cfg.Folder, publicID)
}

// Discard removes the local copy. Failures are only logged.
func (r *UploadRelay) Discard(tmp *TempFile) {
	if tmp == nil {
		return
	}
	if err := os.Remove(tmp.Path); err != nil && !os.IsNotExist(err) {
		r.logger.Warn().Err(err).Str("file", tmp.Path).Msg("failed to remove temp upload")
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
