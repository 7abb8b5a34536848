package submissions

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/shoreline/internal/capture"
	"github.com/JaimeStill/shoreline/internal/contributions"
	"github.com/JaimeStill/shoreline/internal/metrics"
	"github.com/JaimeStill/shoreline/pkg/storage"
)

// Submitter uploads submission photos and records the contribution.
type Submitter struct {
	store         storage.System
	contributions contributions.System
	logger        *slog.Logger
	recorder      metrics.Recorder
}

// New creates a Submitter. A nil recorder disables metrics.
func New(
	store storage.System,
	contribs contributions.System,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *Submitter {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Submitter{
		store:         store,
		contributions: contribs,
		logger:        logger.With("system", "submissions"),
		recorder:      recorder,
	}
}

type upload struct {
	slot capture.Slot
	key  string
	url  string
	err  error
}

// Submit uploads every present photo in parallel and then inserts one
// contribution. A product upload failure aborts before the insert; an
// optional photo that fails to upload is recorded as absent.
func (s *Submitter) Submit(ctx context.Context, sub Submission) (uuid.UUID, error) {
	if !sub.Images.Has(capture.SlotProduct) {
		return uuid.Nil, ErrMissingProduct
	}

	id := uuid.New()
	start := time.Now()

	uploads, err := s.uploadAll(ctx, id, sub.Images)
	if err != nil {
		s.compensate(ctx, uploads)
		s.recorder.RecordOperation(metrics.OpSubmission, "upload_failed")
		return uuid.Nil, err
	}

	cmd := contributions.CreateCommand{
		ID:                     id,
		ProductImageURL:        uploads[capture.SlotProduct].url,
		BackImageURL:           slotURL(uploads, capture.SlotBack),
		RecyclingImageURL:      slotURL(uploads, capture.SlotRecycling),
		ManufacturerImageURL:   slotURL(uploads, capture.SlotManufacturer),
		Latitude:               sub.Location.Latitude,
		Longitude:              sub.Location.Longitude,
		LocationAccuracy:       sub.Location.Accuracy,
		BeachName:              optional(sub.BeachName),
		BrandSuggestion:        optional(sub.Brand),
		ManufacturerSuggestion: optional(sub.Manufacturer),
		PlasticTypeSuggestion:  optional(sub.PlasticType),
		Notes:                  optional(sub.Notes),
		ContributorID:          optional(sub.ContributorID),
	}

	c, err := s.contributions.Create(ctx, cmd)
	if err != nil {
		s.compensate(ctx, uploads)
		s.recorder.RecordOperation(metrics.OpSubmission, "persist_failed")
		return uuid.Nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	s.recorder.RecordOperation(metrics.OpSubmission, "success")
	s.recorder.RecordDuration(metrics.OpSubmission, time.Since(start).Seconds())
	s.logger.Info("contribution submitted", "id", c.ID, "images", len(uploads))
	return c.ID, nil
}

func (s *Submitter) uploadAll(ctx context.Context, id uuid.UUID, images capture.Images) (map[capture.Slot]upload, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(map[capture.Slot]upload, images.Len())

	for _, slot := range images.Present() {
		img, _ := images.Get(slot)
		g.Go(func() error {
			u := s.uploadOne(gctx, id, slot, img)

			mu.Lock()
			results[slot] = u
			mu.Unlock()

			if u.err != nil && slot.Required() {
				return fmt.Errorf("%w: %s: %w", ErrUploadFailed, slot, u.err)
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

func (s *Submitter) uploadOne(ctx context.Context, id uuid.UUID, slot capture.Slot, img capture.Image) upload {
	key := BlobKey(id, slot, img.Extension())
	u := upload{slot: slot, key: key}

	if err := s.store.Upload(ctx, key, bytes.NewReader(img.Data()), img.ContentType()); err != nil {
		s.recorder.RecordOperation(metrics.OpUpload, "error")
		s.logger.Warn("image upload failed", "slot", slot, "key", key, "error", err)
		u.err = err
		return u
	}

	s.recorder.RecordOperation(metrics.OpUpload, "success")
	u.url = s.store.URL(key)
	return u
}

// compensate removes blobs that were uploaded for a submission that will
// not be recorded. Failures are logged and otherwise ignored.
func (s *Submitter) compensate(ctx context.Context, uploads map[capture.Slot]upload) {
	ctx = context.WithoutCancel(ctx)
	for _, u := range uploads {
		if u.err != nil || u.url == "" {
			continue
		}
		if err := s.store.Delete(ctx, u.key); err != nil {
			s.logger.Warn("compensating blob delete failed", "key", u.key, "error", err)
		}
	}
}

// BlobKey builds the storage key for a contribution photo:
// contributions/<id>/<slot>-<random>.<ext>.
func BlobKey(id uuid.UUID, slot capture.Slot, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("contributions/%s/%s-%s%s", id, slot, suffix, ext)
}

func slotURL(uploads map[capture.Slot]upload, slot capture.Slot) *string {
	u, ok := uploads[slot]
	if !ok || u.err != nil || u.url == "" {
		return nil
	}
	return &u.url
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
