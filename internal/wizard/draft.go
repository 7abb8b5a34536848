// Package wizard drives a contribution from first location fix to submission.
// A Draft is an immutable value; every transition returns a new Draft and
// leaves the receiver untouched. Session serializes transitions for one
// draft and runs the side effects (location, suggestions, submission).
package wizard

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/shoreline/internal/capture"
	"github.com/JaimeStill/shoreline/internal/geolocation"
	"github.com/JaimeStill/shoreline/internal/suggest"
)

// Step is a wizard position.
type Step string

const (
	StepLocation  Step = "location"
	StepPhotos    Step = "photos"
	StepDetails   Step = "details"
	StepSubmitted Step = "submitted"
)

// Mode selects how strictly a draft is validated on submit.
type Mode string

const (
	// SubmitFull requires brand and manufacturer.
	SubmitFull Mode = "full"
	// SubmitSkip submits without details; only the product photo is required.
	SubmitSkip Mode = "skip"
)

// ParseMode validates a submit mode. An empty string means SubmitFull.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", SubmitFull:
		return SubmitFull, nil
	case SubmitSkip:
		return SubmitSkip, nil
	default:
		return "", fmt.Errorf("%w: unknown submit mode %q", ErrInvalidRequest, s)
	}
}

// Fields is the free-text detail of a contribution.
type Fields struct {
	Brand        string `json:"brand"`
	Manufacturer string `json:"manufacturer"`
	PlasticType  string `json:"plastic_type"`
	BeachName    string `json:"beach_name"`
	Notes        string `json:"notes"`
}

// FieldsPatch updates the fields that are non-nil.
type FieldsPatch struct {
	Brand        *string `json:"brand,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`
	PlasticType  *string `json:"plastic_type,omitempty"`
	BeachName    *string `json:"beach_name,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (p FieldsPatch) apply(f Fields) Fields {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&f.Brand, p.Brand)
	set(&f.Manufacturer, p.Manufacturer)
	set(&f.PlasticType, p.PlasticType)
	set(&f.BeachName, p.BeachName)
	set(&f.Notes, p.Notes)
	return f
}

// Draft is a contribution in progress.
type Draft struct {
	id             uuid.UUID
	revision       int
	step           Step
	location       *geolocation.Location
	images         capture.Images
	fields         Fields
	suggestionID   uuid.UUID
	contributionID uuid.UUID
	contributorID  string
}

// NewDraft starts a draft at the location step.
func NewDraft(contributorID string) Draft {
	return Draft{
		id:            uuid.New(),
		step:          StepLocation,
		contributorID: strings.TrimSpace(contributorID),
	}
}

// ID identifies the draft for its whole life.
func (d Draft) ID() uuid.UUID { return d.id }

// Revision increases with every transition.
func (d Draft) Revision() int { return d.revision }

// Step is the current wizard position.
func (d Draft) Step() Step { return d.step }

// Images returns the captured photos.
func (d Draft) Images() capture.Images { return d.images }

// Fields returns the detail fields.
func (d Draft) Fields() Fields { return d.fields }

// ContributorID is the optional id given when the draft was started.
func (d Draft) ContributorID() string { return d.contributorID }

// ContributionID is set once the draft is submitted.
func (d Draft) ContributionID() uuid.UUID { return d.contributionID }

// PendingSuggestion is the suggestion request the draft is waiting on, or uuid.Nil.
func (d Draft) PendingSuggestion() uuid.UUID { return d.suggestionID }

// Location returns the recorded location; ok is false before one is set.
func (d Draft) Location() (geolocation.Location, bool) {
	if d.location == nil {
		return geolocation.Location{}, false
	}
	return *d.location, true
}

func (d Draft) next() Draft {
	d.revision++
	return d
}

func (d Draft) editable() error {
	if d.step == StepSubmitted {
		return fmt.Errorf("%w: draft already submitted", ErrInvalidStep)
	}
	return nil
}

// WithLocation records a location. At the location step it advances to photos.
func (d Draft) WithLocation(loc geolocation.Location) (Draft, error) {
	if err := d.editable(); err != nil {
		return d, err
	}
	if err := loc.Validate(); err != nil {
		return d, err
	}

	n := d.next()
	n.location = &loc
	if n.step == StepLocation {
		n.step = StepPhotos
	}
	return n, nil
}

// WithImage places a photo in slot. Changing photos invalidates any pending suggestion.
func (d Draft) WithImage(slot capture.Slot, img capture.Image) (Draft, error) {
	if err := d.photosEditable(); err != nil {
		return d, err
	}
	n := d.next()
	n.images = d.images.With(slot, img)
	n.suggestionID = uuid.Nil
	return n, nil
}

// WithoutImage clears slot.
func (d Draft) WithoutImage(slot capture.Slot) (Draft, error) {
	if err := d.photosEditable(); err != nil {
		return d, err
	}
	n := d.next()
	n.images = d.images.Without(slot)
	n.suggestionID = uuid.Nil
	return n, nil
}

func (d Draft) photosEditable() error {
	if d.step != StepPhotos && d.step != StepDetails {
		return fmt.Errorf("%w: photos can only change at the photos or details step", ErrInvalidStep)
	}
	return nil
}

// WithFields applies a patch to the detail fields.
func (d Draft) WithFields(p FieldsPatch) (Draft, error) {
	if err := d.editable(); err != nil {
		return d, err
	}
	n := d.next()
	n.fields = p.apply(d.fields)
	return n, nil
}

// Next moves forward one step. Leaving location needs a location and
// leaving photos needs a product photo. Details is left only by submitting.
func (d Draft) Next() (Draft, error) {
	switch d.step {
	case StepLocation:
		if d.location == nil {
			return d, ErrLocationRequired
		}
		n := d.next()
		n.step = StepPhotos
		return n, nil
	case StepPhotos:
		if !d.images.Has(capture.SlotProduct) {
			return d, ErrProductRequired
		}
		n := d.next()
		n.step = StepDetails
		return n, nil
	default:
		return d, fmt.Errorf("%w: no step after %s", ErrInvalidStep, d.step)
	}
}

// Back moves to the previous step, keeping all collected data.
// Any pending suggestion is dropped.
func (d Draft) Back() (Draft, error) {
	var prev Step
	switch d.step {
	case StepPhotos:
		prev = StepLocation
	case StepDetails:
		prev = StepPhotos
	default:
		return d, fmt.Errorf("%w: cannot go back from %s", ErrInvalidStep, d.step)
	}
	n := d.next()
	n.step = prev
	n.suggestionID = uuid.Nil
	return n, nil
}

// WantsSuggestion reports whether entering details should trigger an
// automatic suggestion: a product photo is present and brand is empty.
func (d Draft) WantsSuggestion() bool {
	return d.step == StepDetails &&
		d.images.Has(capture.SlotProduct) &&
		strings.TrimSpace(d.fields.Brand) == ""
}

// AwaitSuggestion marks requestID as the only suggestion this draft will accept.
func (d Draft) AwaitSuggestion(requestID uuid.UUID) (Draft, error) {
	if d.step != StepDetails {
		return d, fmt.Errorf("%w: suggestions run at the details step", ErrInvalidStep)
	}
	n := d.next()
	n.suggestionID = requestID
	return n, nil
}

// ApplySuggestion merges a settled suggestion into the empty fields. It is
// discarded, and ok is false, unless the draft is still at details and the
// result answers the pending request.
func (d Draft) ApplySuggestion(r suggest.Result) (Draft, bool) {
	if d.step != StepDetails || d.suggestionID == uuid.Nil || r.RequestID != d.suggestionID {
		return d, false
	}

	merged := r.Suggestion.MergeInto(suggest.Fields{
		Brand:        d.fields.Brand,
		Manufacturer: d.fields.Manufacturer,
		PlasticType:  d.fields.PlasticType,
	})

	n := d.next()
	n.fields.Brand = merged.Brand
	n.fields.Manufacturer = merged.Manufacturer
	n.fields.PlasticType = merged.PlasticType
	n.suggestionID = uuid.Nil
	return n, true
}

// ClearSuggestion drops a pending suggestion request.
func (d Draft) ClearSuggestion(requestID uuid.UUID) Draft {
	if d.suggestionID != requestID {
		return d
	}
	n := d.next()
	n.suggestionID = uuid.Nil
	return n
}

// Validate checks the draft can be submitted in mode. Both modes submit
// from the details step only.
func (d Draft) Validate(mode Mode) error {
	if err := d.editable(); err != nil {
		return err
	}
	if d.step != StepDetails {
		return fmt.Errorf("%w: submit from the details step", ErrInvalidStep)
	}
	if d.location == nil {
		return ErrLocationRequired
	}
	if !d.images.Has(capture.SlotProduct) {
		return ErrProductRequired
	}
	if mode == SubmitSkip {
		return nil
	}
	if strings.TrimSpace(d.fields.Brand) == "" {
		return ErrBrandRequired
	}
	if strings.TrimSpace(d.fields.Manufacturer) == "" {
		return ErrManufacturerRequired
	}
	return nil
}

// Submitted marks the draft as recorded under contributionID.
func (d Draft) Submitted(contributionID uuid.UUID) Draft {
	n := d.next()
	n.step = StepSubmitted
	n.contributionID = contributionID
	n.suggestionID = uuid.Nil
	return n
}
