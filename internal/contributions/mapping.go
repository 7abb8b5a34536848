package contributions

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/JaimeStill/shoreline/pkg/query"
	"github.com/JaimeStill/shoreline/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "contributions", "c").
	Project("id", "ID").
	Project("product_image_url", "ProductImageURL").
	Project("back_image_url", "BackImageURL").
	Project("recycling_image_url", "RecyclingImageURL").
	Project("manufacturer_image_url", "ManufacturerImageURL").
	Project("latitude", "Latitude").
	Project("longitude", "Longitude").
	Project("location_accuracy", "LocationAccuracy").
	Project("beach_name", "BeachName").
	Project("brand_suggestion", "BrandSuggestion").
	Project("manufacturer_suggestion", "ManufacturerSuggestion").
	Project("plastic_type_suggestion", "PlasticTypeSuggestion").
	Project("brand", "Brand").
	Project("manufacturer", "Manufacturer").
	Project("plastic_type", "PlasticType").
	Project("notes", "Notes").
	Project("contributor_id", "ContributorID").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("classified_at", "ClassifiedAt").
	Project("reviewed_by", "ReviewedBy").
	Project("review_notes", "ReviewNotes")

const returningColumns = `id, product_image_url, back_image_url, recycling_image_url, manufacturer_image_url,
	latitude, longitude, location_accuracy, beach_name,
	brand_suggestion, manufacturer_suggestion, plastic_type_suggestion,
	brand, manufacturer, plastic_type, notes, contributor_id,
	status, created_at, updated_at, classified_at, reviewed_by, review_notes`

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Invalid:   ErrInvalidContribution,
}

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for contribution queries.
// Status, PlasticType, ReviewedBy and ContributorID match exactly.
// Brand, Manufacturer and BeachName use case-insensitive contains matching.
// The remaining fields are inclusive bounds; a nil bound is open.
type Filters struct {
	Status        *string `json:"status,omitempty"`
	Brand         *string `json:"brand,omitempty"`
	Manufacturer  *string `json:"manufacturer,omitempty"`
	PlasticType   *string `json:"plastic_type,omitempty"`
	BeachName     *string `json:"beach_name,omitempty"`
	ReviewedBy    *string `json:"reviewed_by,omitempty"`
	ContributorID *string `json:"contributor_id,omitempty"`

	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
	MinLatitude   *float64   `json:"min_latitude,omitempty"`
	MaxLatitude   *float64   `json:"max_latitude,omitempty"`
	MinLongitude  *float64   `json:"min_longitude,omitempty"`
	MaxLongitude  *float64   `json:"max_longitude,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Brand", f.Brand).
		WhereContains("Manufacturer", f.Manufacturer).
		WhereEquals("PlasticType", f.PlasticType).
		WhereContains("BeachName", f.BeachName).
		WhereEquals("ReviewedBy", f.ReviewedBy).
		WhereEquals("ContributorID", f.ContributorID).
		WhereBetween("CreatedAt", f.CreatedAfter, f.CreatedBefore).
		WhereBetween("Latitude", f.MinLatitude, f.MaxLatitude).
		WhereBetween("Longitude", f.MinLongitude, f.MaxLongitude)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Timestamps are RFC 3339. A malformed bound wraps ErrInvalidContribution.
func FiltersFromQuery(values url.Values) (Filters, error) {
	get := func(key string) *string {
		if v := values.Get(key); v != "" {
			return &v
		}
		return nil
	}

	f := Filters{
		Status:        get("status"),
		Brand:         get("brand"),
		Manufacturer:  get("manufacturer"),
		PlasticType:   get("plastic_type"),
		BeachName:     get("beach_name"),
		ReviewedBy:    get("reviewed_by"),
		ContributorID: get("contributor_id"),
	}

	var errs []error
	parseTime := func(key string) *time.Time {
		v := values.Get(key)
		if v == "" {
			return nil
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return nil
		}
		return &t
	}
	parseFloat := func(key string) *float64 {
		v := values.Get(key)
		if v == "" {
			return nil
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return nil
		}
		return &n
	}

	f.CreatedAfter = parseTime("created_after")
	f.CreatedBefore = parseTime("created_before")
	f.MinLatitude = parseFloat("min_latitude")
	f.MaxLatitude = parseFloat("max_latitude")
	f.MinLongitude = parseFloat("min_longitude")
	f.MaxLongitude = parseFloat("max_longitude")

	if len(errs) > 0 {
		return Filters{}, fmt.Errorf("%w: %w", ErrInvalidContribution, errors.Join(errs...))
	}
	return f, nil
}

func scanContribution(s repository.Scanner) (Contribution, error) {
	var c Contribution
	err := s.Scan(
		&c.ID,
		&c.ProductImageURL,
		&c.BackImageURL,
		&c.RecyclingImageURL,
		&c.ManufacturerImageURL,
		&c.Latitude,
		&c.Longitude,
		&c.LocationAccuracy,
		&c.BeachName,
		&c.BrandSuggestion,
		&c.ManufacturerSuggestion,
		&c.PlasticTypeSuggestion,
		&c.Brand,
		&c.Manufacturer,
		&c.PlasticType,
		&c.Notes,
		&c.ContributorID,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.ClassifiedAt,
		&c.ReviewedBy,
		&c.ReviewNotes,
	)
	return c, err
}
