package storage

import "emlak-analytics/models"

// ListingWriter is the interface any storage sink must satisfy.
type ListingWriter interface {
	Write(listings []models.Listing) error
	Close() error
}
