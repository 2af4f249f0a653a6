package storage

import (
	"context"

	"gated-communities-scraper/models"
)

// FileWriter serialises an ordered set of communities to a single file.
type FileWriter interface {
	Write(path string, communities []*models.Community) error
	Ext() string
}

// CommunityStore persists communities outside the output directory.
type CommunityStore interface {
	Save(ctx context.Context, postalCode string, communities []*models.Community) error
	Close() error
}
