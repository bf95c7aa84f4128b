package store

import (
	"context"

	"github.com/amishk599/jobsift/internal/model"
)

// NopUploader discards uploads. Used by dry runs so nothing reaches the sheet.
type NopUploader struct{}

func NewNopUploader() *NopUploader { return &NopUploader{} }

func (NopUploader) Upload(_ context.Context, _ string, _ []model.PostingRecord) error { return nil }
