package client

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

// Client is the remote sharing service as seen by the note client.
type Client interface {
	// GetChallenge requests a fresh captcha.
	GetChallenge(ctx context.Context) (*models.Challenge, error)

	// ShareNote submits note with the user's captcha response and returns
	// the canonical shared copy.
	ShareNote(ctx context.Context, note *models.Note, captcha string) (*models.Note, error)

	// GetNote fetches a shared note by id.
	GetNote(ctx context.Context, id int64) (*models.Note, error)
}
