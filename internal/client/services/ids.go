package services

import (
	"math/rand/v2"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

const (
	MinNoteID = common.MinNoteID
	MaxNoteID = common.MaxNoteID
)

// IDGenerator proposes ids for new notes. Proposals are not checked for
// uniqueness; the store rejects an occupied id.
type IDGenerator interface {
	NextID() int64
}

type randomIDs struct{}

// RandomIDs draws ids uniformly from [MinNoteID, MaxNoteID].
func RandomIDs() IDGenerator { return randomIDs{} }

func (randomIDs) NextID() int64 {
	return MinNoteID + rand.Int64N(MaxNoteID-MinNoteID+1)
}

// ValidID reports whether id has six to nine digits.
func ValidID(id int64) bool {
	return id >= MinNoteID && id <= MaxNoteID
}
