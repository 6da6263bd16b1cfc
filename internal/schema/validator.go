// Package schema validates inbound recognizer updates before they reach
// the merge engine (spec §7).
package schema

import (
	"github.com/rs/zerolog/log"

	"transcript-merge-engine/internal/merge"
)

// Validator checks that an Update's parallel arrays are well-formed.
type Validator struct{}

// New constructs a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate rejects a malformed update without mutating it. A malformed
// update must be dropped whole: no Words are produced and no merge
// occurs for it.
func (v *Validator) Validate(u merge.Update) error {
	if err := u.Validate(); err != nil {
		log.Warn().Err(err).Msg("rejected malformed update")
		return err
	}
	return nil
}
