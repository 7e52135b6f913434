package domain

import (
	"fmt"
	"unicode/utf8"
)

const MaxNoteLength = 2000

// EntryPatch is the body accepted by start and end. On start an absent field
// and an explicit null mean the same thing; on end only present fields are
// applied.
type EntryPatch struct {
	ProjectID Optional[*int64]  `json:"project_id"`
	Note      Optional[*string] `json:"note"`
	Tags      Optional[[]int64] `json:"tags"`
}

// Project returns the referenced project id, nil when absent or null.
func (p EntryPatch) Project() *int64 {
	return p.ProjectID.Value
}

// TouchesDetails reports whether project_id or note was supplied.
func (p EntryPatch) TouchesDetails() bool {
	return p.ProjectID.Set || p.Note.Set
}

// Validate checks field shapes. Ownership is checked separately.
func (p EntryPatch) Validate() error {
	fields := map[string]string{}

	if p.ProjectID.Set && p.ProjectID.Value != nil && *p.ProjectID.Value <= 0 {
		fields["project_id"] = "must be a positive integer"
	}
	if p.Note.Set && p.Note.Value != nil && utf8.RuneCountInString(*p.Note.Value) > MaxNoteLength {
		fields["note"] = fmt.Sprintf("must be at most %d characters", MaxNoteLength)
	}
	if p.Tags.Set {
		if p.Tags.Value == nil {
			fields["tags"] = "must be an array"
		} else {
			for i, id := range p.Tags.Value {
				if id <= 0 {
					fields[fmt.Sprintf("tags.%d", i)] = "must be a positive integer"
				}
			}
		}
	}

	if len(fields) > 0 {
		return Validation(fields)
	}
	return nil
}
