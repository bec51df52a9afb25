package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Purpose is a service an applicant can apply for, e.g. a Certificate of
// Confirmation. It mandates an ordered list of requirements.
type Purpose struct {
	Id           uuid.UUID
	Name         string
	Code         string
	Description  string
	DeadlineDays int
	IsActive     bool
	Requirements []Requirement
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ActiveRequirements returns the requirements an application must satisfy.
func (p *Purpose) ActiveRequirements() []Requirement {
	out := make([]Requirement, 0, len(p.Requirements))
	for _, r := range p.Requirements {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out
}

type Requirement struct {
	Id           uuid.UUID
	PurposeId    uuid.UUID
	Name         string
	Description  string
	IsMandatory  bool
	AllowedTypes []string // file extensions, e.g. pdf, jpg
	MaxSizeMB    int
	SortOrder    int
	IsActive     bool
}

// Accepts reports whether ext (with or without the dot) is allowed. An
// empty list accepts anything the global upload policy allows.
func (r *Requirement) Accepts(ext string) bool {
	if len(r.AllowedTypes) == 0 {
		return true
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, t := range r.AllowedTypes {
		if strings.ToLower(t) == ext {
			return true
		}
		if (t == "jpg" || t == "jpeg") && (ext == "jpg" || ext == "jpeg") {
			return true
		}
	}
	return false
}

// CodeFromName builds an acronym code, "Certificate of Confirmation" -> "COC".
func CodeFromName(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(w[:1]))
	}
	return b.String()
}
