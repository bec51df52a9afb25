package entity

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

func (g Gender) Known() bool {
	return g == GenderMale || g == GenderFemale
}

// RelationshipType names an ancestor of the person a relationship belongs
// to. A person has at most one relationship of each type.
type RelationshipType string

const (
	RelationshipFather              RelationshipType = "father"
	RelationshipMother              RelationshipType = "mother"
	RelationshipPaternalGrandfather RelationshipType = "paternal_grandfather"
	RelationshipPaternalGrandmother RelationshipType = "paternal_grandmother"
	RelationshipMaternalGrandfather RelationshipType = "maternal_grandfather"
	RelationshipMaternalGrandmother RelationshipType = "maternal_grandmother"
)

var relationshipRank = map[RelationshipType]int{
	RelationshipFather:              1,
	RelationshipMother:              2,
	RelationshipPaternalGrandfather: 3,
	RelationshipPaternalGrandmother: 4,
	RelationshipMaternalGrandfather: 5,
	RelationshipMaternalGrandmother: 6,
}

func (t RelationshipType) Valid() bool {
	_, ok := relationshipRank[t]
	return ok
}

// Rank orders relationships parents first, then the paternal and maternal
// grandparents.
func (t RelationshipType) Rank() int {
	if r, ok := relationshipRank[t]; ok {
		return r
	}
	return len(relationshipRank) + 1
}

// Gender is the gender the related person must have.
func (t RelationshipType) Gender() Gender {
	switch t {
	case RelationshipFather, RelationshipPaternalGrandfather, RelationshipMaternalGrandfather:
		return GenderMale
	default:
		return GenderFemale
	}
}

// ParentRelationship is the link from a child to a parent of gender g.
func ParentRelationship(g Gender) RelationshipType {
	if g == GenderMale {
		return RelationshipFather
	}
	return RelationshipMother
}

type GenealogyRecord struct {
	Id               uuid.UUID
	FullName         string
	FirstName        string
	MiddleName       string
	LastName         string
	Suffix           string
	BirthDate        *time.Time
	BirthPlace       string
	Ethnicity        string
	TribeAffiliation string
	Barangay         string
	City             string
	Province         string
	CurrentAddress   string
	// GenerationLevel counts down the tree: a child is one level above its
	// parents.
	GenerationLevel int
	Gender          Gender
	IsLiving        bool
	IsVerified      bool
	VerifiedBy      *uuid.UUID
	VerifiedAt      *time.Time
	Notes           string
	CreatedBy       uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type GenealogyRelationship struct {
	Id              uuid.UUID
	PersonId        uuid.UUID
	RelatedPersonId uuid.UUID
	Type            RelationshipType
	CreatedBy       uuid.UUID
	CreatedAt       time.Time
}

type EthnicityCount struct {
	Ethnicity string
	Count     int64
}

type GenealogyStats struct {
	Total       int64
	Ethnicities int64
	Verified    int64
	Generation3 int64
	Generation4 int64
	Generation5 int64
	// Generation6Plus counts levels 6 and above.
	Generation6Plus int64
	ByEthnicity     []EthnicityCount
}
