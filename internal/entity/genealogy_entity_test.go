package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationshipTypes(t *testing.T) {
	ordered := []RelationshipType{
		RelationshipFather,
		RelationshipMother,
		RelationshipPaternalGrandfather,
		RelationshipPaternalGrandmother,
		RelationshipMaternalGrandfather,
		RelationshipMaternalGrandmother,
	}
	for i, rt := range ordered {
		assert.True(t, rt.Valid())
		assert.Equal(t, i+1, rt.Rank())
	}
	assert.False(t, RelationshipType("cousin").Valid())
	assert.Greater(t, RelationshipType("cousin").Rank(), RelationshipMaternalGrandmother.Rank())

	assert.Equal(t, GenderMale, RelationshipPaternalGrandfather.Gender())
	assert.Equal(t, GenderFemale, RelationshipMaternalGrandmother.Gender())
	assert.Equal(t, RelationshipFather, ParentRelationship(GenderMale))
	assert.Equal(t, RelationshipMother, ParentRelationship(GenderFemale))
	assert.False(t, Gender("").Known())
}
