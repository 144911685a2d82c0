package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeModality_NilDescriptor_EmptySet(t *testing.T) {
	set := NormalizeModality(ModalityValue{})
	assert.True(t, set.Empty())
}

func TestNormalizeModality_SlashSeparatedString(t *testing.T) {
	set := NormalizeModality(ModalityString("CT/MRI"))
	assert.True(t, set.Has(ModalityCT))
	assert.True(t, set.Has(ModalityMRI))
	assert.Len(t, set, 2)
}

func TestNormalizeModality_AliasTable(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"KT", ModalityCT},
		{"КТ", ModalityCT},
		{"kt", ModalityCT},
		{"MRT", ModalityMRI},
		{"МРТ", ModalityMRI},
		{"RENTGEN", ModalityXRay},
		{"РЕНТГЕН", ModalityXRay},
		{"X_RAY", ModalityXRay},
		{"УЗИ", ModalityUS},
		{"ULTRASOUND", ModalityUS},
		{"ПРОЧЕЕ", ModalityOther},
		{"", ModalityOther},
		{"  mrt  ", ModalityMRI},
	}
	for _, tc := range cases {
		set := NormalizeModality(ModalityString(tc.raw))
		assert.True(t, set.Has(tc.want), "raw %q should normalize to %s, got %v", tc.raw, tc.want, set.Sorted())
	}
}

func TestNormalizeModality_UnknownTokenPassesThrough(t *testing.T) {
	set := NormalizeModality(ModalityString(" pet-ct "))
	assert.True(t, set.Has("PET-CT"))
	assert.Len(t, set, 1)
}

func TestNormalizeModality_ListCollapsesDuplicates(t *testing.T) {
	set := NormalizeModality(ModalityList([]string{"CT", "KT", "кт"}))
	assert.Equal(t, []string{"CT"}, set.Sorted())
}

func TestNormalizeModality_EmptyList_EmptySet(t *testing.T) {
	set := NormalizeModality(ModalityList(nil))
	assert.True(t, set.Empty())
}

func TestModalitySet_Compatible(t *testing.T) {
	ct := NewModalitySet(ModalityCT)
	mri := NewModalitySet(ModalityMRI)
	ctmri := NewModalitySet(ModalityCT, ModalityMRI)
	wildcard := ModalitySet{}

	assert.True(t, ct.Compatible(ctmri))
	assert.False(t, ct.Compatible(mri))
	assert.True(t, wildcard.Compatible(mri))
	assert.True(t, mri.Compatible(wildcard))
	assert.True(t, wildcard.Compatible(wildcard))
}
