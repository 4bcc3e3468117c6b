package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumValidity(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), "category %q", c)
	}
	assert.False(t, Category("bogus").Valid())
	assert.False(t, Category("").Valid())

	for _, s := range Statuses() {
		assert.True(t, s.Valid(), "status %q", s)
	}
	assert.False(t, Status("bogus").Valid())

	for _, p := range Priorities() {
		assert.True(t, p.Valid(), "priority %q", p)
	}
	assert.False(t, Priority("bogus").Valid())
}

func TestStatusReviewTerminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusDraft:         false,
		StatusPendingReview: false,
		StatusReviewed:      true,
		StatusApproved:      true,
		StatusRejected:      true,
		StatusArchived:      false,
	}
	for s, want := range terminal {
		assert.Equal(t, want, s.ReviewTerminal(), "status %q", s)
	}
}

func TestDocumentPatchEmpty(t *testing.T) {
	assert.True(t, DocumentPatch{}.Empty())

	title := "New title"
	assert.False(t, DocumentPatch{Title: &title}.Empty())

	empty := ""
	// Present-but-empty is still a change request, not an empty patch.
	assert.False(t, DocumentPatch{Description: &empty}.Empty())
}
