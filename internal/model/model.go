package model

// Package model contains domain models/data structures.
// Pure data types shared across layers; no business logic here.

// Category classifies a document within a case file.
type Category string

const (
	CategoryContract       Category = "contract"
	CategoryPleading       Category = "pleading"
	CategoryEvidence       Category = "evidence"
	CategoryCorrespondence Category = "correspondence"
	CategoryInvoice        Category = "invoice"
	CategoryOther          Category = "other"
)

// Status tracks a document through its review lifecycle.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusPendingReview Status = "pending_review"
	StatusReviewed      Status = "reviewed"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusArchived      Status = "archived"
)

// Priority is an optional urgency marker set by the lawyer.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Categories lists every valid category value.
func Categories() []Category {
	return []Category{
		CategoryContract, CategoryPleading, CategoryEvidence,
		CategoryCorrespondence, CategoryInvoice, CategoryOther,
	}
}

// Statuses lists every valid status value.
func Statuses() []Status {
	return []Status{
		StatusDraft, StatusPendingReview, StatusReviewed,
		StatusApproved, StatusRejected, StatusArchived,
	}
}

// Priorities lists every valid priority value.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, v := range Statuses() {
		if s == v {
			return true
		}
	}
	return false
}

// ReviewTerminal reports whether entering s records reviewer identity and time.
func (s Status) ReviewTerminal() bool {
	return s == StatusReviewed || s == StatusApproved || s == StatusRejected
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	for _, v := range Priorities() {
		if p == v {
			return true
		}
	}
	return false
}
