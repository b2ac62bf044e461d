package ledger

import (
	"errors"
	"time"

	"studyportal.org/internal/catalog"
)

// Status is the application lifecycle state. Every application starts pending;
// an institution moves it to approved or rejected, and final states are sticky.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Final reports whether the status is a terminal decision.
func (s Status) Final() bool {
	return s == StatusApproved || s == StatusRejected
}

// Application records one student applying to one program.
type Application struct {
	ID        string    `json:"id"`
	ProgramID string    `json:"programId"`
	StudentID string    `json:"studentId"`
	Status    Status    `json:"status"`
	AppliedAt time.Time `json:"applicationDate"`
}

// JoinedApplication is the read shape used by dashboards: the application plus
// its resolved program.
type JoinedApplication struct {
	Application
	Program catalog.Program `json:"program"`
}

var (
	ErrInvalidInput         = errors.New("ledger: invalid input")
	ErrInvalidStatus        = errors.New("ledger: status must be approved or rejected")
	ErrProgramNotFound      = errors.New("ledger: program not found")
	ErrDuplicateApplication = errors.New("ledger: application already exists for this student and program")
	ErrApplicationNotFound  = errors.New("ledger: application not found")
	ErrStatusFinal          = errors.New("ledger: application already decided")
	// ErrDanglingProgram marks a stored application whose program no longer
	// resolves. A data-integrity fault, never a normal outcome.
	ErrDanglingProgram = errors.New("ledger: application references a missing program")
)
