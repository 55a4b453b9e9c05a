package caseflow

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"case-flow-backend/models"
)

type UnknownStatusError struct {
	Status models.CaseStatus
}

func (e UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown status: %s", e.Status)
}

// IllegalTransitionError names the attempted edge and the edges the rules
// allow from the current status, so the caller can show the options.
type IllegalTransitionError struct {
	From    models.CaseStatus
	To      models.CaseStatus
	Allowed []models.CaseStatus
}

func (e IllegalTransitionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, status := range e.Allowed {
		allowed = append(allowed, string(status))
	}
	return fmt.Sprintf("transition %s -> %s is not allowed, allowed: [%s]",
		e.From, e.To, strings.Join(allowed, ", "))
}

type MissingFieldError struct {
	Field  string
	Reason string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required: %s", e.Field, e.Reason)
}

// IsDomainError reports whether err is a rule violation the caller caused,
// as opposed to an internal failure.
func IsDomainError(err error) bool {
	var unknown UnknownStatusError
	var illegal IllegalTransitionError
	var missing MissingFieldError
	return errors.As(err, &unknown) || errors.As(err, &illegal) || errors.As(err, &missing)
}
