package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConfiguration indicates missing or invalid accounting setup: no company,
// no journal, no tax account configured for a tax/company combination, a
// closed period, a restricted functional origin, or an inactive referenced
// entity.
var ErrConfiguration = errors.New("accounting configuration error")

// ErrInconsistency indicates internally contradictory data: a line carrying
// both debit and credit, unbalanced totals, or an empty/zero-effect line list.
var ErrInconsistency = errors.New("inconsistent accounting data")

// ErrMissingField indicates a required value absent on a specific move line
// (required tax line, required analytic distribution, required cut-off dates).
var ErrMissingField = errors.New("missing required field")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
