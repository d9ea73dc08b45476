package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrSingularDesign    = errors.New("design matrix X'X is singular")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrNotFitted         = errors.New("model has not been fit")
	ErrNoOptions         = errors.New("no initialized model options")
)

var (
	ErrNoTrainingMatrix  = fmt.Errorf("no training matrix, %w", ErrInvalidInput)
	ErrNoTargetMatrix    = fmt.Errorf("no target matrix, %w", ErrInvalidInput)
	ErrNoObservations    = fmt.Errorf("no observations, %w", ErrInvalidInput)
	ErrTargetLenMismatch = fmt.Errorf("target length does not match training rows, %w", ErrInvalidInput)
	ErrTargetShape       = fmt.Errorf("target must be a single column, %w", ErrInvalidInput)

	ErrNoDesignMatrix     = fmt.Errorf("no design matrix for inference, %w", ErrInvalidInput)
	ErrFeatureLenMismatch = fmt.Errorf("number of features does not match number of model coefficients, %w", ErrDimensionMismatch)
	ErrCoefficientIndex   = fmt.Errorf("coefficient index out of range, %w", ErrDimensionMismatch)
)
