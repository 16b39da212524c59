package entities

import "errors"

// ErrDatasetNotFound is returned when the test case dataset does not exist.
// It is a configuration error and halts startup.
var ErrDatasetNotFound = errors.New("dataset not found")
