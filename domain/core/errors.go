package core

import "errors"

// Domain validation sentinels
var (
	ErrDatasetNameRequired = errors.New("dataset name is required")
	ErrViewNameRequired    = errors.New("view name is required")
	ErrViewDatasetRequired = errors.New("view must reference a dataset")
)
