package models

import "errors"

// ErrRecordNotFound is returned by repositories when a document does not exist
var ErrRecordNotFound = errors.New("record not found")
