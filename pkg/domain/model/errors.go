package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classifying why a forward call did not succeed
var (
	ErrTagValidation = goerr.NewTag("validation")
	ErrTagTransport  = goerr.NewTag("transport")
	ErrTagAPI        = goerr.NewTag("api")
	ErrTagDecode     = goerr.NewTag("decode")
)

// Sentinel errors for domain operations
var (
	ErrMissingEmail = goerr.New("missing required field: "+FieldEmail, goerr.T(ErrTagValidation))
	ErrFeedNotFound = goerr.New("feed not found")
	ErrFeedDisabled = goerr.New("feed is disabled")
)
