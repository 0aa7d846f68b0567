package api

import "github.com/persistorai/citegraph/internal/domain"

// CitationService defines the expansion operations used by CitationHandler.
type CitationService = domain.CitationService

// ReferenceService defines the reference-set operations used by ReferenceHandler.
type ReferenceService = domain.ReferenceService

// RunService defines the run operations used by RunHandler.
type RunService = domain.RunService
