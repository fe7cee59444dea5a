package riskfeed

import (
	"github.com/kailas-cloud/riskfeed/internal/domain/document"
	"github.com/kailas-cloud/riskfeed/internal/domain/risk"
	"github.com/kailas-cloud/riskfeed/internal/domain/stats"
	"github.com/kailas-cloud/riskfeed/internal/usecase/dashboard"
)

// Public names for the dashboard model.
type (
	Document   = document.Document
	Band       = risk.Band
	Category   = risk.Category
	Finding    = risk.Finding
	Summary    = stats.Summary
	FetchState = dashboard.FetchState
	View       = dashboard.View
	Row        = dashboard.Row
	Inspection = dashboard.Inspection
	Banner     = dashboard.Banner
	Snapshot   = dashboard.Snapshot
)

// Risk bands.
const (
	BandHigh   = risk.High
	BandMedium = risk.Medium
	BandLow    = risk.Low
)

// Fetch states.
const (
	StateIdle      = dashboard.StateIdle
	StateLoading   = dashboard.StateLoading
	StateReady     = dashboard.StateReady
	StateLoadError = dashboard.StateLoadError
)
