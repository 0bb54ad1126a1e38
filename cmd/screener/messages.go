package main

import "github.com/Simon666Z/quantforge/internal/scan"

// ScreenDoneMsg carries the results of a finished screen.
type ScreenDoneMsg struct {
	Results []scan.UnitResult
}

// ScreenErrorMsg indicates the screen could not run at all.
type ScreenErrorMsg struct {
	Err error
}
