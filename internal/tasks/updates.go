package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSongs Phase = iota
	ExportSongs
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchSongs:
		return "fetch_songs"
	case ExportSongs:
		return "export_songs"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchingSongsUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSongs,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Fetching %d songs with %d workers...", total, workers),
	}
}

func songFetchedUpdate(step, total int, res SongFetchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Title()),
		Data:    res,
	}
}

func songFailedUpdate(step, total int, res SongFetchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ song %d: %v", step, total, res.SongID, res.Error),
		Data:    res,
	}
}

func exportCompletedUpdate(step, total int, title string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] wrote %s (%d files)", step, total, title, filesCount),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
	}
}
