package tasks

import "fmt"

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
	DiscoverSeeds Phase = iota
	ClassifyArtists
	FetchTracks
	CreatePlaylists
)

func (p Phase) String() string {
	switch p {
	case DiscoverSeeds:
		return "discover_seeds"
	case ClassifyArtists:
		return "classify_artists"
	case FetchTracks:
		return "fetch_tracks"
	case CreatePlaylists:
		return "create_playlists"
	default:
		return ""
	}
}

func seedProcessingUpdate(step, total int, seed string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DiscoverSeeds,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Looking up artists related to %s...", step, total, seed),
	}
}

func seedProcessedUpdate(step, total int, seed string, found int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DiscoverSeeds,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %d new artists", step, total, seed, found),
	}
}

func seedFailedUpdate(step, total int, seed string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DiscoverSeeds,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s failed: %v", step, total, seed, err),
	}
}

func classifyUpdate(step, total int, artist string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClassifyArtists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Classifying %s...", step, total, artist),
	}
}

func classifiedUpdate(step, total int, artist, genre string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClassifyArtists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s → %s", step, total, artist, genre),
	}
}

func fetchTracksUpdate(step, total int, artist, genre string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching top tracks for %s (%s)...", step, total, artist, genre),
	}
}

func playlistCreatedUpdate(step, total int, name string, tracks int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Created %s (%d tracks)", step, total, name, tracks),
	}
}

func playlistSkippedUpdate(step, total int, genre, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Skipped %s: %s", step, total, genre, reason),
	}
}
