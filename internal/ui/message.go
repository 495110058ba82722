package ui

import (
	"github.com/oliverjern/genregenius/internal/tasks"
)

// progressUpdateMsg carries one pipeline progress event into the Update loop.
type progressUpdateMsg tasks.ProgressUpdate

// runCompleteMsg signals that the pipeline goroutine has finished.
type runCompleteMsg struct {
	result *tasks.PipelineResult
	err    error
}
