package ui

import (
	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = seedItem{}

// seedItem wraps a seed artist name to implement [list.Item].
type seedItem struct {
	name string
}

func (i seedItem) FilterValue() string { return i.name }
func (i seedItem) Title() string       { return i.name }
func (i seedItem) Description() string { return "library artist" }
