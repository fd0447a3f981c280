package config

import (
	"fmt"
	"time"
)

// WipMode selects how a view fetches WIP snapshots.
type WipMode string

const (
	// WipAll fans out one request per visible segment.
	WipAll WipMode = "all"
	// WipSingle fetches only the displayed segment.
	WipSingle WipMode = "single"
)

// ViewConfig parameterises the dashboard poller for one kind of view.
type ViewConfig struct {
	Name           string
	PollInterval   time.Duration
	HeaderEvery    int // fetch headers every Nth tick
	MediaEvery     int // fetch style media every Nth tick
	WipMode        WipMode
	WipEvery       int
	WipConcurrency int
	// SlideInterval advances the displayed segment; zero disables auto-slide.
	SlideInterval time.Duration
}

var views = map[string]ViewConfig{
	"grid": {
		Name:           "grid",
		PollInterval:   15 * time.Second,
		HeaderEvery:    6,
		MediaEvery:     12,
		WipMode:        WipAll,
		WipEvery:       1,
		WipConcurrency: 5,
	},
	"full": {
		Name:           "full",
		PollInterval:   15 * time.Second,
		HeaderEvery:    6,
		MediaEvery:     12,
		WipMode:        WipAll,
		WipEvery:       4,
		WipConcurrency: 5,
	},
	"tv": {
		Name:           "tv",
		PollInterval:   30 * time.Second,
		HeaderEvery:    6,
		MediaEvery:     12,
		WipMode:        WipSingle,
		WipEvery:       3,
		WipConcurrency: 1,
		SlideInterval:  10 * time.Second,
	},
}

// View returns the preset for name.
func View(name string) (ViewConfig, error) {
	v, ok := views[name]
	if !ok {
		return ViewConfig{}, fmt.Errorf("unknown view %q", name)
	}
	return v, nil
}

// ViewNames lists the presets.
func ViewNames() []string {
	return []string{"grid", "full", "tv"}
}

// Normalized fills zero fields with safe minimums.
func (v ViewConfig) Normalized() ViewConfig {
	if v.PollInterval <= 0 {
		v.PollInterval = 15 * time.Second
	}
	if v.HeaderEvery < 1 {
		v.HeaderEvery = 1
	}
	if v.MediaEvery < 1 {
		v.MediaEvery = 1
	}
	if v.WipEvery < 1 {
		v.WipEvery = 1
	}
	if v.WipConcurrency < 1 {
		v.WipConcurrency = 1
	}
	if v.WipMode == "" {
		v.WipMode = WipAll
	}
	return v
}
