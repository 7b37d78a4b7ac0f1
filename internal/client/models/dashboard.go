package models

import (
	"sort"
	"strings"
)

// DashboardStats is the body of GET /dashboard-stats/.
type DashboardStats struct {
	TotalFiles   int            `json:"total_files"`
	TotalSize    int64          `json:"total_size"`
	RecentFiles  int            `json:"recent_files"`
	FileTypes    map[string]int `json:"file_types"`
	FilesPerUser map[string]int `json:"files_per_user"`
}

// LabelCount is one slice of a breakdown chart.
type LabelCount struct {
	Label string
	Count int
}

// OlderFiles is the number of files outside the recent window.
func (s DashboardStats) OlderFiles() int {
	if older := s.TotalFiles - s.RecentFiles; older > 0 {
		return older
	}
	return 0
}

// TypeBreakdown returns file type counts with capitalized labels, sorted by label.
func (s DashboardStats) TypeBreakdown() []LabelCount {
	return breakdown(s.FileTypes, capitalize)
}

// UserBreakdown returns per-user file counts sorted by username.
func (s DashboardStats) UserBreakdown() []LabelCount {
	return breakdown(s.FilesPerUser, func(v string) string { return v })
}

func breakdown(m map[string]int, label func(string) string) []LabelCount {
	out := make([]LabelCount, 0, len(m))
	for k, v := range m {
		out = append(out, LabelCount{Label: label(k), Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func capitalize(v string) string {
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}
