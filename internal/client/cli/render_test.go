package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/dmitrijs2005/filedesk/internal/client/views"
	"github.com/stretchr/testify/assert"
)

func TestRenderFiles(t *testing.T) {
	var buf bytes.Buffer
	renderFiles(&buf, views.FilesState{Loading: true})
	assert.Equal(t, "Loading...\n", buf.String())

	buf.Reset()
	renderFiles(&buf, views.FilesState{Error: "Failed to load files"})
	assert.Equal(t, "Error: Failed to load files\nNo files uploaded yet.\n", buf.String())

	buf.Reset()
	renderFiles(&buf, views.FilesState{
		Success: "File uploaded successfully!",
		Files: []models.FileRecord{
			{ID: 7, Filename: "notes.txt", FileSize: 2048},
		},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "File uploaded successfully!", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "ID"))
	assert.Contains(t, lines[2], "notes.txt")
	assert.Contains(t, lines[2], "2 KB")
	assert.True(t, strings.HasSuffix(lines[2], "-"))
}

func TestRenderProfile(t *testing.T) {
	var buf bytes.Buffer
	renderProfile(&buf, views.ProfileState{
		User: &models.User{Username: "ann", FirstName: "Ann", Email: "ann@example.com"},
		Addresses: []models.Address{
			{ID: 1, Street: "1 Main St", City: "Riga", IsDefault: true},
			{ID: 2, Street: "2 Side St", City: "Cesis"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Name:")
	assert.NotContains(t, out, "Phone:")

	var defaults []string
	for _, l := range strings.Split(out, "\n") {
		if strings.HasSuffix(strings.TrimSpace(l), "*") {
			defaults = append(defaults, l)
		}
	}
	if assert.Len(t, defaults, 1) {
		assert.Contains(t, defaults[0], "Riga")
	}
}

func TestRenderDashboard(t *testing.T) {
	var buf bytes.Buffer
	renderDashboard(&buf, views.DashboardState{Error: "Error loading dashboard data"})
	assert.Equal(t, "Error: Error loading dashboard data\n", buf.String())

	buf.Reset()
	renderDashboard(&buf, views.DashboardState{Stats: &models.DashboardStats{
		TotalFiles:   5,
		RecentFiles:  2,
		FileTypes:    map[string]int{"pdf": 3, "image": 2},
		FilesPerUser: map[string]int{"ann": 5},
	}})

	out := buf.String()
	assert.Contains(t, out, "Older:")
	assert.Contains(t, out, "File types:")
	assert.Less(t, strings.Index(out, "Image"), strings.Index(out, "Pdf"))
	assert.Contains(t, out, "Files per user:")
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", formatDate(time.Time{}))
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-03-01 10:30", formatDate(ts))
}
