package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/dmitrijs2005/filedesk/internal/client/views"
)

const loadingText = "Loading..."

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderMessages(w io.Writer, errMsg, success string) {
	if errMsg != "" {
		fmt.Fprintln(w, "Error: "+errMsg)
	}
	if success != "" {
		fmt.Fprintln(w, success)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func renderFiles(w io.Writer, st views.FilesState) {
	renderMessages(w, st.Error, st.Success)
	if st.Loading {
		fmt.Fprintln(w, loadingText)
		return
	}
	if len(st.Files) == 0 {
		fmt.Fprintln(w, "No files uploaded yet.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tUPLOADED")
	for _, f := range st.Files {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			f.ID, f.Filename, f.Type(), models.FormatFileSize(f.FileSize), formatDate(f.UploadDate))
	}
	tw.Flush()
}

func renderUser(w io.Writer, u models.User) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	fmt.Fprintf(tw, "Name:\t%s\n", u.FullName())
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	if u.PhoneNumber != "" {
		fmt.Fprintf(tw, "Phone:\t%s\n", u.PhoneNumber)
	}
	tw.Flush()
}

func renderProfile(w io.Writer, st views.ProfileState) {
	renderMessages(w, st.Error, st.Success)
	if st.Loading {
		fmt.Fprintln(w, loadingText)
		return
	}
	if st.User != nil {
		renderUser(w, *st.User)
	}

	fmt.Fprintln(w)
	if len(st.Addresses) == 0 {
		fmt.Fprintln(w, "No addresses.")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSTREET\tCITY\tSTATE\tZIP\tCOUNTRY\tDEFAULT")
	for _, a := range st.Addresses {
		def := ""
		if a.IsDefault {
			def = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Street, a.City, a.State, a.Zipcode, a.Country, def)
	}
	tw.Flush()
}

func renderDashboard(w io.Writer, st views.DashboardState) {
	renderMessages(w, st.Error, "")
	if st.Loading {
		fmt.Fprintln(w, loadingText)
		return
	}
	if st.Stats == nil {
		return
	}
	s := st.Stats

	tw := newTable(w)
	fmt.Fprintf(tw, "Total files:\t%d\n", s.TotalFiles)
	fmt.Fprintf(tw, "Total size:\t%s\n", models.FormatFileSize(s.TotalSize))
	fmt.Fprintf(tw, "Recent (30 days):\t%d\n", s.RecentFiles)
	fmt.Fprintf(tw, "Older:\t%d\n", s.OlderFiles())
	tw.Flush()

	renderBreakdown(w, "File types", s.TypeBreakdown())
	renderBreakdown(w, "Files per user", s.UserBreakdown())
}

func renderBreakdown(w io.Writer, title string, rows []models.LabelCount) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	tw := newTable(w)
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\t%d\n", r.Label, r.Count)
	}
	tw.Flush()
}
