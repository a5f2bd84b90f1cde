// Package report renders trigger options and cache contents as plain
// terminal tables for the non-interactive subcommands.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/altinukshini/gocd-tui/internal/cache"
	"github.com/altinukshini/gocd-tui/internal/model"
	"github.com/altinukshini/gocd-tui/internal/tui/materialinfo"
	"github.com/altinukshini/gocd-tui/internal/ui"
)

const commentWidth = 50

func newWriter(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// Materials prints one row per material with its last run revision. Rows
// are cut to width when it is positive.
func Materials(w io.Writer, pipeline string, info *model.TriggerWithOptionsInfo, width int) {
	t := newWriter(w)
	t.SetAllowedRowLength(width)
	t.SetTitle(pipeline)
	t.AppendHeader(table.Row{"Type", "Name", "Destination", "Fingerprint", "Date", "User", "Comment", "Last run revision"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 7, WidthMax: commentWidth},
	})
	for _, m := range info.Materials {
		d := materialinfo.Describe(m, ui.FormatTimestamp)
		t.AppendRow(table.Row{d.Type, d.Name, d.Destination, m.ShortFingerprint(), d.Date, d.User, d.Comment, d.LastRunRevision})
	}
	t.Render()

	if len(info.Variables) == 0 {
		return
	}
	fmt.Fprintln(w)
	v := newWriter(w)
	v.AppendHeader(table.Row{"Variable", "Value", "Secure"})
	for _, variable := range info.Variables {
		secure := ""
		if variable.Secure {
			secure = "yes"
		}
		v.AppendRow(table.Row{variable.Name, variable.DisplayValue(), secure})
	}
	v.Render()
}

// CacheEntries prints cached searches, newest first as returned by the cache.
func CacheEntries(w io.Writer, entries []cache.Entry, now time.Time) {
	t := newWriter(w)
	t.AppendHeader(table.Row{"Pipeline", "Fingerprint", "Search", "Results", "Size", "Age"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	var total int64
	for _, e := range entries {
		search := e.Text
		if search == "" {
			search = "(latest)"
		}
		fp := e.Fingerprint
		if len(fp) > 12 {
			fp = fp[:12]
		}
		t.AppendRow(table.Row{e.Pipeline, fp, search, len(e.Results), formatSize(e.Size), now.Sub(e.StoredAt).Truncate(time.Second)})
		total += e.Size
	}
	t.AppendFooter(table.Row{"", "", "", len(entries), formatSize(total), ""})
	t.Render()
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
