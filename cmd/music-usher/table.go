package main

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/handiism/music-usher/internal/organize"
)

func renderSummary(rows []organize.AlbumSummary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Artist", "Album", "Tracks", "Size"})

	var tracks int
	var bytes int64
	for _, row := range rows {
		tw.AppendRow(table.Row{row.Artist, row.Album, strconv.Itoa(row.Tracks), humanize.Bytes(uint64(row.Bytes))})
		tracks += row.Tracks
		bytes += row.Bytes
	}
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(len(rows)) + " albums", strconv.Itoa(tracks), humanize.Bytes(uint64(bytes))})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
