package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jeerawut3427/personal-system/internal/format"
)

// table writes tab-separated cells through a tabwriter. Cell text is cleaned
// before it reaches the terminal.
type table struct {
	tw  *tabwriter.Writer
	err error
}

func newTable(w io.Writer) *table {
	return &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
}

func (t *table) row(cells ...string) {
	if t.err != nil {
		return
	}
	for i, c := range cells {
		cells[i] = strings.ReplaceAll(format.CleanText(c), "\n", " ")
	}
	_, t.err = fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) line(s string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.tw, format.CleanText(s))
}

func (t *table) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.tw.Flush()
}
