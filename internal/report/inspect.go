package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/maltedev/place-archiver/internal/parser"
	"github.com/maltedev/place-archiver/internal/scraper"
)

const maxCellRunes = 80

// PrintInspection renders the page structure collected by the inspect mode.
func PrintInspection(w io.Writer, res *scraper.InspectResult) {
	rep := res.Report
	if rep == nil {
		rep = &parser.PageReport{}
	}

	fmt.Fprintf(w, "\n1️⃣ 모든 탭/버튼 텍스트 (%d):\n   %s\n", len(rep.Texts), strings.Join(rep.Texts, ", "))

	fmt.Fprintf(w, "\n2️⃣ 주요 div 클래스 (%d):\n", len(rep.Classes))
	for _, c := range rep.Classes {
		fmt.Fprintf(w, "   - %s\n", parser.Truncate(c, maxCellRunes))
	}

	fmt.Fprintf(w, "\n3️⃣ iframe (%d):\n", len(rep.IFrames))
	frames := newTable(w, table.Row{"#", "src", "id"})
	for i, f := range rep.IFrames {
		frames.AppendRow(table.Row{i + 1, parser.Truncate(f.Src, maxCellRunes), f.ID})
	}
	frames.Render()

	fmt.Fprintf(w, "\n4️⃣ '%s' 포함 요소 (%d개 중 %d개):\n", parser.PhotoKeyword, rep.PhotoMatches, len(rep.PhotoElements))
	elems := newTable(w, table.Row{"tag", "class", "text"})
	for _, e := range rep.PhotoElements {
		elems.AppendRow(table.Row{e.Tag, parser.Truncate(e.Class, 40), parser.Truncate(e.Text, 40)})
	}
	elems.Render()

	fmt.Fprintf(w, "\n5️⃣ 이미지 (총 %d개):\n", rep.ImageCount)
	imgs := newTable(w, table.Row{"src", "alt"})
	for _, img := range rep.Images {
		imgs.AppendRow(table.Row{parser.Truncate(img.Src, maxCellRunes), img.Alt})
	}
	imgs.Render()

	fmt.Fprintf(w, "\n🖼️  하위 프레임 (%d):\n", len(res.Frames))
	sub := newTable(w, table.Row{"#", "name", "url"})
	for _, f := range res.Frames {
		sub.AppendRow(table.Row{f.Index, f.Name, parser.Truncate(f.URL, maxCellRunes)})
	}
	sub.Render()

	fmt.Fprintf(w, "\n🔗 현재 URL: %s\n", res.URL)
}

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(header)
	return t
}
