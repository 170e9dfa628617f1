package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/maltedev/place-archiver/internal/models"
)

// PrintSummary renders the end-of-run statistics.
func PrintSummary(w io.Writer, summary models.RunSummary, baseDir string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("📊 최종 통계 (%s)", summary.Mode)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	stats := summary.Stats
	t.AppendRow(table.Row{"총 처리 대상", fmt.Sprintf("%d개", summary.Planned)})
	t.AppendRow(table.Row{"처리 완료", fmt.Sprintf("%d개", stats.Total)})
	t.AppendSeparator()
	t.AppendRow(table.Row{"✅ 성공", fmt.Sprintf("%d개", stats.Success)})
	t.AppendRow(table.Row{"❌ 실패", fmt.Sprintf("%d개", stats.Failed)})
	t.AppendRow(table.Row{"⚠️  폴더 없음", fmt.Sprintf("%d개", stats.NoFolder)})
	t.AppendRow(table.Row{"⚠️  링크 없음", fmt.Sprintf("%d개", stats.NoURL)})
	t.AppendRow(table.Row{"💰 가격표 없음", fmt.Sprintf("%d개", stats.NoPrice)})
	t.AppendRow(table.Row{"📷 저장한 이미지", fmt.Sprintf("%d개", stats.Images)})
	t.AppendSeparator()
	t.AppendRow(table.Row{"⏱️  소요 시간", fmt.Sprintf("%.1f분", summary.Elapsed().Minutes())})
	t.AppendRow(table.Row{"📁 저장 위치", absPath(baseDir)})
	t.Render()

	if summary.Interrupted {
		fmt.Fprintln(w, "\n⚠️  사용자에 의해 중단되었습니다. 처리된 행까지만 집계되었습니다.")
	}

	if stats.NoFolder > 0 {
		fmt.Fprintln(w, "\n💡 팁: 폴더가 없는 매장은 먼저 photos 모드를 실행하세요")
		fmt.Fprintln(w, "   place-archiver photos <엑셀파일> → 사진 다운로드 → 다시 실행")
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
