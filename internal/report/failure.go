package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maltedev/place-archiver/internal/models"
	"github.com/maltedev/place-archiver/internal/storage"
)

const separator = "============================================================"

type modeReport struct {
	file  string
	title string
	steps []string
}

var modeReports = map[string]modeReport{
	"photos": {
		file:  "사진다운로드_실패_목록.txt",
		title: "네이버 지도 사진 다운로드 실패 목록",
		steps: []string{
			"💡 수동 다운로드 방법:",
			"1. 위의 네이버지도링크를 클릭",
			"2. '사진' 탭에서 '업체' 사진 선택",
			"3. 이미지를 마우스 우클릭 → 다른 이름으로 저장",
			"4. downloads/지역/지역상세/매장명/업체/ 폴더에 저장",
		},
	},
	"capture": {
		file:  "캡처_실패_목록.txt",
		title: "네이버 플레이스 캡처 실패 목록",
		steps: []string{
			"💡 수동 캡처 방법:",
			"1. 위의 검색 URL을 클릭하여 네이버에서 검색",
			"2. 플레이스 카드 화면을 캡처 (Windows: Win + Shift + S)",
			"3. downloads/지역/지역상세/매장명/업체/ 폴더에 저장",
			"4. 파일명: 네이버플레이스_캡처.png",
		},
	},
	"price": {
		file:  "가격표추출_실패_목록.txt",
		title: "네이버 지도 가격표 추출 실패 목록",
		steps: []string{
			"💡 수동 추출 방법:",
			"1. 위의 네이버지도링크를 클릭",
			"2. '가격표 이미지로 보기' 클릭",
			"3. 이미지를 마우스 우클릭 → 다른 이름으로 저장",
			"4. downloads/지역/지역상세/매장명/업체/ 폴더에 저장",
			"5. 파일명: 가격표.jpg 또는 가격표.png",
		},
	},
}

// FailureReportName returns the report file name used for mode.
func FailureReportName(mode string) string {
	if r, ok := modeReports[mode]; ok {
		return r.file
	}
	return mode + "_실패_목록.txt"
}

// WriteFailureReport writes the manual follow-up list of a run into dir. Nothing
// is written when the run has no failed rows; the returned path is empty then.
func WriteFailureReport(dir string, summary models.RunSummary, now time.Time) (string, error) {
	if len(summary.Failed) == 0 {
		return "", nil
	}

	mr, ok := modeReports[summary.Mode]
	if !ok {
		mr = modeReport{file: FailureReportName(summary.Mode), title: summary.Mode + " 실패 목록"}
	}

	var b strings.Builder
	b.WriteString(separator + "\n")
	b.WriteString(mr.title + "\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "생성 날짜: %s\n", storage.KoreanTimestamp(now))
	fmt.Fprintf(&b, "실패 건수: %d개\n", len(summary.Failed))
	b.WriteString(separator + "\n\n")

	for i, f := range summary.Failed {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, f.Store.Label())
		if f.Query != "" {
			fmt.Fprintf(&b, "    검색어: %s\n", f.Query)
			fmt.Fprintf(&b, "    검색 URL: %s\n", f.SearchURL)
		} else {
			fmt.Fprintf(&b, "    네이버지도링크: %s\n", f.Store.MapURL)
		}
		if f.Reason != "" {
			fmt.Fprintf(&b, "    사유: %s (%s)\n", f.Reason, f.Outcome)
		}
		b.WriteString("\n")
	}

	if len(mr.steps) > 0 {
		b.WriteString(separator + "\n")
		for _, step := range mr.steps {
			b.WriteString(step + "\n")
		}
		b.WriteString(separator + "\n")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report folder: %w", err)
	}

	path := filepath.Join(dir, mr.file)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write failure report: %w", err)
	}
	return path, nil
}
