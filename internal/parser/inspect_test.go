package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzePage(t *testing.T) {
	html := `<html><body>
		<div class="place_section">
			<a>홈</a><a>사진</a><button>리뷰</button>
			<span>이 문장은 스무 글자를 훌쩍 넘기는 아주 긴 설명 문장입니다</span>
			<div role="tab">정보</div>
		</div>
		<div class="flicking-camera"><img src="https://ldb-phinf.pstatic.net/a.jpg" alt="업체"></div>
		<iframe id="entryIframe" src="https://pcmap.place.naver.com/place/123"></iframe>
	</body></html>`

	report, err := AnalyzePage(html)
	require.NoError(t, err)

	assert.Equal(t, []string{"리뷰", "사진", "정보", "홈"}, report.Texts)
	assert.Equal(t, []string{"flicking-camera", "place_section"}, report.Classes)
	require.Len(t, report.IFrames, 1)
	assert.Equal(t, "entryIframe", report.IFrames[0].ID)
	assert.Equal(t, 1, report.ImageCount)
	assert.Equal(t, "업체", report.Images[0].Alt)

	require.NotEmpty(t, report.PhotoElements)
	assert.Equal(t, "a", report.PhotoElements[len(report.PhotoElements)-1].Tag)
	assert.Equal(t, len(report.PhotoElements), report.PhotoMatches)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "가나다", Truncate("가나다라마", 3))
	assert.Equal(t, "ab", Truncate("ab", 5))
}
