package storage

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

const LinkFileName = "네이버지도_링크.html"

var linkTemplate = template.Must(template.New("link").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Name}} - 네이버 지도</title>
    <style>
        body { font-family: 'Malgun Gothic', sans-serif; margin: 0; padding: 20px; background: #f5f5f5; }
        .container { max-width: 800px; margin: 0 auto; background: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        h1 { color: #03c75a; margin-bottom: 20px; }
        .info { margin: 20px 0; padding: 15px; background: #f9f9f9; border-left: 4px solid #03c75a; }
        .link { word-break: break-all; color: #1e88e5; text-decoration: none; font-size: 16px; }
        .button { display: inline-block; margin-top: 20px; padding: 12px 30px; background: #03c75a; color: white; text-decoration: none; border-radius: 5px; font-weight: bold; }
        .timestamp { color: #666; font-size: 14px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>📍 {{.Name}}</h1>
        <div class="info">
            <strong>네이버 지도 링크:</strong><br>
            <a href="{{.URL}}" class="link" target="_blank">{{.URL}}</a>
        </div>
        <a href="{{.URL}}" class="button" target="_blank">🗺️ 네이버 지도에서 보기</a>
        <div class="timestamp">다운로드 날짜: {{.Date}}</div>
    </div>
</body>
</html>
`))

// WriteLinkFile stores a bookmark page pointing at the store's map URL.
func WriteLinkFile(dir, storeName, mapURL string, now time.Time) (string, error) {
	var buf bytes.Buffer
	err := linkTemplate.Execute(&buf, struct {
		Name string
		URL  string
		Date string
	}{
		Name: storeName,
		URL:  mapURL,
		Date: KoreanTimestamp(now),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render link file: %w", err)
	}

	path := filepath.Join(dir, LinkFileName)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write link file: %w", err)
	}
	return path, nil
}

// KoreanTimestamp formats t as "2006년 01월 02일 15:04:05".
func KoreanTimestamp(t time.Time) string {
	return t.Format("2006년 01월 02일 15:04:05")
}
