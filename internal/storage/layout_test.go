package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/place-archiver/internal/models"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A/B*점", "A_B_점"},
		{`a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"  강남점  ", "강남점"},
		{"", "unknown"},
		{"   ", "unknown"},
		{"정상", "정상"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestLayoutPaths(t *testing.T) {
	layout := NewLayout("downloads")
	store := models.Store{Region: "서울", RegionDetail: "강남", Name: "A/B*점"}

	assert.Equal(t, filepath.Join("downloads", "서울", "강남", "A_B_점"), layout.StoreDir(store))
	assert.Equal(t, filepath.Join("downloads", "서울", "강남", "A_B_점", "업체"), layout.CompanyDir(store))
	assert.Equal(t, layout.StoreDir(store), layout.StoreDir(store))
	assert.Equal(t, "서울/강남/A_B_점", StoreKey(store))
}

func TestEnsureCompanyDirWithoutStoreFolder(t *testing.T) {
	base := t.TempDir()
	layout := NewLayout(base)
	store := models.Store{Region: "부산", RegionDetail: "해운대", Name: "바다점"}

	_, err := layout.EnsureCompanyDir(store)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoStoreFolder))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be created when the store folder is missing")
}

func TestEnsureCompanyDirCreatesSubfolder(t *testing.T) {
	layout := NewLayout(t.TempDir())
	store := models.Store{Region: "서울", RegionDetail: "강남", Name: "A/B*점"}

	storeDir, err := layout.CreateStoreDir(store)
	require.NoError(t, err)

	dir, err := layout.EnsureCompanyDir(store)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(storeDir, CompanyFolder), dir)
	assert.DirExists(t, dir)

	again, err := layout.EnsureCompanyDir(store)
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestHasFilePrefix(t *testing.T) {
	dir := t.TempDir()

	found, err := HasFilePrefix(dir, "가격표")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "가격표_2.jpg"), []byte("x"), 0644))

	found, err = HasFilePrefix(dir, "가격표")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = HasFilePrefix(filepath.Join(dir, "missing"), "가격표")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestWriteLinkFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	path, err := WriteLinkFile(dir, "A<점>", "https://naver.me/abc?x=1&y=2", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, LinkFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "A&lt;점&gt;")
	assert.Contains(t, html, `href="https://naver.me/abc?x=1&amp;y=2"`)
	assert.Contains(t, html, "2024년 03월 05일 14:07:09")
}

func TestWriteLinkFileNeutralisesScriptURLs(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteLinkFile(dir, "A점", "javascript:alert(1)", time.Now())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.NotContains(t, html, `href="javascript:`)
	assert.Contains(t, html, `href="#ZgotmplZ"`)
}
