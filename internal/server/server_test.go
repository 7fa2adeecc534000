package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacedash/pkg/archive"
	"spacedash/pkg/config"
	apperrors "spacedash/pkg/errors"
	"spacedash/pkg/logger"
	"spacedash/pkg/pipeline"
	"spacedash/pkg/record"
	"spacedash/pkg/spacedevs"
)

type stubDownloader struct {
	images map[string][]byte
}

func (s *stubDownloader) DownloadImage(ctx context.Context, url string) ([]byte, error) {
	data, ok := s.images[url]
	if !ok {
		return nil, apperrors.StatusError(url, http.StatusNotFound)
	}
	return data, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func records(t *testing.T, raw string) []record.Record {
	t.Helper()
	var out []record.Record
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

const astronautsJSON = `[
	{"name": "Ada Stone", "agency": {"name": "NASA"}, "flights_count": 3,
	 "image": {"image_url": "https://img.test/ada.png"}},
	{"name": "Boris Vale", "agency": {"name": "Roscosmos"}, "flights_count": 1,
	 "image": {"image_url": "https://img.test/boris.png"}},
	{"name": "Cleo Ray", "agency": {"name": "NASA"}, "flights_count": 0}
]`

const launchesJSON = `[
	{"name": "Falcon 9 | Demo", "launch_service_provider": {"name": "SpaceX"},
	 "rocket": {"configuration": {"name": "Falcon 9"}}, "mission": {"name": "Demo", "type": "Test"},
	 "window_start": "2024-03-01T10:00:00Z", "pad": {"name": "SLC-40", "location": {"name": "Florida"}}},
	{"name": "Soyuz | Crew", "launch_service_provider": {"name": "Roscosmos"},
	 "window_start": "2023-07-11T08:00:00Z"}
]`

func newTestServer(t *testing.T, fetcher pipeline.Fetcher, dl *stubDownloader) http.Handler {
	t.Helper()
	cfg := config.DefaultConfig()
	log := logger.NewNopLogger()
	if dl == nil {
		dl = &stubDownloader{}
	}
	p := pipeline.New(fetcher, cfg.Fetch, log)
	b := archive.NewBuilder(dl, log)
	return New(p, b, cfg, log).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Meta    json.RawMessage   `json:"meta"`
	Error   ErrorResponseBody `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealthz(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newTestServer(t, NewMockFetcher(ctrl), nil)

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestListCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newTestServer(t, NewMockFetcher(ctrl), nil)

	rec := get(t, h, "/api/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	var cats []categoryInfo
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &cats))
	require.Len(t, cats, 5)
	assert.Equal(t, "celestial_bodies", cats[0].Name)
	assert.Equal(t, "launches", cats[4].Name)
	assert.Equal(t, "launch_images.zip", cats[4].ArchiveName)
}

func TestListCards(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), spacedevs.Astronauts, 100).
		Return(records(t, astronautsJSON), nil)
	h := newTestServer(t, fetcher, nil)

	rec := get(t, h, "/api/astronauts?agency=NASA&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decode(t, rec)
	assert.True(t, env.Success)

	var data listData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Cards, 2)
	assert.Equal(t, "Ada Stone", data.Cards[0].Name)
	assert.Equal(t, "Cleo Ray", data.Cards[1].Name)
	// Cleo has no image: a card, but no image ref
	require.Len(t, data.Images, 1)
	assert.Equal(t, "https://img.test/ada.png", data.Images[0].URL)

	var meta listMeta
	require.NoError(t, json.Unmarshal(env.Meta, &meta))
	assert.Equal(t, 3, meta.Fetched)
	assert.Equal(t, 2, meta.Selected)
	assert.Equal(t, []string{"agency"}, meta.Filters)
	assert.Empty(t, meta.Notice)
}

func TestListCardsAllIsNoFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), spacedevs.Astronauts, 100).
		Return(records(t, astronautsJSON), nil)
	h := newTestServer(t, fetcher, nil)

	rec := get(t, h, "/api/astronauts?agency=All")
	require.Equal(t, http.StatusOK, rec.Code)

	var data listData
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	assert.Len(t, data.Cards, 3)
}

func TestListCardsNoMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), spacedevs.Astronauts, 100).
		Return(records(t, astronautsJSON), nil)
	h := newTestServer(t, fetcher, nil)

	rec := get(t, h, "/api/astronauts?agency=ESA")
	require.Equal(t, http.StatusOK, rec.Code)

	var meta listMeta
	require.NoError(t, json.Unmarshal(decode(t, rec).Meta, &meta))
	assert.Equal(t, "No astronauts match the selected filters.", meta.Notice)
}

func TestListCardsFetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperrors.StatusError("https://ll.test/astronauts", 503))
	h := newTestServer(t, fetcher, nil)

	rec := get(t, h, "/api/astronauts")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode(t, rec)
	var data listData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Empty(t, data.Cards)
	assert.Empty(t, data.Images)

	var meta listMeta
	require.NoError(t, json.Unmarshal(env.Meta, &meta))
	assert.Equal(t, "Failed to fetch astronauts.", meta.Notice)
}

func TestRequestErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"unknown category", "/api/comets", http.StatusNotFound, "unknown_category"},
		{"unknown filter", "/api/astronauts?color=red", http.StatusBadRequest, "invalid_filter"},
		{"bad int filter", "/api/astronauts?min_flights=lots", http.StatusBadRequest, "invalid_filter"},
		{"bad bool filter", "/api/spacecraft?in_space=maybe", http.StatusBadRequest, "invalid_filter"},
		{"zero limit", "/api/astronauts?limit=0", http.StatusBadRequest, "invalid_limit"},
		{"huge limit", "/api/astronauts?limit=5000", http.StatusBadRequest, "invalid_limit"},
		{"bad export format", "/api/launches/export?format=pdf", http.StatusBadRequest, "invalid_format"},
		{"unknown category zip", "/api/comets/images.zip", http.StatusNotFound, "unknown_category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// no fetch is expected for a rejected request
			h := newTestServer(t, NewMockFetcher(ctrl), nil)

			rec := get(t, h, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestFilterOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), spacedevs.Launches, 100).
		Return(records(t, launchesJSON), nil)
	h := newTestServer(t, fetcher, nil)

	rec := get(t, h, "/api/launches/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	var opts pipeline.Options
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &opts))
	assert.Equal(t, []string{"Roscosmos", "SpaceX"}, opts["provider"])
	assert.Equal(t, []string{"2024", "2023"}, opts["year"])
}

func TestFilterOptionsFetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), spacedevs.Launchers, 200).
		Return(nil, apperrors.New(apperrors.ErrorTypeNetwork, "connection refused"))
	h := newTestServer(t, fetcher, nil)

	rec := get(t, h, "/api/launchers/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode(t, rec)
	var opts pipeline.Options
	require.NoError(t, json.Unmarshal(env.Data, &opts))
	for key, values := range opts {
		assert.Empty(t, values, key)
	}
	assert.Contains(t, string(env.Meta), "Failed to fetch launchers.")
}

func TestDownloadImages(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), spacedevs.Astronauts, 100).
		Return(records(t, astronautsJSON), nil)
	// boris.png is missing and gets skipped
	dl := &stubDownloader{images: map[string][]byte{"https://img.test/ada.png": pngBytes(t)}}
	h := newTestServer(t, fetcher, dl)

	rec := get(t, h, "/api/astronauts/images.zip")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, archive.MIMEType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "astronaut_images.zip")
	assert.Equal(t, "1", rec.Header().Get("X-Archive-Entries"))

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "Ada_Stone.jpg", zr.File[0].Name)
}

func TestDownloadImagesNoImages(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), spacedevs.Astronauts, 100).
		Return(records(t, astronautsJSON), nil)
	h := newTestServer(t, fetcher, nil)

	rec := get(t, h, "/api/astronauts/images.zip?max_flights=0")
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decode(t, rec)
	assert.Equal(t, "no_images", env.Error.Code)
	assert.Equal(t, "No astronaut images available for download.", env.Error.Message)
}

func TestDownloadImagesFetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, apperrors.StatusError("u", 500))
	h := newTestServer(t, fetcher, nil)

	rec := get(t, h, "/api/spacecraft/images.zip")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to fetch spacecraft.", decode(t, rec).Error.Message)
}

func TestCardsPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), spacedevs.Astronauts, 100).
		Return(records(t, astronautsJSON), nil)
	h := newTestServer(t, fetcher, nil)

	rec := get(t, h, "/api/astronauts/cards.html?limit=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Find("div.card").Length())
	assert.Equal(t, 2, doc.Find("div.card img").Length())
	assert.Equal(t, "No image available for Cleo Ray", strings.TrimSpace(doc.Find("p.no-image").Text()))
}

func TestExportLaunches(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), spacedevs.Launches, 100).
		Return(records(t, launchesJSON), nil)
	h := newTestServer(t, fetcher, nil)

	rec := get(t, h, "/api/launches/export?format=csv&year=2024")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "launch_data.csv")

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "launch_name,provider,rocket_name"))
	assert.True(t, strings.HasPrefix(lines[1], "Falcon 9 | Demo,SpaceX,Falcon 9,Demo,Test"))
}

func TestExportLaunchesXLSX(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), spacedevs.Launches, 100).
		Return(records(t, launchesJSON), nil)
	h := newTestServer(t, fetcher, nil)

	rec := get(t, h, "/api/launches/export?format=xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.ms-excel", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "launch_data.xlsx")
	// xlsx files are zip containers
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestRequestLogging(t *testing.T) {
	tl := logger.NewTestLogger()
	ctrl := gomock.NewController(t)
	cfg := config.DefaultConfig()
	p := pipeline.New(NewMockFetcher(ctrl), cfg.Fetch, logger.NewNopLogger())
	h := New(p, archive.NewBuilder(&stubDownloader{}, tl), cfg, tl).Handler()

	get(t, h, "/api/comets")
	warns := tl.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "HTTP request client error", warns[0].Message)
}
