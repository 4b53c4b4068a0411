package transport

import (
	"bytes"
	"encoding/json"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/database"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/compositor"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/pkg/kafka"
	"github.com/ds124wfegd/WB_L3/memestudio/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := compositor.New(nil)
	require.NoError(t, err)

	svc := service.NewMemeService(
		database.NewSessionRepository(),
		service.NewPipeline(c, nil),
		kafka.NewMockProducer(),
		service.Options{MaxUploadBytes: 1 << 20},
	)
	return InitRoutes(NewSessionHandler(svc), 5*time.Second)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func upload(t *testing.T, r http.Handler, id string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "pic.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp entity.CreateSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(120, 80, color.NRGBA{R: 200, A: 255}), imaging.PNG))
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionFlow(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	w := upload(t, r, id, testPNG(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPut, "/sessions/"+id+"/overlay", entity.TextOverlay{TopText: "TOP", BottomText: "BOTTOM", FontSize: 20, FontColor: "#ffffff"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/sessions/"+id+"/filters", entity.FilterSettings{Brightness: 400, Contrast: 100})
	require.Equal(t, http.StatusOK, w.Code)
	var st entity.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, float64(entity.MaxBrightness), st.Filters.Brightness)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/filters/apply", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/sessions/"+id+"/preview", entity.PreviewRequest{Open: true})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/sessions/"+id+"/preview.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = doJSON(t, r, http.MethodPut, "/sessions/"+id+"/filename", entity.FilenameRequest{Filename: "funny"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/sessions/"+id+"/download", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="funny.png"`, w.Header().Get("Content-Disposition"))
	img, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())

	w = doJSON(t, r, http.MethodGet, "/sessions/"+id+"/share/twitter", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var share entity.ShareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &share))
	assert.True(t, strings.HasPrefix(share.URL, "https://twitter.com/intent/tweet?"))

	w = doJSON(t, r, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPartialUpdatesKeepOtherFields(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(10, 10, color.NRGBA{R: 200, G: 30, B: 90, A: 255}), imaging.PNG))
	require.Equal(t, http.StatusOK, upload(t, r, id, buf.Bytes()).Code)

	w := doJSON(t, r, http.MethodPut, "/sessions/"+id+"/filters", map[string]any{"brightness": 150})
	require.Equal(t, http.StatusOK, w.Code)
	var st entity.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, entity.FilterSettings{Brightness: 150, Contrast: 100}, st.Filters)

	w = doJSON(t, r, http.MethodGet, "/sessions/"+id+"/primary.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	img, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 45, B: 135, A: 255}, imaging.Clone(img).NRGBAAt(5, 5))

	w = doJSON(t, r, http.MethodPut, "/sessions/"+id+"/overlay", map[string]any{"top_text": "HI", "font_size": 12})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPut, "/sessions/"+id+"/overlay", map[string]any{"bottom_text": "LO"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, entity.TextOverlay{TopText: "HI", BottomText: "LO", FontSize: 12, FontColor: entity.DefaultFontColor}, st.Overlay)
}

func TestErrorStatuses(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)

	tests := []struct {
		name   string
		do     func() *httptest.ResponseRecorder
		status int
	}{
		{
			name: "unknown session",
			do: func() *httptest.ResponseRecorder {
				return doJSON(t, r, http.MethodGet, "/sessions/missing", nil)
			},
			status: http.StatusNotFound,
		},
		{
			name: "download without image",
			do: func() *httptest.ResponseRecorder {
				return doJSON(t, r, http.MethodGet, "/sessions/"+id+"/download", nil)
			},
			status: http.StatusConflict,
		},
		{
			name: "preview without image",
			do: func() *httptest.ResponseRecorder {
				return doJSON(t, r, http.MethodPut, "/sessions/"+id+"/preview", entity.PreviewRequest{Open: true})
			},
			status: http.StatusConflict,
		},
		{
			name: "undecodable upload",
			do: func() *httptest.ResponseRecorder {
				return upload(t, r, id, []byte("garbage"))
			},
			status: http.StatusUnprocessableEntity,
		},
		{
			name: "missing file",
			do: func() *httptest.ResponseRecorder {
				return doJSON(t, r, http.MethodPost, "/sessions/"+id+"/image", nil)
			},
			status: http.StatusBadRequest,
		},
		{
			name: "malformed filters",
			do: func() *httptest.ResponseRecorder {
				req := httptest.NewRequest(http.MethodPut, "/sessions/"+id+"/filters", strings.NewReader("{"))
				req.Header.Set("Content-Type", "application/json")
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)
				return w
			},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.do()
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestShareUnknownPlatform(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)
	require.Equal(t, http.StatusOK, upload(t, r, id, testPNG(t)).Code)

	w := doJSON(t, r, http.MethodGet, "/sessions/"+id+"/share/myspace", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
