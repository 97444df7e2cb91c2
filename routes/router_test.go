package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"skb-backend/internal/auth"
	"skb-backend/internal/config"
	"skb-backend/internal/testutil"
	"skb-backend/middleware"
	"skb-backend/models"
	"skb-backend/services"
	"skb-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router *gin.Engine
	site   *testutil.SiteStore
	assets *testutil.AssetStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		GinMode:       gin.TestMode,
		CORSOrigins:   []string{"https://frontend-skb.vercel.app"},
		MaxUploadSize: 1 << 20,
	}
	tokens, err := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	hash, err := utils.HashPassword("rahasia", bcrypt.MinCost)
	require.NoError(t, err)
	creds := &testutil.CredentialStore{Credentials: map[string]string{"admin": hash}}

	site := testutil.NewSiteStore()
	assets := testutil.NewAssetStore()

	router := NewRouter(Dependencies{
		Config:  cfg,
		Tokens:  tokens,
		Auth:    services.NewAuthService(creds, tokens),
		Gallery: services.NewGalleryService(site, assets, nil),
		Stats:   services.NewStatsService(site),
		Export:  services.NewExportService(site),
	})
	return &testServer{router: router, site: site, assets: assets}
}

func (s *testServer) do(t *testing.T, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req, cookie)
}

func (s *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/login", gin.H{"username": "admin", "password": "rahasia"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			assert.True(t, c.HttpOnly)
			assert.Equal(t, int(time.Hour.Seconds()), c.MaxAge)
			return c
		}
	}
	t.Fatal("login did not set the token cookie")
	return nil
}

func uploadRequest(t *testing.T, field, filename, contentType string) *http.Request {
	t.Helper()
	return uploadRequestWithPayload(t, field, filename, contentType, []byte("\x89PNG fake image bytes"))
}

func uploadRequestWithPayload(t *testing.T, field, filename, contentType string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       gin.H
		wantStatus int
		wantError  string
	}{
		{name: "missing fields", body: gin.H{"username": "admin"}, wantStatus: http.StatusBadRequest},
		{name: "unknown user", body: gin.H{"username": "nobody", "password": "x"}, wantStatus: http.StatusUnauthorized, wantError: "User not found"},
		{name: "wrong password", body: gin.H{"username": "admin", "password": "x"}, wantStatus: http.StatusUnauthorized, wantError: "Wrong password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.doJSON(t, http.MethodPost, "/login", tt.body, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Empty(t, w.Result().Cookies())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode(t, w).Error)
			}
		})
	}
}

func TestVerifyTokenAndLogout(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, httptest.NewRequest(http.MethodGet, "/verifyToken", nil), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":false}`, w.Body.String())

	w = srv.do(t, httptest.NewRequest(http.MethodGet, "/verifyToken", nil), &http.Cookie{Name: middleware.TokenCookie, Value: "garbage"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":false}`, w.Body.String())

	cookie := srv.login(t)
	w = srv.do(t, httptest.NewRequest(http.MethodGet, "/verifyToken", nil), cookie)
	assert.JSONEq(t, `{"valid":true}`, w.Body.String())

	w = srv.do(t, httptest.NewRequest(http.MethodPost, "/logout", nil), cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, middleware.TokenCookie, cleared[0].Name)
	assert.Empty(t, cleared[0].Value)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	srv := newTestServer(t)
	srv.site.Seed([]models.ImageEntry{{ImageID: "a", ImageURL: "u", CloudinaryID: "magang/a"}})

	requests := []*http.Request{
		uploadRequest(t, "image", "a.png", "image/png"),
		httptest.NewRequest(http.MethodPost, "/images", bytes.NewBufferString(`{"imageUrl":"u"}`)),
		httptest.NewRequest(http.MethodPut, "/images/a", bytes.NewBufferString(`{"imageUrl":"u"}`)),
		httptest.NewRequest(http.MethodDelete, "/images/a", nil),
		httptest.NewRequest(http.MethodPost, "/updatePesertaPaket", bytes.NewBufferString(`{}`)),
		httptest.NewRequest(http.MethodGet, "/export", nil),
	}

	for _, req := range requests {
		t.Run(req.Method+" "+req.URL.Path, func(t *testing.T) {
			w := srv.do(t, req, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"success":false,"valid":false,"error":"Authentication required"}`, w.Body.String())
		})
	}

	assert.Empty(t, srv.assets.Uploads)
	assert.Empty(t, srv.assets.DeletedIDs())
	assert.Len(t, srv.site.Snapshot().Images, 1)
}

func TestGalleryLifecycle(t *testing.T) {
	srv := newTestServer(t)
	cookie := srv.login(t)

	// Empty gallery lists as an empty array.
	w := srv.do(t, httptest.NewRequest(http.MethodGet, "/images", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))

	// Upload.
	w = srv.do(t, uploadRequest(t, "image", "first.png", "image/png"), cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var uploaded models.UploadedAsset
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &uploaded))
	assert.Equal(t, "magang/first.png", uploaded.CloudinaryID)
	assert.NotEmpty(t, uploaded.ImageURL)

	// Register.
	w = srv.doJSON(t, http.MethodPost, "/images", gin.H{
		"imageAlt":     "first",
		"imageUrl":     uploaded.ImageURL,
		"cloudinaryId": uploaded.CloudinaryID,
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created models.ImageEntry
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))
	assert.NotEmpty(t, created.ImageID)

	// List is public.
	w = srv.do(t, httptest.NewRequest(http.MethodGet, "/images", nil), nil)
	var listed []models.ImageEntry
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ImageID, listed[0].ImageID)

	// Update swaps the asset and deletes the old one.
	w = srv.doJSON(t, http.MethodPut, "/images/"+created.ImageID, gin.H{
		"imageAlt":     "second",
		"imageUrl":     "https://res.cloudinary.com/demo/image/upload/magang/second.png",
		"cloudinaryId": "magang/second.png",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"magang/first.png"}, srv.assets.DeletedIDs())

	stored := srv.site.Snapshot().Images
	require.Len(t, stored, 1)
	assert.Equal(t, "second", stored[0].ImageAlt)
	assert.Equal(t, "magang/second.png", stored[0].CloudinaryID)
	assert.Equal(t, created.ImageID, stored[0].ImageID)

	// Delete removes the entry and its asset.
	w = srv.do(t, httptest.NewRequest(http.MethodDelete, "/images/"+created.ImageID, nil), cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"magang/first.png", "magang/second.png"}, srv.assets.DeletedIDs())
	assert.Empty(t, srv.site.Snapshot().Images)
}

func TestUploadValidation(t *testing.T) {
	srv := newTestServer(t)
	cookie := srv.login(t)

	w := srv.do(t, uploadRequest(t, "file", "a.png", "image/png"), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, uploadRequest(t, "image", "a.pdf", "application/pdf"), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, srv.assets.Uploads)
}

func TestUploadTooLargeWithoutContentLength(t *testing.T) {
	srv := newTestServer(t)
	cookie := srv.login(t)

	req := uploadRequestWithPayload(t, "image", "big.png", "image/png", bytes.Repeat([]byte{0x89}, 2<<20))
	// Chunked bodies carry no length, so only the capped reader can stop them.
	req.ContentLength = -1

	w := srv.do(t, req, cookie)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, srv.assets.Uploads)
}

func TestRegisterRequiresImageURL(t *testing.T) {
	srv := newTestServer(t)
	cookie := srv.login(t)

	w := srv.doJSON(t, http.MethodPost, "/images", gin.H{"imageAlt": "no url"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, srv.site.Snapshot())
}

func TestImageErrorsMapToStatus(t *testing.T) {
	t.Run("update without site document", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := srv.login(t)
		w := srv.doJSON(t, http.MethodPut, "/images/missing", gin.H{"imageUrl": "u"}, cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		srv := newTestServer(t)
		srv.site.Seed([]models.ImageEntry{{ImageID: "a", ImageURL: "u", CloudinaryID: "magang/a"}})
		cookie := srv.login(t)

		w := srv.do(t, httptest.NewRequest(http.MethodDelete, "/images/missing", nil), cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Image not found", decode(t, w).Error)
		assert.Len(t, srv.site.Snapshot().Images, 1)
		assert.Empty(t, srv.assets.DeletedIDs())
	})

	t.Run("concurrent modification", func(t *testing.T) {
		srv := newTestServer(t)
		srv.site.Seed([]models.ImageEntry{{ImageID: "a", ImageURL: "u", CloudinaryID: "magang/a"}})
		srv.site.BeforeReplace = srv.site.Touch
		cookie := srv.login(t)

		w := srv.do(t, httptest.NewRequest(http.MethodDelete, "/images/a", nil), cookie)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Empty(t, srv.assets.DeletedIDs())
	})
}

func TestPesertaPaketRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, httptest.NewRequest(http.MethodGet, "/pesertaPaket", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"siswaPAUD":0,"paketA":0,"paketB":0,"paketC":0}`, string(decode(t, w).Data))

	cookie := srv.login(t)
	w = srv.doJSON(t, http.MethodPost, "/updatePesertaPaket", gin.H{"paudCount": -1}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.doJSON(t, http.MethodPost, "/updatePesertaPaket", gin.H{
		"paudCount": 12, "paketACount": 3, "paketBCount": 4, "paketCCount": 5,
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = srv.do(t, httptest.NewRequest(http.MethodGet, "/pesertaPaket", nil), nil)
	assert.JSONEq(t, `{"siswaPAUD":12,"paketA":3,"paketB":4,"paketC":5}`, string(decode(t, w).Data))
}

func TestExportRoute(t *testing.T) {
	srv := newTestServer(t)
	srv.site.Seed([]models.ImageEntry{{ImageID: "a", ImageAlt: "alt", ImageURL: "u"}})
	cookie := srv.login(t)

	w := srv.do(t, httptest.NewRequest(http.MethodGet, "/export", nil), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "skb-site-")
	assert.NotZero(t, w.Body.Len())
}
