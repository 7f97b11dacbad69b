package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/geotag_api/internal/config"
	"github.com/Skotchmaster/geotag_api/internal/db"
	"github.com/Skotchmaster/geotag_api/internal/logging"
	"github.com/Skotchmaster/geotag_api/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/geotag_api/internal/middleware/logging"
	"github.com/Skotchmaster/geotag_api/internal/models"
	"github.com/Skotchmaster/geotag_api/internal/repo"
	"github.com/Skotchmaster/geotag_api/internal/service"
)

const docsURL = "https://docs.example.com/geotag"

type fakePublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *fakePublisher) PublishEvent(_ context.Context, _, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fakeIndexer struct {
	mu   sync.Mutex
	docs map[uint]models.Product
}

func (f *fakeIndexer) IndexProduct(_ context.Context, p models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[p.ID] = p
	return nil
}

func (f *fakeIndexer) DeleteProduct(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func (f *fakeIndexer) SearchProducts(_ context.Context, query string, from, size int) (int64, []models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hits := []models.Product{}
	for _, p := range f.docs {
		if strings.Contains(p.Description, query) {
			hits = append(hits, p)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	total := int64(len(hits))
	if from > len(hits) {
		from = len(hits)
	}
	end := from + size
	if end > len(hits) {
		end = len(hits)
	}
	return total, hits[from:end], nil
}

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	Repo   *repo.GormRepo
	Events *fakePublisher
	P      *ProductHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.Migrate(ctx, gdb))

	r := &repo.GormRepo{DB: gdb}
	pub := &fakePublisher{}
	idx := &fakeIndexer{docs: map[uint]models.Product{}}

	products := &service.ProductService{Store: r, Events: pub, Search: idx}
	users := &service.AuthService{Store: r, Events: pub}

	e := echo.New()
	e.Use(loggingmw.RequestLogger(logging.NewWithWriter(io.Discard, "error")))

	env := &testEnv{
		T:      t,
		E:      e,
		Repo:   r,
		Events: pub,
		P:      &ProductHTTP{Svc: products},
	}
	Register(e, &Deps{
		ProductHandler: env.P,
		AuthHandler:    &AuthHTTP{Svc: users},
		Guards:         &auth.Guards{Users: users, Products: products, MaxPerPage: 10},
		Ready:          func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		DocsURL:        docsURL,
		SearchEnabled:  true,
	})
	return env
}

func (env *testEnv) doJSONRequest(method, path string, body any) *httptest.ResponseRecorder {
	env.T.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doFormRequest(method, path string, form url.Values) *httptest.ResponseRecorder {
	env.T.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (env *testEnv) register(username, email, password string) string {
	env.T.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
	key, _ := decode(env.T, rec)["api_key"].(string)
	require.NotEmpty(env.T, key)
	return key
}

func productBody(key, dateTime, desc string) map[string]any {
	return map[string]any{
		"key":         key,
		"date_time":   dateTime,
		"description": desc,
		"latitude":    52.52,
		"longitude":   13.405,
		"elevation":   34,
	}
}

func (env *testEnv) createProduct(key, dateTime, desc string) {
	env.T.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/products", productBody(key, dateTime, desc))
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
}
