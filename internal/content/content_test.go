package content

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/insurancevn/insurancenews/internal/cache"
	"github.com/insurancevn/insurancenews/internal/config"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
)

const articleJSON = `{
	"id": "a1",
	"title": "Bảo hiểm Việt Nam",
	"summary": "Tóm tắt",
	"content": "<p>Nội dung</p>",
	"slug": "bao-hiem-viet-nam",
	"publishedAt": "2024-01-01",
	"category": "bao-hiem-nhan-tho",
	"categoryName": "Bảo hiểm nhân thọ",
	"tags": ["BHXH"],
	"readingTime": 4,
	"isAiRewritten": true,
	"isDisputable": false,
	"viewCount": 1200
}`

func testWindows() config.CacheConfig {
	return config.CacheConfig{
		Article:         5 * time.Minute,
		RelatedArticles: 10 * time.Minute,
		LegalDoc:        time.Hour,
		RelatedDocs:     time.Hour,
		Home:            5 * time.Minute,
		Companies:       time.Hour,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.APIConfig{BaseURL: server.URL, Prefix: "/api/v1", Timeout: 2 * time.Second}, nil)
}

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()
	return NewFetcher(newTestClient(t, handler), cache.New(64), testWindows())
}

func TestClient_GetUsesPrefix(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"data":` + articleJSON + `}`))
	})

	a, err := c.Articles().BySlug(t.Context(), "bao-hiem-viet-nam")
	require.NoError(t, err)
	require.Equal(t, "/api/v1/articles/bao-hiem-viet-nam", gotPath)
	require.Equal(t, "Bảo hiểm Việt Nam", a.Title)
	require.True(t, a.IsAIRewritten)
	require.EqualValues(t, 1200, a.ViewCount)
}

func TestClient_StrictErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category ferrors.ErrorCategory
	}{
		{"404 is not found", http.StatusNotFound, `{"detail":"nope"}`, ferrors.CategoryNotFound},
		{"500 is network", http.StatusInternalServerError, `oops`, ferrors.CategoryNetwork},
		{"bad json is decode", http.StatusOK, `{"data":`, ferrors.CategoryDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Articles().BySlug(t.Context(), "x")
			require.Error(t, err)
			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			require.Equal(t, tt.category, fe.Category())
			require.True(t, ferrors.HasCategory(err, tt.category))
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	c := NewClient(config.APIConfig{BaseURL: server.URL, Prefix: "/api/v1", Timeout: time.Second}, nil)

	err := c.Get(t.Context(), "/categories", &struct{}{})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))
}

func TestClient_ResponseSizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":"` + strings.Repeat("x", 100) + `"}`))
	}))
	t.Cleanup(server.Close)
	c := NewClient(config.APIConfig{BaseURL: server.URL, Prefix: "/api/v1", Timeout: time.Second, MaxResponseBytes: 32}, nil)

	_, err := c.GetRaw(t.Context(), "/big")
	require.Error(t, err)
	require.Contains(t, err.Error(), "exceeds 32 bytes")
}

func TestClient_Post(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["email"]})
	})

	var out map[string]string
	require.NoError(t, c.Post(t.Context(), "/newsletter", map[string]string{"email": "a@b.vn"}, &out))
	require.Equal(t, "a@b.vn", out["echo"])
}

func TestFetcher_GetArticle(t *testing.T) {
	t.Run("200 returns data", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":` + articleJSON + `}`))
		})
		a := f.GetArticle(t.Context(), "bao-hiem-viet-nam")
		require.NotNil(t, a)
		require.Equal(t, "bao-hiem-viet-nam", a.Slug)
	})

	t.Run("404 returns nil", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) })
		require.Nil(t, f.GetArticle(t.Context(), "missing"))

		res := f.Article(t.Context(), "missing")
		require.True(t, res.IsErr())
		require.True(t, res.Error().NotFound())
	})

	t.Run("null data returns nil", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":null}`))
		})
		require.Nil(t, f.GetArticle(t.Context(), "x"))
	})
}

func TestFetcher_CachesWithinWindow(t *testing.T) {
	var hits int32
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"data":` + articleJSON + `}`))
	})

	for range 3 {
		require.NotNil(t, f.GetArticle(t.Context(), "bao-hiem-viet-nam"))
	}
	require.EqualValues(t, 1, hits)
	require.EqualValues(t, 2, f.CacheStats().Hits)

	require.Equal(t, 1, f.Invalidate(ResourceArticle, "bao-hiem-viet-nam"))
	require.NotNil(t, f.GetArticle(t.Context(), "bao-hiem-viet-nam"))
	require.EqualValues(t, 2, hits)
}

func TestFetcher_SharedLoadSurvivesCancelledRequest(t *testing.T) {
	arrived := make(chan struct{}, 2)
	release := make(chan struct{})
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		arrived <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`{"data":` + articleJSON + `}`))
	})

	gone, cancel := context.WithCancel(t.Context())
	goneDone := make(chan *Article, 1)
	go func() { goneDone <- f.GetArticle(gone, "bao-hiem-viet-nam") }()
	<-arrived

	healthyDone := make(chan *Article, 1)
	go func() { healthyDone <- f.GetArticle(t.Context(), "bao-hiem-viet-nam") }()
	time.Sleep(20 * time.Millisecond)

	cancel()
	require.Nil(t, <-goneDone)
	close(release)

	a := <-healthyDone
	require.NotNil(t, a, "a request sharing the load gets the article")
	require.Equal(t, "bao-hiem-viet-nam", a.Slug)
	require.Len(t, arrived, 0, "one backend request for both callers")
}

func TestFetcher_SharedFailureLoggedOnce(t *testing.T) {
	var logs bytes.Buffer
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	f := NewFetcher(client, cache.New(64), testWindows(),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	var (
		wg    sync.WaitGroup
		found atomic.Int32
	)
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.GetArticle(context.Background(), "x") != nil {
				found.Add(1)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Zero(t, found.Load())

	require.Equal(t, 1, strings.Count(logs.String(), "Content fetch failed"))
}

func TestFetcher_Companies(t *testing.T) {
	var hits int32
	var gotURI string
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		gotURI = r.URL.RequestURI()
		_, _ = w.Write([]byte(`{"items":[{"id":"c1","name":"Bảo Việt","slug":"bao-viet","website":"https://baoviet.com.vn"}],"total":1}`))
	})

	for range 2 {
		res := f.Companies(t.Context())
		require.True(t, res.IsOk())
		require.Equal(t, "bao-viet", res.Unwrap()[0].Slug)
	}
	require.Equal(t, "/api/v1/companies", gotURI)
	require.EqualValues(t, 1, hits)

	require.Equal(t, 1, f.Invalidate(ResourceCompanies, ""))
	require.True(t, f.Companies(t.Context()).IsOk())
	require.EqualValues(t, 2, hits)
}

func TestFetcher_DoesNotCacheUndecodableBodies(t *testing.T) {
	var hits int32
	f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"data":{"documentNumber":"1","status":"repealed"}}`))
	})

	for range 2 {
		res := f.LegalDocument(t.Context(), "1")
		require.True(t, res.IsErr())
		require.Equal(t, ferrors.CategoryDecode, res.Error().Category())
	}
	require.EqualValues(t, 2, hits)
}

func TestFetcher_RelatedArticles(t *testing.T) {
	t.Run("query parameters", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			require.Equal(t, "/api/v1/articles", r.URL.Path)
			require.Equal(t, "bhxh", q.Get("category"))
			require.Equal(t, "3", q.Get("limit"))
			require.Equal(t, "current", q.Get("exclude"))
			_, _ = w.Write([]byte(`{"data":[` + articleJSON + `]}`))
		})
		require.Len(t, f.GetRelatedArticles(t.Context(), "current", "bhxh"), 1)
	})

	t.Run("paginated items form", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"items":[` + articleJSON + `],"total":1,"page":1,"page_size":20,"pages":1}`))
		})
		require.Len(t, f.GetRelatedArticles(t.Context(), "current", "bhxh"), 1)
	})

	t.Run("unreachable backend yields empty list", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(config.APIConfig{BaseURL: server.URL, Prefix: "/api/v1", Timeout: time.Second}, nil)
		f := NewFetcher(client, cache.New(8), testWindows())

		got := f.GetRelatedArticles(t.Context(), "x", "bhxh")
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("missing data yields empty list", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})
		got := f.RelatedArticles(t.Context(), "x", "bhxh")
		require.True(t, got.IsOk())
		require.Empty(t, got.Unwrap())
	})
}

func TestFetcher_LegalDocuments(t *testing.T) {
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/legal-docs/67-2023-ND-CP":
			_, _ = w.Write([]byte(`{"data":{"id":"d1","docNumber":"67/2023/NĐ-CP","docType":"Nghị định","title":"Quy định chi tiết","status":"Expired"}}`))
		case r.URL.Path == "/api/v1/legal-docs" && r.URL.Query().Get("related") == "67-2023-ND-CP":
			require.Equal(t, "5", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"data":[]}`))
		default:
			http.NotFound(w, r)
		}
	})

	doc := f.GetLegalDocument(t.Context(), "67-2023-ND-CP")
	require.NotNil(t, doc)
	require.Equal(t, "67/2023/NĐ-CP", doc.DocumentNumber)
	require.Equal(t, "Nghị định", doc.DocumentType)
	require.Equal(t, StatusExpired, doc.Status)
	require.False(t, doc.Status.InForce())

	require.Empty(t, f.GetRelatedDocuments(t.Context(), "67-2023-ND-CP"))
}

func TestFetcher_FeaturedArticle(t *testing.T) {
	t.Run("empty list is not found", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "true", r.URL.Query().Get("featured"))
			_, _ = w.Write([]byte(`{"data":[]}`))
		})
		res := f.FeaturedArticle(t.Context())
		require.True(t, res.IsErr())
		require.True(t, res.Error().NotFound())
	})

	t.Run("first item", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":[` + articleJSON + `]}`))
		})
		res := f.FeaturedArticle(t.Context())
		require.True(t, res.IsOk())
		require.Equal(t, "a1", res.Unwrap().ID)
	})
}

func TestFetcher_SearchBypassesCache(t *testing.T) {
	var hits int32
	f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		require.Equal(t, "bồi thường", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	f.SearchArticles(t.Context(), "bồi thường", 20)
	f.SearchArticles(t.Context(), "bồi thường", 20)
	require.EqualValues(t, 2, hits)
}

func TestLegalStatusDecoding(t *testing.T) {
	var doc LegalDocument
	err := json.Unmarshal([]byte(`{"documentNumber":"1","status":"repealed"}`), &doc)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid legal status")

	err = json.Unmarshal([]byte(`{"documentNumber":"1"}`), &doc)
	require.ErrorContains(t, err, "missing status")

	require.NoError(t, json.Unmarshal([]byte(`{"documentNumber":"1","status":" draft "}`), &doc))
	require.Equal(t, StatusDraft, doc.Status)
}

func TestPlainTextAndReadingTime(t *testing.T) {
	body := `<h2>Tiêu đề</h2><p>Một  hai<br>ba</p><script>var x = 1;</script><style>p{}</style>`
	require.Equal(t, "Tiêu đề Một hai ba", PlainText(body))

	require.Equal(t, 0, ReadingTime(""))
	require.Equal(t, 1, ReadingTime("<p>một từ</p>"))
	require.Equal(t, 2, ReadingTime("<p>"+strings.Repeat("từ ", 201)+"</p>"))

	a := Article{Content: "<p>ngắn</p>"}
	require.Equal(t, 1, a.EffectiveReadingTime())
	a.ReadingTime = 7
	require.Equal(t, 7, a.EffectiveReadingTime())
}
