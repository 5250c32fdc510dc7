package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"bookstore/internal/db"
	"bookstore/internal/domain"
	"bookstore/internal/search"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// newTestApp boots the full router over a throwaway database, an
// in-memory search index and a miniredis cache
func newTestApp(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	g, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.RegisterJoinTables(g); err != nil {
		t.Fatalf("register join tables: %v", err)
	}
	if err := db.AutoMigrate(g); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.SeedRoles(g); err != nil {
		t.Fatalf("seed roles: %v", err)
	}

	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})

	idx, err := search.Open("")
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	router := NewRouter(g, rdb, idx, testSecret, "../../web/templates")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, g
}

// newBrowser is an HTTP client with a cookie jar, standing in for one
// logged-in browser
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func postForm(t *testing.T, client *http.Client, url string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(url, form)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

// postBookForm submits the multipart book-creation form with a cover
func postBookForm(t *testing.T, client *http.Client, base string, fields map[string]string, cover []byte) (*http.Response, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	fw, err := w.CreateFormFile("image", "cover.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(cover); err != nil {
		t.Fatalf("write cover: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	resp, err := client.Post(base+"/lk/create", w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST /lk/create: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func register(t *testing.T, client *http.Client, base, username, email, number string) {
	t.Helper()
	resp, _ := postForm(t, client, base+"/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {"long enough password"},
		"number":   {number},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}
}

func login(t *testing.T, client *http.Client, base, email string) {
	t.Helper()
	resp, _ := postForm(t, client, base+"/login", url.Values{
		"email":    {email},
		"password": {"long enough password"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
}

func TestStorefrontEndToEnd(t *testing.T) {
	ts, g := newTestApp(t)
	cover := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}

	// Admin registers with the reserved address and signs in
	admin := newBrowser(t)
	register(t, admin, ts.URL, "boss", domain.AdminEmail, "555-0100")
	login(t, admin, ts.URL, domain.AdminEmail)

	// Admin creates the author and a book linked to them
	if resp, body := postForm(t, admin, ts.URL+"/lk/create", url.Values{
		"form":   {"author"},
		"author": {"Pushkin"},
	}); resp.StatusCode != http.StatusOK {
		t.Fatalf("create author: status %d body %s", resp.StatusCode, body)
	}
	var author domain.Author
	if err := g.First(&author, "name = ?", "Pushkin").Error; err != nil {
		t.Fatalf("author row missing: %v", err)
	}
	if resp, body := postBookForm(t, admin, ts.URL, map[string]string{
		"form":        "book",
		"name":        "Eugene Onegin",
		"type":        "novel",
		"description": "verse novel",
		"price":       "500",
		"authors":     fmt.Sprint(author.ID),
	}, cover); resp.StatusCode != http.StatusOK {
		t.Fatalf("create book: status %d body %s", resp.StatusCode, body)
	}
	var book domain.Book
	if err := g.First(&book, "title = ?", "Eugene Onegin").Error; err != nil {
		t.Fatalf("book row missing: %v", err)
	}

	// The raw cover is served as an octet stream
	resp, body := get(t, admin, fmt.Sprintf("%s/store/%d/image", ts.URL, book.ID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cover: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/octet-stream" {
		t.Fatalf("cover content type %q", ct)
	}
	if !bytes.Equal([]byte(body), cover) {
		t.Fatalf("cover bytes changed in transit")
	}

	// A regular buyer registers, logs in and finds the book via search
	buyer := newBrowser(t)
	register(t, buyer, ts.URL, "alice", "alice@example.com", "555-0101")
	login(t, buyer, ts.URL, "alice@example.com")
	if _, body := get(t, buyer, ts.URL+"/search?q=Onegin"); !strings.Contains(body, "Eugene Onegin") {
		t.Fatalf("search did not find the book:\n%s", body)
	}

	// The buyer is not an admin
	if resp, _ := get(t, buyer, ts.URL+"/lk"); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("buyer reached the admin console: status %d", resp.StatusCode)
	}

	// Buy: the order snapshots the book at the moment of purchase
	if resp, _ := postForm(t, buyer, fmt.Sprintf("%s/books/buy/%d", ts.URL, book.ID), url.Values{}); resp.StatusCode != http.StatusOK {
		t.Fatalf("buy: status %d", resp.StatusCode)
	}
	var order domain.Order
	if err := g.First(&order, "user = ?", "alice").Error; err != nil {
		t.Fatalf("order row missing: %v", err)
	}
	if order.Status != domain.StatusCreated || order.Price != "500" || order.Book != "Eugene Onegin" {
		t.Fatalf("unexpected order snapshot: %+v", order)
	}

	// Buyer sends the cart to processing
	if resp, _ := postForm(t, buyer, ts.URL+"/work", url.Values{}); resp.StatusCode != http.StatusOK {
		t.Fatalf("work: status %d", resp.StatusCode)
	}
	if err := g.First(&order, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.Status != domain.StatusProcessing {
		t.Fatalf("order status %q, want %q", order.Status, domain.StatusProcessing)
	}

	// Admin takes the order into work
	if resp, _ := postForm(t, admin, fmt.Sprintf("%s/lk/work/%d", ts.URL, order.ID), url.Values{}); resp.StatusCode != http.StatusOK {
		t.Fatalf("admin work: status %d", resp.StatusCode)
	}
	if err := g.First(&order, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if order.Status != domain.StatusInWork {
		t.Fatalf("order status %q, want %q", order.Status, domain.StatusInWork)
	}

	// Admin deletes the author; the book stays, the association goes
	if resp, _ := postForm(t, admin, ts.URL+"/lk/delete", url.Values{
		"form": {"author"},
		"name": {fmt.Sprint(author.ID)},
	}); resp.StatusCode != http.StatusOK {
		t.Fatalf("delete author: status %d", resp.StatusCode)
	}
	var assocCount int64
	if err := g.Model(&domain.Association{}).Where("author_id = ?", author.ID).Count(&assocCount).Error; err != nil {
		t.Fatalf("count associations: %v", err)
	}
	if assocCount != 0 {
		t.Fatalf("association rows survived the author delete")
	}
	if err := g.First(&book, book.ID).Error; err != nil {
		t.Fatalf("book vanished with the author: %v", err)
	}
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	ts, _ := newTestApp(t)
	browser := newBrowser(t)

	resp, err := browser.Get(ts.URL + "/cart")
	if err != nil {
		t.Fatalf("GET /cart: %v", err)
	}
	defer resp.Body.Close()
	// The redirect chain must land on the login form
	if resp.Request.URL.Path != "/login" {
		t.Fatalf("landed on %s, want /login", resp.Request.URL.Path)
	}
}

func TestMissingEntitiesReturn404(t *testing.T) {
	ts, _ := newTestApp(t)
	browser := newBrowser(t)

	for _, path := range []string{"/books/9999", "/authors/9999", "/store/9999/image", "/books/abc"} {
		resp, _ := get(t, browser, ts.URL+path)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: status %d, want 404", path, resp.StatusCode)
		}
	}
}
