package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"akita-connect/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil, // dev mode: X-Debug-User-ID
		Log:          zerolog.Nop(),
		JWTSecret:    "test-secret",
	}))
	t.Cleanup(ts.Close)
	return ts
}

func doReq(t *testing.T, baseURL, method, path, userID string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, data
}

func decodeInto(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
}

func TestHTTP_RegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"email":        "kennel@example.com",
		"password":     "longenough",
		"display_name": "Kensha",
		"role":         "breeder",
	})
	if st != http.StatusCreated {
		t.Fatalf("register: status %d body %s", st, body)
	}
	var sess struct {
		UserID string `json:"user_id"`
		Token  string `json:"token"`
	}
	decodeInto(t, body, &sess)
	if sess.UserID == "" || sess.Token == "" {
		t.Fatalf("incomplete session: %s", body)
	}

	st, body = doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
		"email":    "kennel@example.com",
		"password": "longenough",
	})
	if st != http.StatusOK {
		t.Fatalf("login: status %d body %s", st, body)
	}

	st, body = doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
		"email":    "kennel@example.com",
		"password": "wrong",
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d body %s", st, body)
	}
}

func TestHTTP_AnimalsAndPedigree(t *testing.T) {
	ts := newTestServer(t)
	owner := "owner-1"

	create := func(payload map[string]any) string {
		st, body := doReq(t, ts.URL, "POST", "/akitas", owner, payload)
		if st != http.StatusCreated {
			t.Fatalf("create animal: status %d body %s", st, body)
		}
		var a struct {
			ID string `json:"id"`
		}
		decodeInto(t, body, &a)
		return a.ID
	}

	sireID := create(map[string]any{"name": "Taro", "sex": "male"})
	damID := create(map[string]any{"name": "Yuki", "sex": "female"})
	childID := create(map[string]any{"name": "Ichi", "sex": "male", "sire_id": sireID, "dam_id": damID})

	// Writes require identity.
	st, _ := doReq(t, ts.URL, "POST", "/akitas", "", map[string]any{"name": "Nameless"})
	if st != http.StatusUnauthorized {
		t.Fatalf("anonymous create: status %d, want 401", st)
	}

	// Only the owner may edit.
	st, _ = doReq(t, ts.URL, "PUT", "/akitas/"+childID, "intruder", map[string]any{"name": "Stolen"})
	if st != http.StatusForbidden {
		t.Fatalf("intruder update: status %d, want 403", st)
	}

	st, body := doReq(t, ts.URL, "GET", "/akitas/"+childID+"/pedigree", "", nil)
	if st != http.StatusOK {
		t.Fatalf("pedigree: status %d body %s", st, body)
	}
	var ped struct {
		Sire *struct {
			Name string `json:"name"`
		} `json:"sire"`
		Dam *struct {
			Name string `json:"name"`
		} `json:"dam"`
	}
	decodeInto(t, body, &ped)
	if ped.Sire == nil || ped.Sire.Name != "Taro" || ped.Dam == nil || ped.Dam.Name != "Yuki" {
		t.Fatalf("pedigree incomplete: %s", body)
	}
}

func TestHTTP_ForumFlow(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "POST", "/threads", "author-1", map[string]any{
		"title":    "Coat blowing season",
		"body":     "How do you all manage it?",
		"category": "grooming",
		"tags":     []string{"coat", "Grooming", "coat"},
	})
	if st != http.StatusCreated {
		t.Fatalf("create thread: status %d body %s", st, body)
	}
	var thread struct {
		ID   string   `json:"id"`
		Tags []string `json:"tags"`
	}
	decodeInto(t, body, &thread)
	if len(thread.Tags) != 2 {
		t.Fatalf("tags not normalized: %v", thread.Tags)
	}

	st, body = doReq(t, ts.URL, "POST", "/threads/"+thread.ID+"/posts", "helper-1", map[string]any{
		"body": "Daily raking.",
	})
	if st != http.StatusCreated {
		t.Fatalf("reply: status %d body %s", st, body)
	}

	st, body = doReq(t, ts.URL, "POST", "/threads/"+thread.ID+"/like", "helper-1", nil)
	if st != http.StatusOK {
		t.Fatalf("like: status %d body %s", st, body)
	}
	var like struct {
		Liked bool `json:"liked"`
	}
	decodeInto(t, body, &like)
	if !like.Liked {
		t.Fatalf("expected liked=true")
	}

	// Listing as the liker surfaces counts and the viewer flag.
	st, body = doReq(t, ts.URL, "GET", "/threads", "helper-1", nil)
	if st != http.StatusOK {
		t.Fatalf("list: status %d body %s", st, body)
	}
	var views []struct {
		ID           string `json:"id"`
		LikesCount   int    `json:"likes_count"`
		UserHasLiked bool   `json:"user_has_liked"`
		ReplyCount   int    `json:"reply_count"`
	}
	decodeInto(t, body, &views)
	if len(views) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(views))
	}
	if views[0].LikesCount != 1 || !views[0].UserHasLiked || views[0].ReplyCount != 1 {
		t.Fatalf("enrichment wrong: %+v", views[0])
	}

	// The author gets a reply notification.
	st, body = doReq(t, ts.URL, "GET", "/notifications", "author-1", nil)
	if st != http.StatusOK {
		t.Fatalf("notifications: status %d body %s", st, body)
	}
	var ns []struct {
		Type string `json:"type"`
	}
	decodeInto(t, body, &ns)
	if len(ns) != 1 || ns[0].Type != "thread_reply" {
		t.Fatalf("notifications = %s", body)
	}
}

func TestHTTP_ConversationsUnread(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "POST", "/conversations", "user-a", map[string]any{
		"participant_ids": []string{"user-b"},
	})
	if st != http.StatusCreated {
		t.Fatalf("create conversation: status %d body %s", st, body)
	}
	var conv struct {
		ID string `json:"id"`
	}
	decodeInto(t, body, &conv)

	st, body = doReq(t, ts.URL, "POST", "/conversations/"+conv.ID+"/messages", "user-b", map[string]any{
		"body": "hello A",
	})
	if st != http.StatusCreated {
		t.Fatalf("send: status %d body %s", st, body)
	}

	unread := func(userID string) int {
		st, body := doReq(t, ts.URL, "GET", "/conversations", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("list conversations: status %d body %s", st, body)
		}
		var sums []struct {
			ID          string `json:"id"`
			UnreadCount int    `json:"unread_count"`
		}
		decodeInto(t, body, &sums)
		if len(sums) != 1 {
			t.Fatalf("expected 1 conversation for %s, got %d", userID, len(sums))
		}
		return sums[0].UnreadCount
	}

	if n := unread("user-a"); n != 1 {
		t.Fatalf("a unread = %d, want 1", n)
	}
	if n := unread("user-b"); n != 0 {
		t.Fatalf("b unread = %d, want 0", n)
	}

	// Opening clears the opener's counter.
	if st, body := doReq(t, ts.URL, "GET", "/conversations/"+conv.ID, "user-a", nil); st != http.StatusOK {
		t.Fatalf("open: status %d body %s", st, body)
	}
	if n := unread("user-a"); n != 0 {
		t.Fatalf("a unread after open = %d, want 0", n)
	}

	// Strangers stay out.
	if st, _ := doReq(t, ts.URL, "GET", "/conversations/"+conv.ID, "stranger", nil); st != http.StatusForbidden {
		t.Fatalf("stranger open: status %d, want 403", st)
	}
}

func TestHTTP_MarketplaceAndHealth(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "GET", "/marketplace", "", nil)
	if st != http.StatusOK {
		t.Fatalf("marketplace: status %d body %s", st, body)
	}
	var items []json.RawMessage
	decodeInto(t, body, &items)
	if len(items) != 0 {
		t.Fatalf("expected empty marketplace, got %d", len(items))
	}

	st, body = doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health: status %d body %q", st, body)
	}

	st, _ = doReq(t, ts.URL, "GET", "/metrics", "", nil)
	if st != http.StatusOK {
		t.Fatalf("metrics: status %d", st)
	}
}

func TestHTTP_FollowAndNotifications(t *testing.T) {
	ts := newTestServer(t)

	// Followee needs a profile for the notification wording; register one.
	st, body := doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"email":        "aiko@example.com",
		"password":     "longenough",
		"display_name": "Aiko",
	})
	if st != http.StatusCreated {
		t.Fatalf("register: status %d body %s", st, body)
	}
	var sess struct {
		UserID string `json:"user_id"`
	}
	decodeInto(t, body, &sess)

	if st, body := doReq(t, ts.URL, "POST", "/follows/"+sess.UserID, "fan-1", nil); st != http.StatusNoContent {
		t.Fatalf("follow: status %d body %s", st, body)
	}

	st, body = doReq(t, ts.URL, "GET", "/users/"+sess.UserID+"/followers", "", nil)
	if st != http.StatusOK {
		t.Fatalf("followers: status %d body %s", st, body)
	}
	var followers []struct {
		FollowerID string `json:"follower_id"`
	}
	decodeInto(t, body, &followers)
	if len(followers) != 1 || followers[0].FollowerID != "fan-1" {
		t.Fatalf("followers = %s", body)
	}

	st, body = doReq(t, ts.URL, "GET", "/notifications", sess.UserID, nil)
	if st != http.StatusOK {
		t.Fatalf("notifications: status %d body %s", st, body)
	}
	var ns []struct {
		Type string `json:"type"`
	}
	decodeInto(t, body, &ns)
	if len(ns) != 1 || ns[0].Type != "follow" {
		t.Fatalf("notifications = %s", body)
	}
}
