package mastodon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func loginHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/token" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostFormValue("grant_type"); got != "password" {
			t.Fatalf("grant_type = %q", got)
		}
		if got := r.PostFormValue("scope"); got != "read:statuses write:statuses" {
			t.Fatalf("scope = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","scope":"read:statuses write:statuses"}`))
	}
}

func login(t *testing.T, c *Client) {
	t.Helper()
	err := c.Login(context.Background(), Credentials{
		Username:     "bot@example.social",
		Password:     "pw",
		ClientID:     "cid",
		ClientSecret: "secret",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(loginHandler(t))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	login(t, c)
	if c.accessToken != "tok-1" {
		t.Fatalf("accessToken = %q", c.accessToken)
	}
}

func TestLoginFailureSurfacesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	err := c.Login(context.Background(), Credentials{})
	if err == nil {
		t.Fatalf("expected login error")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "invalid_grant") {
		t.Fatalf("error should carry status and snippet: %v", err)
	}
}

func TestTimelineHashtagQueryAndDecode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", loginHandler(t))
	mux.HandleFunc("/api/v1/timelines/tag/introductions", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("Authorization = %q", got)
		}
		q := r.URL.Query()
		if q.Get("since_id") != "100" || q.Get("max_id") != "200" || q.Get("limit") != "20" || q.Get("local") != "true" {
			t.Fatalf("unexpected query: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"201","visibility":"public","account":{"id":"a1","acct":"alice","display_name":"Alice"},
			 "content":"<p>hi</p>","tags":[{"name":"introductions","url":"https://example.social/tags/introductions"}]}
		]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	login(t, c)

	statuses, err := c.TimelineHashtag(context.Background(), "#introductions", TimelineQuery{
		SinceID: "100",
		MaxID:   "200",
		Limit:   20,
		Local:   true,
	})
	if err != nil {
		t.Fatalf("TimelineHashtag: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	st := statuses[0]
	if st.ID != "201" || st.Account.ID != "a1" || st.Account.Acct != "alice" {
		t.Fatalf("unexpected status: %#v", st)
	}
	if len(st.Tags) != 1 || st.Tags[0].Name != "introductions" {
		t.Fatalf("unexpected tags: %#v", st.Tags)
	}
}

func TestTimelineHashtagRequiresLogin(t *testing.T) {
	c := NewClient("https://example.social", nil)
	if _, err := c.TimelineHashtag(context.Background(), "x", TimelineQuery{}); err == nil {
		t.Fatalf("expected not-authenticated error")
	}
}

func TestPostStatusSendsFormAndDecodesReply(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", loginHandler(t))
	mux.HandleFunc("/api/v1/statuses", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("Authorization = %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostFormValue("status"); got != "@alice welcome!" {
			t.Fatalf("status = %q", got)
		}
		if got := r.PostFormValue("in_reply_to_id"); got != "s1" {
			t.Fatalf("in_reply_to_id = %q", got)
		}
		if got := r.PostFormValue("visibility"); got != "public" {
			t.Fatalf("visibility = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"r1","visibility":"public","account":{"id":"bot"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	login(t, c)

	reply, err := c.PostStatus(context.Background(), "@alice welcome!", "s1", "public")
	if err != nil {
		t.Fatalf("PostStatus: %v", err)
	}
	if reply.ID != "r1" {
		t.Fatalf("reply id = %q", reply.ID)
	}
}

func TestPostStatusErrorOnNon2xx(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", loginHandler(t))
	mux.HandleFunc("/api/v1/statuses", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	login(t, c)

	if _, err := c.PostStatus(context.Background(), "hi", "", ""); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}
