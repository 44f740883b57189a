package trello

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/trelloflash/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	return New(NewCredentials("app-key", "user-token"), opts...), srv
}

func TestClient_List(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/lists/list-1", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "app-key", q.Get("key"))
		assert.Equal(t, "user-token", q.Get("token"))
		assert.Equal(t, "open", q.Get("cards"))
		assert.Equal(t, "name,desc", q.Get("card_fields"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "list-1",
			"name": "Capitals",
			"idBoard": "board-9",
			"cards": [
				{"id": "c1", "name": "France?", "desc": "Paris"},
				{"id": "c2", "name": "Spain?", "desc": "Madrid"}
			]
		}`))
	})

	list, err := c.List(context.Background(), "list-1")
	require.NoError(t, err)
	assert.Equal(t, "list-1", list.ID)
	assert.Equal(t, "board-9", list.BoardID)
	assert.Equal(t, "Capitals", list.Name)
	assert.Equal(t, []models.Card{
		{ID: "c1", ListID: "list-1", Question: "France?", Answer: "Paris"},
		{ID: "c2", ListID: "list-1", Question: "Spain?", Answer: "Madrid"},
	}, list.Cards)
}

func TestClient_List_NullAnswer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	_, err := c.List(context.Background(), "list-1")
	assert.ErrorIs(t, err, ErrServiceUnreachable)
}

func TestClient_List_OtherListInAnswer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "list-2", "name": "Other", "cards": []}`))
	})

	_, err := c.List(context.Background(), "list-1")
	assert.ErrorIs(t, err, ErrServiceUnreachable)
}

func TestClient_Boards(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/members/me/boards", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("filter"))
		assert.Equal(t, "name,prefs", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`[
			{"id": "b1", "name": "Plain", "prefs": {"backgroundColor": "#D29034", "backgroundImage": null}},
			{"id": "b2", "name": "Photo", "prefs": {"backgroundColor": "#D29034", "backgroundImage": "https://img"}},
			{"id": "b3", "name": "Odd", "prefs": {"backgroundColor": "green"}}
		]`))
	})

	boards, err := c.Boards(context.Background())
	require.NoError(t, err)
	require.Len(t, boards, 3)
	assert.Equal(t, "#d29034", boards[0].Color)
	assert.Equal(t, models.StandardBoardColor, boards[1].Color)
	assert.Equal(t, models.StandardBoardColor, boards[2].Color)
}

func TestClient_BoardLists(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/boards/b1/lists", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": "l1", "name": "To learn", "cards": [{"id": "c1", "name": "q", "desc": "a"}]},
			{"id": "l2", "name": "Learned", "cards": []}
		]`))
	})

	lists, err := c.BoardLists(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "b1", lists[0].BoardID)
	assert.Equal(t, "l1", lists[0].Cards[0].ListID)
	assert.Empty(t, lists[1].Cards)
}

func TestClient_MoveCard(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/cards/c1/idList", r.URL.Path)
		assert.Equal(t, "l2", r.URL.Query().Get("value"))
		_, _ = w.Write([]byte(`{"id": "c1", "idList": "l2"}`))
	})

	require.NoError(t, c.MoveCard(context.Background(), "c1", "l2"))
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized status", http.StatusUnauthorized, "unauthorized permission requested", ErrUnauthorized},
		{"bad request with invalid token", http.StatusBadRequest, "invalid token", ErrUnauthorized},
		{"bad request with invalid key", http.StatusBadRequest, "invalid key", ErrUnauthorized},
		{"plain bad request", http.StatusBadRequest, "invalid value for idList", ErrServiceUnreachable},
		{"not found", http.StatusNotFound, "The requested resource was not found.", ErrServiceUnreachable},
		{"server error", http.StatusInternalServerError, "oops", ErrServiceUnreachable},
		{"malformed json", http.StatusOK, "{not json", ErrServiceUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.List(context.Background(), "l1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_NoTokenSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(NewCredentials("app-key", ""), WithBaseURL(srv.URL))
	_, err := c.Boards(context.Background())

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(0), calls.Load())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(50*time.Millisecond))
	defer close(release)

	_, err := c.List(context.Background(), "l1")
	assert.ErrorIs(t, err, ErrServiceUnreachable)
}

func TestClient_CallerCancellation(t *testing.T) {
	started := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.List(ctx, "l1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrServiceUnreachable))
}

func TestClient_ValidateToken(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/members/me", r.URL.Path)
			_, _ = w.Write([]byte(`{"id": "m1", "username": "ana"}`))
		})
		ok, err := c.ValidateToken(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejected", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		ok, err := c.ValidateToken(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unreachable", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		ok, err := c.ValidateToken(context.Background())
		assert.ErrorIs(t, err, ErrServiceUnreachable)
		assert.False(t, ok)
	})
}

func TestClient_TokenUpdateAppliesToNextRequest(t *testing.T) {
	var seen atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	creds := NewCredentials("app-key", "old")
	c := New(creds, WithBaseURL(srv.URL))
	creds.SetToken("new")

	_, err := c.Boards(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", seen.Load())
}
