package trigger

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallAsync_CallsURL(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.URL.Query().Get("record_id")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	done := CallAsync(srv.URL+"/hook?record_id=", "7c9e6679-7425-40de-944b-e07fc1f90ae7", srv.Client())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("trigger did not finish")
	}
	require.Len(t, got, 1)
	assert.Equal(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", <-got)
}

func TestCallAsync_NoURL(t *testing.T) {
	done := CallAsync("", "id", http.DefaultClient)
	_, open := <-done
	assert.False(t, open)
}

func TestCallAsync_ServerErrorIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	select {
	case <-CallAsync(srv.URL+"?id=", "abc", srv.Client()):
	case <-time.After(5 * time.Second):
		t.Fatal("trigger did not finish")
	}
}
