package scorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPScorer_Score(t *testing.T) {
	features := Features{
		AvgPauseMs:     200,
		AvgScrollDepth: 60,
		AvgTypingSpeed: 220,
		AvgResponseMs:  1000,
		SampleCount:    3,
	}

	t.Run("posts features and returns the verdict", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/score", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var got Features
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, features, got)

			w.Write([]byte(`{"score":88,"label":"engaged"}`))
		}))
		defer srv.Close()

		verdict, err := NewHTTPScorer(srv.URL, time.Second).Score(context.Background(), features)
		require.NoError(t, err)
		assert.JSONEq(t, `{"score":88,"label":"engaged"}`, string(verdict))
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewHTTPScorer(srv.URL, time.Second).Score(context.Background(), features)
		assert.Error(t, err)
	})

	t.Run("invalid JSON body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("engaged"))
		}))
		defer srv.Close()

		_, err := NewHTTPScorer(srv.URL, time.Second).Score(context.Background(), features)
		assert.Error(t, err)
	})

	t.Run("context timeout cancels the call", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := NewHTTPScorer(srv.URL, time.Second).Score(ctx, features)
		assert.Error(t, err)
	})
}
