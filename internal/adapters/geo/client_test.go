package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/people-indicators/internal/adapters/geo"
)

const states = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"São Paulo","sigla":"SP"},"geometry":null},
 {"type":"Feature","properties":{"name":"Bahia","sigla":"BA"},"geometry":null}
]}`

func TestStatesGeoJSON_CachesFirstSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(states))
	}))
	defer srv.Close()

	c := geo.New(srv.URL, time.Second)
	for i := 0; i < 3; i++ {
		body, err := c.StatesGeoJSON(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, states, string(body))
	}
	assert.EqualValues(t, 1, hits.Load())
}

func TestStatesGeoJSON_ErrorsAreNotCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(states))
	}))
	defer srv.Close()

	c := geo.New(srv.URL, time.Second)
	_, err := c.StatesGeoJSON(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	_, err = c.StatesGeoJSON(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
}

func TestStatesGeoJSON_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := geo.New(srv.URL, 50*time.Millisecond).StatesGeoJSON(context.Background())
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid", states, true},
		{"not json", `<html>`, false},
		{"wrong type", `{"type":"Feature","features":[]}`, false},
		{"no features", `{"type":"FeatureCollection","features":[]}`, false},
		{"missing sigla", `{"type":"FeatureCollection","features":[{"properties":{"name":"X"}}]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := geo.Validate([]byte(tt.body))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, geo.ErrInvalidGeoJSON)
			}
		})
	}
}
