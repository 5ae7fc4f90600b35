package fipe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	hits  map[string]*atomic.Int32
	delay time.Duration
}

func newFakeAPI(t *testing.T, delay time.Duration) (*fakeAPI, *httptest.Server) {
	api := &fakeAPI{hits: map[string]*atomic.Int32{}, delay: delay}
	routes := map[string]string{
		"/carros/marcas":                             `[{"nome":"Toyota","codigo":"59"},{"nome":"Honda","codigo":"25"}]`,
		"/carros/marcas/59/modelos":                  `{"modelos":[{"nome":"Corolla XEi 2.0","codigo":4828},{"nome":"Etios","codigo":"6523"}],"anos":[]}`,
		"/carros/marcas/59/modelos/4828/anos":        `[{"nome":"2019 Gasolina","codigo":"2019-1"}]`,
		"/carros/marcas/59/modelos/4828/anos/2019-1": `{"TipoVeiculo":1,"Valor":"R$ 98.000,00","Marca":"Toyota","Modelo":"Corolla XEi 2.0","AnoModelo":2019,"Combustivel":"Gasolina","CodigoFipe":"002111-9","MesReferencia":"março de 2024","SiglaCombustivel":"G"}`,
	}
	for path := range routes {
		api.hits[path] = &atomic.Int32{}
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		api.hits[r.URL.Path].Add(1)
		if api.delay > 0 {
			time.Sleep(api.delay)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return api, srv
}

func TestCodeDecodesStringsAndNumbers(t *testing.T) {
	var items []Item
	require.NoError(t, json.Unmarshal([]byte(`[{"nome":"a","codigo":"7"},{"nome":"b","codigo":4828}]`), &items))
	assert.Equal(t, Code("7"), items[0].Code)
	assert.Equal(t, Code("4828"), items[1].Code)

	var c Code
	assert.Error(t, json.Unmarshal([]byte(`{}`), &c))
}

func TestBrandsAreCached(t *testing.T) {
	api, srv := newFakeAPI(t, 0)
	c := New(srv.URL, time.Second, zap.NewNop())
	ctx := context.Background()

	brands, err := c.Brands(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 2)
	assert.Equal(t, "Toyota", brands[0].Name)

	_, err = c.Brands(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, api.hits["/carros/marcas"].Load())
}

func TestModelsAreCachedPerBrand(t *testing.T) {
	api, srv := newFakeAPI(t, 0)
	c := New(srv.URL, time.Second, zap.NewNop())
	ctx := context.Background()

	models, err := c.Models(ctx, "59")
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, Code("4828"), models[0].Code)

	_, err = c.Models(ctx, "59")
	require.NoError(t, err)
	assert.EqualValues(t, 1, api.hits["/carros/marcas/59/modelos"].Load())

	_, err = c.Models(ctx, "25")
	assert.Error(t, err, "unknown brand returns the 404")
}

func TestConcurrentMissesShareOneRequest(t *testing.T) {
	api, srv := newFakeAPI(t, 50*time.Millisecond)
	c := New(srv.URL, time.Second, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Brands(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, api.hits["/carros/marcas"].Load())
}

func TestCallerLeavingDoesNotFailSharedRequest(t *testing.T) {
	api, srv := newFakeAPI(t, 150*time.Millisecond)
	c := New(srv.URL, time.Second, zap.NewNop())

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Models(first, "59")
		firstErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	second := make(chan error, 1)
	go func() {
		models, err := c.Models(context.Background(), "59")
		if err == nil && len(models) != 2 {
			err = assert.AnError
		}
		second <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-firstErr, context.Canceled)
	assert.NoError(t, <-second)
	assert.EqualValues(t, 1, api.hits["/carros/marcas/59/modelos"].Load())

	// The shared result was cached even though its first caller left.
	_, err := c.Models(context.Background(), "59")
	require.NoError(t, err)
	assert.EqualValues(t, 1, api.hits["/carros/marcas/59/modelos"].Load())
}

func TestYearsAndDetails(t *testing.T) {
	_, srv := newFakeAPI(t, 0)
	c := New(srv.URL, time.Second, zap.NewNop())
	ctx := context.Background()

	years, err := c.Years(ctx, "59", "4828")
	require.NoError(t, err)
	require.Len(t, years, 1)
	assert.Equal(t, Code("2019-1"), years[0].Code)

	d, err := c.Details(ctx, "59", "4828", years[0].Code)
	require.NoError(t, err)
	assert.Equal(t, "R$ 98.000,00", d.Value)
	assert.Equal(t, 2019, d.ModelYear)
}

func TestFindIgnoresCase(t *testing.T) {
	_, srv := newFakeAPI(t, 0)
	c := New(srv.URL, time.Second, zap.NewNop())
	ctx := context.Background()

	b, ok, err := c.FindBrand(ctx, "toyota")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Code("59"), b.Code)

	_, ok, err = c.FindBrand(ctx, "Lada")
	require.NoError(t, err)
	assert.False(t, ok)

	m, ok, err := c.FindModel(ctx, b.Code, "ETIOS")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Code("6523"), m.Code)
}

func TestTimeout(t *testing.T) {
	_, srv := newFakeAPI(t, 300*time.Millisecond)
	c := New(srv.URL, 50*time.Millisecond, zap.NewNop())

	_, err := c.Brands(context.Background())
	assert.Error(t, err)

	// A failed call is not cached.
	c.http.Timeout = time.Second
	brands, err := c.Brands(context.Background())
	require.NoError(t, err)
	assert.Len(t, brands, 2)
}

func TestFetchDeliversResult(t *testing.T) {
	_, srv := newFakeAPI(t, 0)
	c := New(srv.URL, time.Second, zap.NewNop())

	got := make(chan []Brand, 1)
	Fetch(context.Background(), c.Brands, func(b []Brand, err error) {
		assert.NoError(t, err)
		got <- b
	})
	select {
	case b := <-got:
		assert.Len(t, b, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not complete")
	}
}

func TestCancelledContext(t *testing.T) {
	_, srv := newFakeAPI(t, 0)
	c := New(srv.URL, time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Years(ctx, "59", "4828")
	assert.Error(t, err)
}
