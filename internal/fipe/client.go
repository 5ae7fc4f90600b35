// Package fipe is a small client for the public FIPE vehicle price API.
package fipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultBaseURL = "https://parallelum.com.br/fipe/api/v1"

// Code is a FIPE identifier. The API sends brand codes as strings and
// model codes as numbers; both decode to the same text form.
type Code string

func (c *Code) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("fipe code %s: %w", b, err)
	}
	*c = Code(n.String())
	return nil
}

func (c Code) String() string { return string(c) }

// Item is a named entry of a brand, model or year listing.
type Item struct {
	Name string `json:"nome"`
	Code Code   `json:"codigo"`
}

type Brand = Item
type Model = Item
type Year = Item

// Details is the priced vehicle returned for a brand, model and year.
type Details struct {
	VehicleType   int    `json:"TipoVeiculo"`
	Value         string `json:"Valor"`
	Brand         string `json:"Marca"`
	Model         string `json:"Modelo"`
	ModelYear     int    `json:"AnoModelo"`
	Fuel          string `json:"Combustivel"`
	FipeCode      string `json:"CodigoFipe"`
	ReferenceDate string `json:"MesReferencia"`
	FuelAbbrev    string `json:"SiglaCombustivel"`
}

// Client queries the cars section of the API. Brands and per-brand model
// lists are cached for the life of the client.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	mu     sync.Mutex
	brands []Brand
	models map[Code][]Model

	group singleflight.Group
}

// New returns a client for baseURL. Every request is bounded by timeout.
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.L()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.Named("fipe"),
		models:  make(map[Code][]Model),
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fipe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fipe returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// shared runs fn once per key for all concurrent callers. fn gets a context
// detached from any single caller, so one caller giving up does not fail the
// others; the http client timeout still bounds it. Each caller stops waiting
// when its own ctx is done.
func (c *Client) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) { return fn(detached) })
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Brands lists car brands.
func (c *Client) Brands(ctx context.Context) ([]Brand, error) {
	c.mu.Lock()
	cached := c.brands
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	v, err := c.shared(ctx, "brands", func(ctx context.Context) (any, error) {
		var brands []Brand
		if err := c.get(ctx, "/carros/marcas", &brands); err != nil {
			return nil, err
		}
		if brands == nil {
			brands = []Brand{}
		}
		c.mu.Lock()
		c.brands = brands
		c.mu.Unlock()
		c.log.Debug("brands loaded", zap.Int("count", len(brands)))
		return brands, nil
	})
	if err != nil {
		c.log.Error("failed to load brands", zap.Error(err))
		return nil, err
	}
	return v.([]Brand), nil
}

// Models lists the models of a brand.
func (c *Client) Models(ctx context.Context, brand Code) ([]Model, error) {
	c.mu.Lock()
	cached, ok := c.models[brand]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	v, err := c.shared(ctx, "models/"+string(brand), func(ctx context.Context) (any, error) {
		var resp struct {
			Models []Model `json:"modelos"`
		}
		if err := c.get(ctx, "/carros/marcas/"+string(brand)+"/modelos", &resp); err != nil {
			return nil, err
		}
		models := resp.Models
		if models == nil {
			models = []Model{}
		}
		c.mu.Lock()
		c.models[brand] = models
		c.mu.Unlock()
		c.log.Debug("models loaded", zap.String("brand", string(brand)), zap.Int("count", len(models)))
		return models, nil
	})
	if err != nil {
		c.log.Error("failed to load models", zap.String("brand", string(brand)), zap.Error(err))
		return nil, err
	}
	return v.([]Model), nil
}

// Years lists the model years available for a model. Not cached.
func (c *Client) Years(ctx context.Context, brand, model Code) ([]Year, error) {
	var years []Year
	path := fmt.Sprintf("/carros/marcas/%s/modelos/%s/anos", brand, model)
	if err := c.get(ctx, path, &years); err != nil {
		c.log.Error("failed to load years", zap.String("model", string(model)), zap.Error(err))
		return nil, err
	}
	return years, nil
}

// Details returns the priced vehicle for a model year such as "2014-1".
func (c *Client) Details(ctx context.Context, brand, model, year Code) (Details, error) {
	var d Details
	path := fmt.Sprintf("/carros/marcas/%s/modelos/%s/anos/%s", brand, model, year)
	if err := c.get(ctx, path, &d); err != nil {
		c.log.Error("failed to load vehicle details", zap.String("model", string(model)),
			zap.String("year", string(year)), zap.Error(err))
		return d, err
	}
	return d, nil
}

func findByName(items []Item, name string) (Item, bool) {
	for _, it := range items {
		if strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return Item{}, false
}

// FindBrand looks a brand up by name, ignoring case.
func (c *Client) FindBrand(ctx context.Context, name string) (Brand, bool, error) {
	brands, err := c.Brands(ctx)
	if err != nil {
		return Brand{}, false, err
	}
	b, ok := findByName(brands, name)
	return b, ok, nil
}

// FindModel looks a model of brand up by name, ignoring case.
func (c *Client) FindModel(ctx context.Context, brand Code, name string) (Model, bool, error) {
	models, err := c.Models(ctx, brand)
	if err != nil {
		return Model{}, false, err
	}
	m, ok := findByName(models, name)
	return m, ok, nil
}

// Fetch runs fn on its own goroutine and hands the result to done, which
// is also called from that goroutine. UI callers wrap done with fyne.Do.
func Fetch[T any](ctx context.Context, fn func(context.Context) (T, error), done func(T, error)) {
	go func() {
		v, err := fn(ctx)
		done(v, err)
	}()
}
