package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demandcast/analytics"
	"demandcast/handlers"
	"demandcast/models"
	"demandcast/pipeline"
	"demandcast/routes"
	"demandcast/store"
)

type fakeSales struct {
	sales []models.Sale
	err   error
}

func (f *fakeSales) GetAll(ctx context.Context) ([]models.Sale, error) {
	return f.sales, f.err
}

func (f *fakeSales) GetAllByRange(ctx context.Context, start, end time.Time) ([]models.Sale, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Sale
	for _, s := range f.sales {
		if !s.SaleDate.Before(start) && !s.SaleDate.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestApp(t *testing.T, src *fakeSales) *fiber.App {
	t.Helper()
	st, err := store.OpenBadgerInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	p := pipeline.NewService(src, st, pipeline.DefaultConfig(), zerolog.Nop())
	a := analytics.NewService(src, zerolog.Nop(), nil)

	app := fiber.New()
	routes.Setup(app, handlers.New(p, a, zerolog.Nop()))
	return app
}

func doGet(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, &fakeSales{})
	resp, body := doGet(t, app, "/health")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestBuildWithNoSales(t *testing.T) {
	app := newTestApp(t, &fakeSales{})
	resp, body := doGet(t, app, "/api/v1/model/build")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var result pipeline.BuildResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Empty(t, result.Metrics)
}

func TestPredictWithNoArtifacts(t *testing.T) {
	app := newTestApp(t, &fakeSales{})
	resp, body := doGet(t, app, "/api/v1/model/predict")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []pipeline.ProductForecast
	require.NoError(t, json.Unmarshal(body, &rows))
	assert.Empty(t, rows)
}

func TestDashboard(t *testing.T) {
	app := newTestApp(t, &fakeSales{sales: []models.Sale{{
		InvoiceNumber: "INV-1",
		ProductCode:   "WIDGET",
		Quantity:      1,
		SaleDate:      time.Now().UTC().AddDate(0, 0, -10),
		Total:         99.5,
	}}})
	resp, body := doGet(t, app, "/api/v1/sales/dashboard")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var dash analytics.Dashboard
	require.NoError(t, json.Unmarshal(body, &dash))
	assert.NotEmpty(t, dash.Sales)
}

func TestBuildSourceFailureReturns500(t *testing.T) {
	app := newTestApp(t, &fakeSales{err: assert.AnError})
	resp, body := doGet(t, app, "/api/v1/model/build")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), `"success":false`)
}
