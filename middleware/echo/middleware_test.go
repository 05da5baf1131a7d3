package echomw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/reoring/lossy"
	echomw "github.com/reoring/lossy/middleware/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct {
	Count lossy.Value[int]    `json:"count"`
	Hosts lossy.Slice[string] `json:"hosts"`
}

func TestBindJSON(t *testing.T) {
	e := echo.New()
	e.POST("/ping", func(c echo.Context) error {
		d, ok := echomw.GetDecoded[ping](c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]any{"count": d.Value.Count.Get(), "hosts": d.Value.Hosts.Get(), "losses": len(d.Losses)})
	}, echomw.BindJSON[ping](lossy.DecodeOpt{}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(`{"count":2,"hosts":["a",null,"b"]}`))
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":2,"hosts":["a","b"],"losses":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(`{"count":"two"}`))
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"type_mismatch"`)
}
