package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightnest/cleaning-booking-backend/internal/lead"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/request"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := request.RegisterValidators(); err != nil {
		panic(err)
	}
}

type fakeService struct {
	lead.Service
	created []lead.CreateRequest
	filter  lead.Filter
}

func (f *fakeService) Create(_ context.Context, req lead.CreateRequest) (*lead.Lead, error) {
	f.created = append(f.created, req)
	return &lead.Lead{ID: "9f0e1d2c-3b4a-4c5d-8e6f-7a8b9c0d1e2f", Name: req.Name, Status: lead.StatusNew}, nil
}

func (f *fakeService) List(_ context.Context, filter lead.Filter) ([]*lead.Lead, int, error) {
	f.filter = filter
	return nil, 0, nil
}

func newRouter(svc lead.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pass := func(c *gin.Context) { c.Next() }
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), pass, pass)
	return r
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "valid", body: `{"name":"Sam","email":"sam@example.com","message":"Quote please"}`, code: http.StatusCreated},
		{name: "with service", body: `{"name":"Sam","email":"sam@example.com","service_id":"0b7c6f1e-2f4a-4d8e-9a51-7f3f2c0d9e10"}`, code: http.StatusCreated},
		{name: "bad email", body: `{"name":"Sam","email":"nope"}`, code: http.StatusBadRequest},
		{name: "missing name", body: `{"email":"sam@example.com"}`, code: http.StatusBadRequest},
		{name: "line break in name", body: `{"name":"Eve\r\nBcc: victim@evil.test","email":"eve@example.com"}`, code: http.StatusBadRequest},
		{name: "bad service id", body: `{"name":"Sam","email":"sam@example.com","service_id":"x"}`, code: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/leads", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			newRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusCreated {
				require.Len(t, svc.created, 1)
				assert.Contains(t, w.Body.String(), `"status":"new"`)
			} else {
				assert.Empty(t, svc.created)
			}
		})
	}
}

func TestHandler_List(t *testing.T) {
	svc := &fakeService{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/leads?status=new&q=+move-out+&sort_by=name&sort_order=asc", nil)
	newRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"page":1,"page_size":20,"total":0,"total_pages":0}`, w.Body.String())
	assert.Equal(t, lead.Filter{Status: "new", Keyword: "move-out", Page: 1, PageSize: 20, SortBy: "name", SortOrder: "ASC"}, svc.filter)
}

func TestHandler_ListRejectsUnknownStatus(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/leads?status=lost", nil)
	newRouter(&fakeService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
