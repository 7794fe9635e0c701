package catalog_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"slotwise/infras/otel/mocks"
	"slotwise/internal/domains/catalog/model/dto"
	serviceMocks "slotwise/internal/domains/catalog/service/mocks"
	"slotwise/internal/handlers/catalog"
	"slotwise/shared/failure"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T) (*serviceMocks.MockCatalog, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := serviceMocks.NewMockCatalog(ctrl)
	handler := catalog.New(svc, mocks.NewOtel())

	mux := chi.NewRouter()
	mux.Route("/v1/tenants/{tenant}", handler.Router)

	return svc, mux
}

func TestGetOfferings(t *testing.T) {
	svc, h := newServer(t)

	svc.EXPECT().ListOfferings(gomock.Any(), "T1").Return([]dto.OfferingResponse{{ID: "o1", Name: "Standard", BasePrice: "100.00"}}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tenants/T1/offerings", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[{"id":"o1","name":"Standard","base_duration_min":0,"base_price":"100.00"}]}`, rec.Body.String())
}

func TestGetServiceItems(t *testing.T) {
	svc, h := newServer(t)

	svc.EXPECT().ListServiceItems(gomock.Any(), "T1", "Standard").Return([]dto.ServiceItemResponse{{ID: "i1", Identifier: "extra_bedroom"}}, nil)
	svc.EXPECT().ListServiceItems(gomock.Any(), "T1", "Deluxe").Return(nil, failure.New(failure.KindUnknownOffering, "offering not found"))
	svc.EXPECT().ListServiceItems(gomock.Any(), "T2", "").Return(nil, errors.New("connection refused"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tenants/T1/service-items?offering=Standard", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"identifier":"extra_bedroom"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tenants/T1/service-items?offering=Deluxe", http.NoBody))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"unknown_offering"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/tenants/T2/service-items", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
