package admin

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-terminal-services/api/internal/public/domain"
)

type stubLifecycleService struct {
	err     error
	deleted []string
	updated *domain.Domain
}

func (s *stubLifecycleService) DeleteSurvey(_ context.Context, id string) error {
	s.deleted = append(s.deleted, "survey:"+id)
	return s.err
}

func (s *stubLifecycleService) DeleteDomain(_ context.Context, id string) error {
	s.deleted = append(s.deleted, "domain:"+id)
	return s.err
}

func (s *stubLifecycleService) DeleteClient(_ context.Context, id string) error {
	s.deleted = append(s.deleted, "client:"+id)
	return s.err
}

func (s *stubLifecycleService) SetActiveSurvey(context.Context, string, string) (*domain.Domain, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.updated, nil
}

func newAdminRouter(service *stubLifecycleService) *chi.Mux {
	handler := NewHandler(Config{
		Logger:    log.New(io.Discard, "", 0),
		Lifecycle: service,
	})
	router := chi.NewRouter()
	router.Route("/admin", handler.Register)
	return router
}

func TestDeleteEndpoints(t *testing.T) {
	service := &stubLifecycleService{}
	router := newAdminRouter(service)

	for _, tc := range []struct {
		path string
		want string
	}{
		{"/admin/surveys/s1", "survey:s1"},
		{"/admin/domains/d1", "domain:d1"},
		{"/admin/clients/t1", "client:t1"},
	} {
		req := httptest.NewRequest(http.MethodDelete, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, service.deleted, tc.want)
	}
}

func TestDeleteEndpointsMapMissingEntityTo404(t *testing.T) {
	service := &stubLifecycleService{err: mongo.ErrNoDocuments}
	router := newAdminRouter(service)

	req := httptest.NewRequest(http.MethodDelete, "/admin/surveys/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActiveSurveyEndpoint(t *testing.T) {
	service := &stubLifecycleService{
		updated: &domain.Domain{ID: "d1", Name: "本館", ActiveSurvey: "s2"},
	}
	router := newAdminRouter(service)

	req := httptest.NewRequest(http.MethodPatch, "/admin/domains/d1/active-survey", strings.NewReader(`{"activeSurvey":"s2"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"activeSurvey":"s2"`)
}

func TestActiveSurveyEndpointRejectsBadBody(t *testing.T) {
	service := &stubLifecycleService{}
	router := newAdminRouter(service)

	req := httptest.NewRequest(http.MethodPatch, "/admin/domains/d1/active-survey", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
