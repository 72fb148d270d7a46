package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockMentorService struct {
	createFunc  func(ctx context.Context, input *model.MentorInput) (*model.Mentor, error)
	getByIDFunc func(ctx context.Context, id int64) (*model.Mentor, error)
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockMentorService) Create(ctx context.Context, input *model.MentorInput) (*model.Mentor, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, input)
	}
	return &model.Mentor{ID: 1, Name: input.Name}, nil
}

func (m *mockMentorService) GetByID(ctx context.Context, id int64) (*model.Mentor, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Mentor{ID: id}, nil
}

func (m *mockMentorService) GetAll(ctx context.Context) ([]*model.Mentor, error) {
	return []*model.Mentor{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}, nil
}

func (m *mockMentorService) Update(ctx context.Context, id int64, input *model.MentorInput) (*model.Mentor, error) {
	return &model.Mentor{ID: id, Name: input.Name}, nil
}

func (m *mockMentorService) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockMentorService) Exists(ctx context.Context, id int64) (bool, error) {
	return true, nil
}

func newRouter(svc *mockMentorService) *httprouter.Router {
	router := httprouter.New()
	NewMentorHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestCreate_AcceptsEnvelope(t *testing.T) {
	var got string
	router := newRouter(&mockMentorService{
		createFunc: func(_ context.Context, input *model.MentorInput) (*model.Mentor, error) {
			got = input.Name
			return &model.Mentor{ID: 9, Name: input.Name}, nil
		},
	})

	for _, body := range []string{`{"name":"Dana"}`, `{"mentor":{"name":"Dana"}}`} {
		req := httptest.NewRequest(http.MethodPost, "/mentors", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("body %s: expected 201, got %d", body, w.Code)
		}
		if got != "Dana" {
			t.Errorf("body %s: expected name Dana, got %q", body, got)
		}
	}
}

func TestGetAll_ServedAtBothPrefixes(t *testing.T) {
	router := newRouter(&mockMentorService{})

	for _, path := range []string{"/mentors", "/api/v1/mentors"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
		var mentors []model.Mentor
		if err := json.Unmarshal(w.Body.Bytes(), &mentors); err != nil {
			t.Fatalf("%s: expected a bare JSON array: %v", path, err)
		}
		if len(mentors) != 2 {
			t.Errorf("%s: expected 2 mentors, got %d", path, len(mentors))
		}
	}
}

func TestGetByID(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"found", "/mentors/3", nil, http.StatusOK},
		{"not found", "/mentors/3", apperrors.NotFoundWithID("Mentor", int64(3)), http.StatusNotFound},
		{"non numeric id", "/mentors/abc", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&mockMentorService{
				getByIDFunc: func(_ context.Context, id int64) (*model.Mentor, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &model.Mentor{ID: id, Name: "Alice"}, nil
				},
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"has bookings", apperrors.Conflict("Mentor has bookings and cannot be deleted"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&mockMentorService{
				deleteFunc: func(context.Context, int64) error { return tt.err },
			})

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/mentors/5", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}
