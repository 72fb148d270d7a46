package handler

import (
	"net/http"

	"mentorbook/internal/mentors/service"
	httputil "mentorbook/pkg/http"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const envelope = "mentor"

type MentorHandler struct {
	service service.MentorService
	log     *logger.Logger
}

func NewMentorHandler(service service.MentorService, log *logger.Logger) *MentorHandler {
	return &MentorHandler{
		service: service,
		log:     log,
	}
}

func (h *MentorHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input model.MentorInput
	if err := httputil.DecodeJSON(r, envelope, &input); err != nil {
		httputil.WriteError(w, err)
		return
	}

	mentor, err := h.service.Create(r.Context(), &input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCreated(w, mentor)
}

func (h *MentorHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	mentor, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, mentor)
}

func (h *MentorHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mentors, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, mentors)
}

func (h *MentorHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var input model.MentorInput
	if err := httputil.DecodeJSON(r, envelope, &input); err != nil {
		httputil.WriteError(w, err)
		return
	}

	mentor, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, mentor)
}

func (h *MentorHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.log.Debug("mentor delete rejected", "id", id, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// RegisterRoutes mounts the mentor routes at the root and under /api/v1.
func (h *MentorHandler) RegisterRoutes(router *httprouter.Router) {
	for _, prefix := range []string{"", "/api/v1"} {
		router.GET(prefix+"/mentors", h.GetAll)
		router.POST(prefix+"/mentors", h.Create)
		router.GET(prefix+"/mentors/:id", h.GetByID)
		router.PATCH(prefix+"/mentors/:id", h.Update)
		router.PUT(prefix+"/mentors/:id", h.Update)
		router.DELETE(prefix+"/mentors/:id", h.Delete)
	}
}
