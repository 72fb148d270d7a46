package handler

import (
	"net/http"
	"strings"

	"mentorbook/internal/bookings/service"
	httputil "mentorbook/pkg/http"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const envelope = "booking"

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, envelope, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.Create(r.Context(), req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, booking)
}

// GetAll lists bookings, optionally narrowed by student_email and mentor_id.
func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	mentorID, err := httputil.QueryInt64(r, "mentor_id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	filter := model.BookingFilter{
		MentorID:     mentorID,
		StudentEmail: strings.TrimSpace(r.URL.Query().Get("student_email")),
	}

	bookings, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, bookings)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseID(ps, "id")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	for _, prefix := range []string{"", "/api/v1"} {
		router.GET(prefix+"/bookings", h.GetAll)
		router.POST(prefix+"/bookings", h.Create)
		router.GET(prefix+"/bookings/:id", h.GetByID)
		router.DELETE(prefix+"/bookings/:id", h.Delete)
	}
}
