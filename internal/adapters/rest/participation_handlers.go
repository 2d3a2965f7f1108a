package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"socialevents/internal/domain/entities"
)

type joinRequest struct {
	UserEmail string `json:"userEmail"`
}

func (s *Server) joinEvent(w http.ResponseWriter, r *http.Request) {
	id, err := entities.ParseEventID(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req joinRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.participations.JoinEvent(r.Context(), id, req.UserEmail)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if res.AlreadyJoined {
		writeJSON(w, http.StatusOK, messageResponse{Message: s.t(r, "join.already_joined")})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: s.t(r, "join.success"), Result: res.Ack})
}

func (s *Server) joinedEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.participations.ListJoinedEvents(r.Context(), mux.Vars(r)["userEmail"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeEvents(w, events)
}
