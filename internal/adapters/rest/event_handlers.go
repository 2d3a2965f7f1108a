package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"socialevents/internal/domain/entities"
)

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var draft entities.EventDraft
	if err := decodeBody(r, &draft); err != nil {
		s.writeError(w, r, err)
		return
	}
	ack, err := s.events.CreateEvent(r.Context(), draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	events, err := s.events.ListUpcomingEvents(r.Context(), q.Get("type"), q.Get("search"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeEvents(w, events)
}

// getEvent answers an unknown id with a JSON null.
func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	id, err := entities.ParseEventID(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	event, err := s.events.GetEventByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := entities.ParseEventID(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var patch entities.EventPatchInput
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	ack, err := s.events.UpdateEvent(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) myEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.GetEventsByCreatorEmail(r.Context(), mux.Vars(r)["userEmail"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeEvents(w, events)
}

func writeEvents(w http.ResponseWriter, events []entities.Event) {
	if events == nil {
		events = []entities.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
