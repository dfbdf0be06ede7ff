package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/headpin-io/headpin-app/gpio"
	"github.com/headpin-io/headpin-app/journal"
	"github.com/julienschmidt/httprouter"
)

func (s *Server) pins(res http.ResponseWriter, req *http.Request) {
	var (
		pins []gpio.Pin
		err  error
	)

	switch kind := req.URL.Query().Get("kind"); kind {
	case "":
		pins, err = s.Device.Pins()
	case "gpio":
		pins, err = s.Device.GPIOPins()
	default:
		respond(res, fmt.Errorf("unknown kind filter %q", kind), http.StatusBadRequest)
		return
	}
	if err != nil {
		respondErr(res, err)
		return
	}

	respond(res, pins, http.StatusOK)
}

func (s *Server) getPin(res http.ResponseWriter, req *http.Request) {
	params := httprouter.ParamsFromContext(req.Context())

	pin, err := s.Device.FindPin(params.ByName("pin"))
	if err != nil {
		respondErr(res, err)
		return
	}

	respond(res, pin, http.StatusOK)
}

func (s *Server) getPinLevel(res http.ResponseWriter, req *http.Request) {
	params := httprouter.ParamsFromContext(req.Context())

	pin, err := s.Device.FindPin(params.ByName("pin"))
	if err != nil {
		respondErr(res, err)
		return
	}

	level, err := s.Device.Level(pin.ID)
	if err != nil {
		respondErr(res, err)
		return
	}

	respond(res, level, http.StatusOK)
}

func (s *Server) putPinDirection(res http.ResponseWriter, req *http.Request) {
	params := httprouter.ParamsFromContext(req.Context())

	var body struct {
		Direction gpio.Direction `json:"direction"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respond(res, err, http.StatusUnprocessableEntity)
		return
	}

	pin, err := s.Device.FindPin(params.ByName("pin"))
	if err != nil {
		respondErr(res, err)
		return
	}

	if err := s.Device.SetDirection(pin.ID, body.Direction); err != nil {
		respondErr(res, err)
		return
	}

	s.recordEvent(journal.Event{Pin: pin.Name, Op: journal.OpDirection, Value: string(body.Direction)})

	respond(res, nil, http.StatusNoContent)
}

func (s *Server) putPinLevel(res http.ResponseWriter, req *http.Request) {
	params := httprouter.ParamsFromContext(req.Context())

	var body struct {
		Level gpio.Level `json:"level"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respond(res, err, http.StatusUnprocessableEntity)
		return
	}

	pin, err := s.Device.FindPin(params.ByName("pin"))
	if err != nil {
		respondErr(res, err)
		return
	}

	if err := s.Device.SetLevel(pin.ID, body.Level); err != nil {
		respondErr(res, err)
		return
	}

	s.recordEvent(journal.Event{Pin: pin.Name, Op: journal.OpLevel, Value: body.Level.String()})

	respond(res, nil, http.StatusNoContent)
}

func (s *Server) getDefaultPreset(res http.ResponseWriter, req *http.Request) {
	name, err := s.Store.DefaultPreset()
	if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, name, http.StatusOK)
}

func (s *Server) putDefaultPreset(res http.ResponseWriter, req *http.Request) {
	var name string
	if err := json.NewDecoder(req.Body).Decode(&name); err != nil {
		respond(res, err, http.StatusUnprocessableEntity)
		return
	}

	if err := s.Store.PutDefaultPreset(name); err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, nil, http.StatusNoContent)
}

func (s *Server) presets(res http.ResponseWriter, req *http.Request) {
	names, err := s.Store.ListPresets()
	if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, names, http.StatusOK)
}

func (s *Server) getPreset(res http.ResponseWriter, req *http.Request) {
	params := httprouter.ParamsFromContext(req.Context())

	preset, err := s.Store.Preset(params.ByName("name"))
	if err != nil {
		respondErr(res, err)
		return
	}

	respond(res, preset, http.StatusOK)
}

func (s *Server) putPreset(res http.ResponseWriter, req *http.Request) {
	params := httprouter.ParamsFromContext(req.Context())

	var preset gpio.Preset
	if err := json.NewDecoder(req.Body).Decode(&preset); err != nil {
		respond(res, err, http.StatusUnprocessableEntity)
		return
	}

	if err := s.Store.PutPreset(params.ByName("name"), preset); err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, nil, http.StatusNoContent)
}

func (s *Server) deletePreset(res http.ResponseWriter, req *http.Request) {
	params := httprouter.ParamsFromContext(req.Context())

	if err := s.Store.DeletePreset(params.ByName("name")); err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, nil, http.StatusNoContent)
}

func (s *Server) applyPreset(res http.ResponseWriter, req *http.Request) {
	name := req.URL.Query().Get("name")
	if name == "" {
		var err error
		name, err = s.Store.DefaultPreset()
		if err != nil {
			respond(res, err, http.StatusInternalServerError)
			return
		}
		if name == "" {
			respond(res, errors.New("no preset name given and no default configured"), http.StatusBadRequest)
			return
		}
	}

	preset, err := s.Store.Preset(name)
	if err != nil {
		respondErr(res, err)
		return
	}

	if err := s.Device.Apply(preset); err != nil {
		respondErr(res, err)
		return
	}

	respond(res, nil, http.StatusOK)
}

func (s *Server) snapshotPreset(res http.ResponseWriter, req *http.Request) {
	name := req.URL.Query().Get("name")
	if name == "" {
		respond(res, errors.New("missing preset name"), http.StatusBadRequest)
		return
	}

	preset, err := s.Device.Snapshot()
	if err != nil {
		respondErr(res, err)
		return
	}

	if err := s.Store.PutPreset(name, preset); err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, nil, http.StatusOK)
}

func (s *Server) reinitialize(res http.ResponseWriter, req *http.Request) {
	s.deviceManager.Reinit()

	respond(res, nil, http.StatusOK)
}

func (s *Server) events(res http.ResponseWriter, req *http.Request) {
	limit := 50
	if raw := req.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respond(res, fmt.Errorf("invalid limit %q", raw), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := s.Journal.Recent(limit)
	if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, events, http.StatusOK)
}

// recordEvent journals the event, logging instead of failing the request
// when the journal is down.
func (s *Server) recordEvent(e journal.Event) {
	if err := s.Journal.Record(e); err != nil {
		s.Logger.WithError(err).Warn("unable to journal event")
	}
}
