// Package gateway is a thin HTTP bridge between the outside transport and
// the vote service. It only parses requests and delegates; all rules live
// in the service.
package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkhalov/caucus/internal/common"
	"github.com/dkhalov/caucus/internal/game"
	"github.com/dkhalov/caucus/internal/logging"
	"github.com/dkhalov/caucus/internal/votes"
)

// Gateway exposes the game core over HTTP.
type Gateway struct {
	service *votes.Service
	log     logging.Logger
}

// New constructs the gateway.
func New(service *votes.Service, log logging.Logger) *Gateway {
	return &Gateway{service: service, log: log}
}

// Handler returns the route table.
func (gw *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /games", gw.handleCreateGame)
	mux.HandleFunc("POST /games/{gameID}/join", gw.handleJoin)
	mux.HandleFunc("POST /games/{gameID}/votes", gw.handleOpenVote)
	mux.HandleFunc("POST /games/{gameID}/votes/{voteID}/ballots", gw.handleBallot)
	return mux
}

func (gw *Gateway) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	g, err := gw.service.CreateGame(r.Context())
	if err != nil {
		gw.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"gameId": g.ID()})
}

func (gw *Gateway) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"displayName"`
		SeatNum     int    `json:"seatNum"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.DisplayName == "" {
		http.Error(w, "displayName is required", http.StatusBadRequest)
		return
	}

	p, v, err := gw.service.RequestJoin(r.Context(), r.PathValue("gameID"), req.DisplayName, req.SeatNum)
	if err != nil {
		gw.fail(w, r, err)
		return
	}

	resp := map[string]any{"playerId": p.ID()}
	if v != nil {
		resp["voteId"] = v.ID()
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (gw *Gateway) handleOpenVote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type      string   `json:"type"`
		Target1   string   `json:"target1"`
		Target2   string   `json:"target2"`
		Data      string   `json:"data"`
		ToPass    int      `json:"toPass"`
		Requires  int      `json:"requires"`
		NonVoters []string `json:"nonVoters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	v, err := gw.service.OpenVote(r.Context(), r.PathValue("gameID"), votes.VoteParams{
		Type:      game.VoteType(req.Type),
		Target1:   req.Target1,
		Target2:   req.Target2,
		Data:      req.Data,
		ToPass:    req.ToPass,
		Requires:  req.Requires,
		NonVoters: req.NonVoters,
	})
	if err != nil {
		gw.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"voteId": v.ID()})
}

func (gw *Gateway) handleBallot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string `json:"userId"`
		Approve bool   `json:"approve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := gw.service.TallyVote(r.Context(), r.PathValue("gameID"), r.PathValue("voteID"), req.UserID, req.Approve)
	if err != nil {
		gw.fail(w, r, err)
		return
	}
	// invalid ballots are silently dropped; accepted either way
	w.WriteHeader(http.StatusAccepted)
}

func (gw *Gateway) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	gw.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
