package handlers

import (
	"net/http"
	"strconv"

	"github.com/openbracket/tournament-engine/middleware"
	"github.com/openbracket/tournament-engine/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bracketService services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bracketService}
}

// Generate godoc
// @Summary Generate (or regenerate) the bracket of a tournament
// @Tags brackets
// @Produce json
// @Security BearerAuth
// @Param tournamentID path int true "Tournament ID"
// @Param regenerate query bool false "Discard the existing bracket and rebuild it"
// @Success 201 {object} services.BracketView
// @Router /tournaments/{tournamentID}/bracket [post]
func (h *BracketHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	regenerate, _ := strconv.ParseBool(r.URL.Query().Get("regenerate"))

	view, err := h.bracketService.GenerateAndSaveBracket(r.Context(), userID, tournamentID, regenerate)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get godoc
// @Summary Get the bracket of a tournament
// @Tags brackets
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} services.BracketView
// @Router /tournaments/{tournamentID}/bracket [get]
func (h *BracketHandler) Get(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.GetBracket(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Standings godoc
// @Summary Get the current standings of a tournament
// @Tags brackets
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {array} models.Standing
// @Router /tournaments/{tournamentID}/standings [get]
func (h *BracketHandler) Standings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.bracketService.GetStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
