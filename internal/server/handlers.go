package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/cocktail-advisor/internal/scoring"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

// QueryRequest is the body of relevance checks.
type QueryRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

// ScoreRequest is the body of scoring and recipe requests.
type ScoreRequest struct {
	Query       string            `json:"query" validate:"required,max=500"`
	Preferences types.Preferences `json:"preferences" validate:"dive,keys,required,endkeys,min=1,max=5"`
	Enrich      bool              `json:"enrich"`
}

// IngredientRequest names one ingredient.
type IngredientRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// IngredientsRequest names several ingredients.
type IngredientsRequest struct {
	Names []string `json:"names" validate:"required,min=1,max=100,dive,required,max=200"`
}

// CocktailRequest lists ingredient lines such as "4 cl rhum blanc".
type CocktailRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1,max=50,dive,required,max=200"`
}

// checkPreferences applies the CLI rules: known block names, ratings in 1..5.
func checkPreferences(prefs types.Preferences) error {
	for name, v := range prefs {
		if !scoring.IsBlock(name) {
			return &ErrValidation{Field: "preferences", Message: fmt.Sprintf("unknown taste block %q", name)}
		}
		if v < 1 || v > 5 {
			return &ErrValidation{Field: "preferences", Message: fmt.Sprintf("rating for %s must be between 1 and 5, got %d", name, v)}
		}
	}
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]any{
		"status":         "ok",
		"knowledge_base": s.adv.KB.Len(),
	})
}

func (s *Server) handleTasteBlocks(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, scoring.Blocks())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, s.adv.Stats(r.Context()))
}

func (s *Server) handleProfilerStats(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, s.adv.Profiler.Stats())
}

// handleRelevance answers 200 for both accepted and rejected queries.
func (s *Server) handleRelevance(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	res, err := s.adv.Guardrail.Check(r.Context(), req.Query)
	if err != nil {
		s.errorResponse(w, r, &ErrUnavailable{Cause: err})
		return
	}
	s.jsonResponse(w, r, http.StatusOK, res)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := checkPreferences(req.Preferences); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	query := req.Query
	if req.Enrich {
		query = scoring.EnrichShortQuery(query, req.Preferences)
	}
	res, err := s.adv.Scorer.Score(r.Context(), query, req.Preferences)
	if err != nil {
		s.errorResponse(w, r, &ErrUnavailable{Cause: err})
		return
	}
	s.jsonResponse(w, r, http.StatusOK, res)
}

// handleRecipe answers 422 with the refusal when the query is off-topic.
func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := checkPreferences(req.Preferences); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	res, err := s.adv.Recipes.Recipe(r.Context(), req.Query, req.Preferences)
	if err != nil {
		s.errorResponse(w, r, &ErrUnavailable{Cause: err})
		return
	}
	if res.Recipe == nil {
		s.jsonResponse(w, r, http.StatusUnprocessableEntity, res)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, res)
}

func (s *Server) handleIngredientProfile(w http.ResponseWriter, r *http.Request) {
	var req IngredientRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, s.adv.Profiler.Resolve(r.Context(), req.Name))
}

func (s *Server) handleIngredientProfiles(w http.ResponseWriter, r *http.Request) {
	var req IngredientsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	out, err := s.adv.Profiler.ProfileBatch(r.Context(), req.Names)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, out)
}

func (s *Server) handleCocktailProfile(w http.ResponseWriter, r *http.Request) {
	var req CocktailRequest
	if err := s.decode(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	out, err := s.adv.Profiler.CocktailProfile(r.Context(), req.Ingredients)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, out)
}
