// Package handlers provides HTTP request handlers for the medivoice API
// endpoints: vitals extraction, diagnosis generation and confirmation,
// prescription suggestions, catalog lookup/reload and health checks, with
// input validation and consistent JSON responses.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/medivoice/medivoice-api/diagnosis"
	"github.com/medivoice/medivoice-api/extraction"
	"github.com/medivoice/medivoice-api/interfaces"
	"github.com/medivoice/medivoice-api/logging"
	"github.com/medivoice/medivoice-api/prescription"
	"github.com/medivoice/medivoice-api/scheduler"
	"github.com/medivoice/medivoice-api/validation"
	"github.com/medivoice/medivoice-api/vitals"
)

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// ExtractVitalsRequest is the transcript payload for vitals extraction
type ExtractVitalsRequest struct {
	Transcription string `json:"transcription"`
}

// ExtractVitalsResponse echoes the transcript with the extracted vitals
type ExtractVitalsResponse struct {
	Transcription string                  `json:"transcription"`
	Vitals        extraction.VitalsRecord `json:"vitals"`
}

// ExtractVitals extracts vital signs from a transcript. The operation never
// fails past input validation: the worst case is an all-null vitals record.
func ExtractVitals(svc *vitals.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExtractVitalsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		transcript := strings.TrimSpace(req.Transcription)
		if transcript == "" {
			RespondWithError(w, http.StatusBadRequest, "transcription is required")
			return
		}

		record := svc.ExtractVitals(r.Context(), transcript)

		RespondWithJSON(w, http.StatusOK, ExtractVitalsResponse{
			Transcription: transcript,
			Vitals:        record,
		})
	}
}

// DiagnosisRequest carries symptoms, raw vitals and optional history
type DiagnosisRequest struct {
	Symptoms string         `json:"symptoms"`
	Vitals   map[string]any `json:"vitals"`
	History  string         `json:"history,omitempty"`
}

// DiagnosisResponse is the differential diagnosis list
type DiagnosisResponse struct {
	Diagnoses []diagnosis.Candidate `json:"diagnoses"`
}

// Diagnose produces a differential diagnosis. Unlike vitals extraction this
// surfaces an explicit failure when the model yields nothing usable.
func Diagnose(svc *diagnosis.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DiagnosisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		symptoms := strings.TrimSpace(req.Symptoms)
		if symptoms == "" {
			RespondWithError(w, http.StatusBadRequest, "symptoms is required")
			return
		}

		// Caller-provided vitals may use any accepted key spelling.
		record := extraction.NormalizeVitals(req.Vitals)

		candidates, err := svc.GetDiagnoses(r.Context(), symptoms, record, strings.TrimSpace(req.History))
		if err != nil {
			if errors.Is(err, diagnosis.ErrUnavailable) {
				RespondWithError(w, http.StatusBadGateway, "Diagnosis unavailable")
				return
			}
			RespondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		RespondWithJSON(w, http.StatusOK, DiagnosisResponse{Diagnoses: candidates})
	}
}

// ConfirmDiagnosisRequest carries the prior differential and new lab results
type ConfirmDiagnosisRequest struct {
	InitialDiagnosis []diagnosis.Candidate `json:"initial_diagnosis"`
	Symptoms         string                `json:"symptoms"`
	LabResults       map[string]string     `json:"lab_results"`
}

// ConfirmDiagnosisResponse is the refined differential with the analysis
type ConfirmDiagnosisResponse struct {
	FinalDiagnosis []diagnosis.Candidate `json:"final_diagnosis"`
	Analysis       string                `json:"analysis"`
}

// ConfirmDiagnosis re-evaluates a differential against lab results
func ConfirmDiagnosis(svc *diagnosis.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConfirmDiagnosisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		symptoms := strings.TrimSpace(req.Symptoms)
		if symptoms == "" {
			RespondWithError(w, http.StatusBadRequest, "symptoms is required")
			return
		}

		final, analysis, err := svc.ConfirmDiagnosis(r.Context(), req.InitialDiagnosis, symptoms, req.LabResults)
		if err != nil {
			if errors.Is(err, diagnosis.ErrUnavailable) {
				RespondWithError(w, http.StatusBadGateway, "Diagnosis unavailable")
				return
			}
			RespondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if final == nil {
			final = []diagnosis.Candidate{}
		}

		RespondWithJSON(w, http.StatusOK, ConfirmDiagnosisResponse{
			FinalDiagnosis: final,
			Analysis:       analysis,
		})
	}
}

// SuggestPrescriptions matches a diagnosis against the catalog. A catalog
// that has never loaded is a 503; an empty match is a successful not_found.
func SuggestPrescriptions(store interfaces.CatalogStore) http.HandlerFunc {
	validator := validation.NewDataValidator()

	return func(w http.ResponseWriter, r *http.Request) {
		drugs := store.GetDrugs()
		if len(drugs) == 0 {
			RespondWithError(w, http.StatusServiceUnavailable, "Drug catalog unavailable")
			return
		}

		diagnosisInput := chi.URLParam(r, "diagnosis")
		if err := validator.ValidateInput(diagnosisInput); err != nil {
			logging.Warn("Unusual user input", "diagnosis", diagnosisInput, "error", err)
			RespondWithError(w, http.StatusBadRequest, "Invalid diagnosis input")
			return
		}

		RespondWithJSON(w, http.StatusOK, prescription.Suggest(diagnosisInput, drugs))
	}
}

// FindDrugByID looks up one catalog entry by its ID
func FindDrugByID(store interfaces.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			RespondWithError(w, http.StatusBadRequest, "Missing drug ID")
			return
		}

		drug, exists := store.GetDrugsMap()[id]
		if !exists {
			RespondWithError(w, http.StatusNotFound, "Drug not found")
			return
		}

		RespondWithJSON(w, http.StatusOK, drug)
	}
}

// ReloadCatalog triggers an on-demand full catalog reload
func ReloadCatalog(sched interfaces.Scheduler, store interfaces.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sched.Reload(); err != nil {
			if errors.Is(err, scheduler.ErrReloadInProgress) {
				RespondWithError(w, http.StatusConflict, "Catalog reload already in progress")
				return
			}
			logging.Error("On-demand catalog reload failed", "error", err)
			RespondWithError(w, http.StatusServiceUnavailable, "Catalog reload failed")
			return
		}

		RespondWithJSON(w, http.StatusOK, map[string]any{
			"status":     "reloaded",
			"drug_count": len(store.GetDrugs()),
		})
	}
}

// HealthCheck returns server health information
func HealthCheck(checker interfaces.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, data, httpStatus := checker.HealthCheck()

		response := map[string]any{"status": status}
		for k, v := range data {
			response[k] = v
		}

		RespondWithJSON(w, httpStatus, response)
	}
}
