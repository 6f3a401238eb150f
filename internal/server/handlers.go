package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// checkoutRequest is the body of POST /api/create-checkout-session.
type checkoutRequest struct {
	UID   string `json:"uid" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

// markUsedRequest is the body of POST /api/mark-used.
type markUsedRequest struct {
	UID string `json:"uid" validate:"required"`
}

// handleCreateCheckoutSession starts a checkout for the given token and
// returns the hosted payment page URL.
func (s *Server) handleCreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "uid requerido")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "uid requerido")
		return
	}

	session, err := s.gate.BeginCheckout(r.Context(), req.UID, req.Email)
	if err != nil {
		log.Printf("create-checkout-session: %v", err)
		s.errorResponse(w, HTTPStatus(err), "No se pudo crear la sesión de pago")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"url":       session.URL,
		"sessionId": session.ID,
	})
}

// handleVerifyPayment checks a checkout session with the payment provider
// and unlocks the token when it is paid.
func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	uid := r.URL.Query().Get("uid")
	if sessionID == "" || uid == "" {
		s.errorResponse(w, http.StatusBadRequest, "session_id y uid requeridos")
		return
	}

	paid, err := s.gate.Verify(r.Context(), sessionID, uid)
	if err != nil {
		log.Printf("verify-payment: %v", err)
		s.errorResponse(w, HTTPStatus(err), "No se pudo verificar el pago")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]bool{"paid": paid})
}

// handleStatus returns the payment state for a token. Unknown tokens read as
// unpaid rather than failing.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		s.errorResponse(w, http.StatusBadRequest, "uid requerido")
		return
	}

	record, err := s.gate.Query(r.Context(), uid)
	if err != nil {
		log.Printf("status: %v", err)
		s.errorResponse(w, HTTPStatus(err), "No se pudo consultar el estado")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]bool{
		"paid":      record.Paid,
		"used":      record.Used,
		"canRecord": record.CanRecord,
	})
}

// handleMarkUsed consumes the token's recording entitlement.
func (s *Server) handleMarkUsed(w http.ResponseWriter, r *http.Request) {
	var req markUsedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "uid requerido")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "uid requerido")
		return
	}

	if err := s.gate.Consume(r.Context(), req.UID); err != nil {
		log.Printf("mark-used: %v", err)
		s.errorResponse(w, HTTPStatus(err), "No se pudo marcar como usado")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "Voice-CV API",
	})
}
