package invites

import (
	"encoding/json"
	"net/http"

	"github.com/harborlane/clinic-calendar/pkg/logging"
)

// Handler exposes the invitation endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an invitation handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("invites: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Create sends an invitation for an appointment.
// POST /api/invitations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var inv Invitation
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	if inv.OrgID == "" || inv.PatientEmail == "" || inv.AppointmentDate == "" || inv.AppointmentTime == "" {
		http.Error(w, `{"error": "org_id, patient_email, appointment_date and appointment_time required"}`, http.StatusBadRequest)
		return
	}

	if err := h.service.Send(r.Context(), inv); err != nil {
		h.logger.Error("invitation failed",
			"org_id", inv.OrgID, "appointment_id", inv.AppointmentID, "error", err)
		http.Error(w, `{"error": "failed to send invitation"}`, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte(`{"status": "sent"}`))
}
