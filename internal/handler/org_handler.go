package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"org-service/internal/middleware"
	"org-service/internal/model"
	"org-service/internal/service"
	"org-service/pkg/apierror"
)

type OrgHandler struct {
	service *service.OrgService
}

func NewOrgHandler(service *service.OrgService) *OrgHandler {
	return &OrgHandler{service: service}
}

func (h *OrgHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	var payload model.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	org, err := h.service.Create(r.Context(), payload.Name, payload.Description, principal)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, org)
}

func (h *OrgHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orgs)
}

func (h *OrgHandler) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.service.Get(r.Context(), chi.URLParam(r, "organization_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, org)
}

func (h *OrgHandler) Invite(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := h.service.Invite(r.Context(), chi.URLParam(r, "organization_id"), payload.UserEmail); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "User invited successfully"})
}
