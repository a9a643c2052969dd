package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"worktracker/pkg/claims"
	"worktracker/pkg/project"
)

type ProjectForm struct {
	Name       string          `json:"name"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
}

type ProjectHandler struct {
	Service project.ServiceProject
	Logger  *slog.Logger
}

func NewProjectHandler(service project.ServiceProject, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		Service: service,
		Logger:  logger,
	}
}

func (h *ProjectHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req ProjectForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	var c claims.Claims
	if ok := getClaimsFromContext(w, r, &c); !ok {
		return
	}

	p, err := h.Service.Add(r.Context(), c.User.ID, req.Name, req.HourlyRate)
	if errors.Is(err, project.ErrInvalidProject) {
		writeError(w, http.StatusBadRequest, typeMessage, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("add project", "user", c.User.ID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if ok := writeJSON(w, h.Logger, p); ok {
		h.Logger.Info("new project created", "user", c.User.ID, "project", p.ID)
	}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	var c claims.Claims
	if ok := getClaimsFromContext(w, r, &c); !ok {
		return
	}

	projects, err := h.Service.List(r.Context(), c.User.ID)
	if err != nil {
		h.Logger.Error("list projects", "user", c.User.ID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal error")
		return
	}
	if projects == nil {
		projects = []*project.Project{}
	}

	writeJSON(w, h.Logger, projects)
}
