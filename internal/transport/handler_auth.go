package transport

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/kamau/expensa/internal/client"
	"github.com/kamau/expensa/internal/observability"
	"github.com/kamau/expensa/model"
)

type loginRequest struct {
	OrganizationName string `json:"organizationName"`
	MemberName       string `json:"memberName"`
	Password         string `json:"password"`
}

type loginResponse struct {
	Token          string `json:"token"`
	FullName       string `json:"fullName"`
	Role           string `json:"role"`
	DashboardRoute string `json:"dashboardRoute"`
}

func handleLogin(auth client.AuthAPI, sessions *Sessions, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("Malformed request body"))
			return
		}
		if req.OrganizationName == "" || req.MemberName == "" || req.Password == "" {
			WriteError(w, model.NewBadRequestError("Organization, member name, and password are required"))
			return
		}

		result, err := auth.Login(r.Context(), req.OrganizationName, req.MemberName, req.Password)
		if err != nil {
			WriteError(w, err)
			return
		}

		sess := &model.Session{
			MemberID:       result.MemberID,
			FullName:       result.FullName,
			OrganizationID: result.OrganizationID,
			Role:           result.Role,
		}
		token, err := sessions.Mint(sess)
		if err != nil {
			observability.LoggerFrom(r.Context(), logger).Error("minting session token", zap.Error(err))
			WriteError(w, model.NewInternalError())
			return
		}

		WriteJSON(w, http.StatusOK, loginResponse{
			Token:          token,
			FullName:       result.FullName,
			Role:           result.Role,
			DashboardRoute: sess.DashboardRoute(),
		})
	}
}

type sessionResponse struct {
	MemberID       string `json:"memberId"`
	FullName       string `json:"fullName"`
	OrganizationID string `json:"organizationId"`
	Role           string `json:"role"`
	DashboardRoute string `json:"dashboardRoute"`
}

func handleGetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := model.SessionFrom(r.Context())
		if sess == nil {
			WriteError(w, model.NewUnauthorizedError("Missing session"))
			return
		}
		WriteJSON(w, http.StatusOK, sessionResponse{
			MemberID:       sess.MemberID,
			FullName:       sess.FullName,
			OrganizationID: sess.OrganizationID,
			Role:           sess.Role,
			DashboardRoute: sess.DashboardRoute(),
		})
	}
}
