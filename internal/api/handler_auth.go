package api

import (
	"encoding/json"
	"net/http"

	"boardhub/internal/domain"
)

// registerRequest is the body for POST /v1/auth/register.
type registerRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// loginRequest is the body for POST /v1/auth/login.
type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// tokenResponse is the body returned by a successful login.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// changePasswordRequest is the body for PUT /v1/users/me/password.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Register handles POST /v1/auth/register. Public.
func (h *APIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	user, err := h.users.Register(r.Context(), domain.RegisterUserRequest{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userToAPI(user))
}

// Login handles POST /v1/auth/login. Public. A successful password check
// mints a session token; every failure is a uniform 401 regardless of
// whether the name exists.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	user, err := h.users.AuthenticateByPassword(r.Context(), req.Name, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, expiresIn, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
	})
}

// meResponse is the body for GET /v1/users/me.
type meResponse struct {
	User           User    `json:"user"`
	CredentialKind string  `json:"credential_kind"`
	APIKeyID       *string `json:"api_key_id,omitempty"`
}

// Me handles GET /v1/users/me. Returns the authenticated principal and how
// it authenticated.
func (h *APIHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrAuth(domain.ReasonMissingCredential, "no principal"))
		return
	}
	resp := meResponse{
		User:           userToAPI(&p.User),
		CredentialKind: string(p.Kind),
	}
	if p.Key != nil {
		resp.APIKeyID = optStr(p.Key.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ChangePassword handles PUT /v1/users/me/password.
func (h *APIHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := domain.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, domain.ErrAuth(domain.ReasonMissingCredential, "no principal"))
		return
	}
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if err := h.users.ChangePassword(r.Context(), p.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
