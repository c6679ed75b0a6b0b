package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/salescrm/auth"
	"github.com/diewo77/salescrm/httpx"
	"github.com/diewo77/salescrm/internal/intake"
	"github.com/diewo77/salescrm/internal/models"
	"github.com/diewo77/salescrm/internal/policy"
	"github.com/diewo77/salescrm/internal/table"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db       *gorm.DB
	gate     *policy.AuthGate
	sessions *table.Sessions
	wizards  *intake.Manager
	logger   logrus.FieldLogger
}

func NewAuthHandler(db *gorm.DB, gate *policy.AuthGate, sessions *table.Sessions, wizards *intake.Manager, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{db: db, gate: gate, sessions: sessions, wizards: wizards, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := h.db.WithContext(r.Context()).Where("email = ?", email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		internalError(w, r, h.logger, "handlers", "AuthHandler.Login", "load_failed", err)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		h.logger.WithField("email", email).Warn("failed login")
		message(w, r, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	auth.CreateSession(w, user.ID)
	h.gate.InvalidateUser(user.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{"id": user.ID, "email": user.Email, "name": user.Name})
}

// Logout clears the cookie and forgets the user's grid state.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if uid := currentUser(r); uid != 0 {
		h.sessions.Drop(uid)
		h.wizards.Drop(uid)
	}
	auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the session user and what they may do.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := h.db.WithContext(r.Context()).Preload("Profile").First(&user, currentUser(r)).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":        user,
		"permissions": h.gate.Permissions(r.Context()),
	})
}

// UserExists is the session verifier: deleted users lose their session.
func UserExists(db *gorm.DB) auth.UserVerifier {
	return func(ctx context.Context, uid uint) bool {
		var n int64
		db.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Count(&n)
		return n > 0
	}
}
