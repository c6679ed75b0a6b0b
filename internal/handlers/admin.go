package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/salescrm/gate"
	"github.com/diewo77/salescrm/httpx"
	"github.com/diewo77/salescrm/internal/models"
	"github.com/diewo77/salescrm/internal/policy"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminHandler manages profile permissions and user profile assignment.
// Every change drops the affected cached profiles.
type AdminHandler struct {
	DB     *gorm.DB
	Gate   *policy.AuthGate
	logger logrus.FieldLogger
}

func NewAdminHandler(db *gorm.DB, gate *policy.AuthGate, logger logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{DB: db, Gate: gate, logger: logger}
}

// Users lists every user with their profile, and the profiles available.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.WithContext(r.Context()).Preload("Profile").Order("email").Find(&users).Error; err != nil {
		internalError(w, r, h.logger, "handlers", "AdminHandler.Users", "load_failed", err)
		return
	}
	var profiles []models.Profile
	if err := h.DB.WithContext(r.Context()).Order("name").Find(&profiles).Error; err != nil {
		internalError(w, r, h.logger, "handlers", "AdminHandler.Users", "load_failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": users, "profiles": profiles})
}

// AssignProfile sets or clears (profile_id null) a user's profile.
func (h *AdminHandler) AssignProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || userID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_user_id", nil)
		return
	}
	var req struct {
		ProfileID *uint `json:"profile_id"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	db := h.DB.WithContext(r.Context())
	if req.ProfileID != nil {
		var profile models.Profile
		if err := db.First(&profile, *req.ProfileID).Error; err != nil {
			httpx.JSONError(w, http.StatusNotFound, "profile_not_found", nil)
			return
		}
	}
	res := db.Model(&models.User{}).Where("id = ?", userID).Update("profile_id", req.ProfileID)
	if res.Error != nil {
		internalError(w, r, h.logger, "handlers", "AdminHandler.AssignProfile", "update_failed", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "user_not_found", nil)
		return
	}
	h.Gate.InvalidateUser(uint(userID))
	h.logger.WithFields(logrus.Fields{"admin_id": currentUser(r), "user_id": userID, "profile_id": req.ProfileID}).Info("profile assigned")
	httpx.JSON(w, http.StatusOK, map[string]any{"user_id": userID, "profile_id": req.ProfileID})
}

// Profiles lists profiles with their permissions.
func (h *AdminHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	var profiles []models.Profile
	if err := h.DB.WithContext(r.Context()).Preload("Permissions").Order("name").Find(&profiles).Error; err != nil {
		internalError(w, r, h.logger, "handlers", "AdminHandler.Profiles", "load_failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

// SetPermissions replaces a profile's permissions with the given
// "resource:action" codes. Unknown codes are rejected. System profiles are
// read-only.
func (h *AdminHandler) SetPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req struct {
		Permissions []string `json:"permissions"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	db := h.DB.WithContext(r.Context())

	var profile models.Profile
	if err := db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		internalError(w, r, h.logger, "handlers", "AdminHandler.SetPermissions", "load_failed", err)
		return
	}
	if profile.IsSystem {
		httpx.JSONError(w, http.StatusForbidden, "cannot_modify_system_profile", nil)
		return
	}

	perms := make([]models.Permission, 0, len(req.Permissions))
	for _, code := range req.Permissions {
		p, ok := gate.ParsePermission(code)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_permission", map[string]string{"permission": code})
			return
		}
		res, act := p.Parse()
		var perm models.Permission
		if err := db.Where("resource_type = ? AND action = ?", res, string(act)).First(&perm).Error; err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_permission", map[string]string{"permission": code})
			return
		}
		perms = append(perms, perm)
	}
	if err := db.Model(&profile).Association("Permissions").Replace(perms); err != nil {
		internalError(w, r, h.logger, "handlers", "AdminHandler.SetPermissions", "update_failed", err)
		return
	}
	h.Gate.InvalidateAll()
	profile.Permissions = perms
	httpx.JSON(w, http.StatusOK, profile)
}

// CreateProfile adds a custom profile without permissions.
func (h *AdminHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Name == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required"})
		return
	}
	profile := models.Profile{Name: req.Name, Description: req.Description}
	if err := h.DB.WithContext(r.Context()).Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.JSONError(w, http.StatusConflict, "name_already_exists", nil)
			return
		}
		internalError(w, r, h.logger, "handlers", "AdminHandler.CreateProfile", "update_failed", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, profile)
}
