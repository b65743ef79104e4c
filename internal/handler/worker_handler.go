package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"salon-booking-api/internal/auth"
	"salon-booking-api/internal/middleware"
	"salon-booking-api/internal/model"
	"salon-booking-api/internal/store"
)

const resetTokenTTL = time.Hour

type workerInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

func publicWorker(w *model.Worker) workerInfo {
	return workerInfo{ID: w.ID, Username: w.Username, Email: w.Email, CreatedAt: w.CreatedAt}
}

// Signup creates an unvalidated staff account and mails the admin a
// validation link. The account cannot log in until approved.
func (h *Handler) Signup(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Username == "" || in.Email == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	token, err := auth.OpaqueToken()
	if err != nil {
		h.logger.Error("generate validation token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	w := &model.Worker{
		ID:              uuid.New().String(),
		Username:        in.Username,
		Email:           in.Email,
		PasswordHash:    hash,
		IsValidated:     false,
		ValidationToken: &token,
	}

	if err := h.workers.CreateWorker(c.Request.Context(), w); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already in use."})
			return
		}
		h.logger.Error("create worker", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	validationURL := fmt.Sprintf("%s/api/workers/validate/%s", h.cfg.PublicBaseURL, token)
	go h.sendMail(h.cfg.AdminEmail, "New Worker Signup Request", fmt.Sprintf(
		`<p>A new worker has requested to join:</p>
<ul><li>Username: %s</li><li>Email: %s</li></ul>
<p>To approve this worker, click <a href="%s">here</a>.</p>`,
		w.Username, w.Email, validationURL))

	c.JSON(http.StatusCreated, gin.H{"message": "Worker created successfully.", "worker": publicWorker(w)})
}

// ValidateWorker flips the admin-approval gate for the token's account.
func (h *Handler) ValidateWorker(c *gin.Context) {
	w, err := h.workers.WorkerByValidationToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired validation token."})
			return
		}
		h.logger.Error("lookup validation token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	if err := h.workers.ValidateWorker(c.Request.Context(), w.ID); err != nil {
		h.logger.Error("validate worker", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	h.logger.Info("worker validated", zap.String("worker_id", w.ID))
	c.String(http.StatusOK, "Worker account validated successfully!")
}

func (h *Handler) Login(c *gin.Context) {
	var in struct {
		Identifier string `json:"identifier"` // username or email
		Password   string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Identifier == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}

	w, err := h.workers.WorkerByIdentifier(c.Request.Context(), in.Identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
			return
		}
		h.logger.Error("lookup worker", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	if !auth.CheckPassword(w.PasswordHash, in.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
		return
	}

	if !w.IsValidated {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account not validated yet. Please wait for admin approval."})
		return
	}

	tok, err := auth.MakeToken(w.ID, w.Username, w.Email, h.cfg.JWTSecret)
	if err != nil {
		h.logger.Error("make token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful.",
		"token":   tok,
		"worker":  publicWorker(w),
	})
}

// PasswordResetRequest never reveals whether the email exists.
func (h *Handler) PasswordResetRequest(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email required."})
		return
	}

	const reply = "If this email exists, a reset link will be sent."

	w, err := h.workers.WorkerByEmail(c.Request.Context(), in.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("lookup worker by email", zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"message": reply})
		return
	}

	token, err := auth.OpaqueToken()
	if err != nil {
		h.logger.Error("generate reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}
	expires := time.Now().Add(resetTokenTTL)

	if err := h.workers.SetResetToken(c.Request.Context(), w.Email, &token, &expires); err != nil {
		h.logger.Error("set reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	resetURL := fmt.Sprintf("%s/worker-password-reset?token=%s", h.cfg.FrontendBaseURL, token)
	go h.sendMail(w.Email, "Password Reset Request", fmt.Sprintf(
		`<p>Reset your password: <a href="%s">%s</a></p>`, resetURL, resetURL))

	c.JSON(http.StatusOK, gin.H{"message": reply})
}

func (h *Handler) PasswordReset(c *gin.Context) {
	var in struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Token == "" || in.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token and new password required."})
		return
	}

	w, err := h.workers.WorkerByResetToken(c.Request.Context(), in.Token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token."})
			return
		}
		h.logger.Error("lookup reset token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	if err := h.workers.UpdateWorkerPassword(c.Request.Context(), w.ID, hash); err != nil {
		h.logger.Error("update password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}
	// single-use token
	if err := h.workers.SetResetToken(c.Request.Context(), w.Email, nil, nil); err != nil {
		h.logger.Error("clear reset token", zap.Error(err))
	}

	h.logger.Info("worker password reset", zap.String("worker_id", w.ID))
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully."})
}

func (h *Handler) Me(c *gin.Context) {
	claims := middleware.Worker(c)
	w, err := h.workers.WorkerByID(c.Request.Context(), claims.WorkerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found."})
			return
		}
		h.logger.Error("lookup worker", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}
	c.JSON(http.StatusOK, publicWorker(w))
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Username == "" || in.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and email required."})
		return
	}

	claims := middleware.Worker(c)
	w, err := h.workers.UpdateWorkerInfo(c.Request.Context(), claims.WorkerID, in.Username, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already in use."})
			return
		}
		h.logger.Error("update worker", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Worker info updated.", "worker": publicWorker(w)})
}

func (h *Handler) DeleteMe(c *gin.Context) {
	claims := middleware.Worker(c)
	if err := h.workers.DeleteWorker(c.Request.Context(), claims.WorkerID); err != nil {
		h.logger.Error("delete worker", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}
	h.logger.Info("worker account deleted", zap.String("worker_id", claims.WorkerID))
	c.JSON(http.StatusOK, gin.H{"message": "Worker account deleted."})
}

func (h *Handler) ListWorkers(c *gin.Context) {
	workers, err := h.workers.ListWorkers(c.Request.Context())
	if err != nil {
		h.logger.Error("list workers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
		return
	}

	out := make([]workerInfo, 0, len(workers))
	for i := range workers {
		out = append(out, publicWorker(&workers[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) sendMail(to, subject, body string) {
	if to == "" {
		return
	}
	if err := h.mailer.Send(to, subject, body); err != nil {
		h.logger.Error("send mail", zap.String("to", to), zap.Error(err))
	}
}
