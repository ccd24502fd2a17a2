package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/dmitrijs2005/bloodbay/internal/server/models"
	"github.com/dmitrijs2005/bloodbay/internal/server/services"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// bindJSON decodes the request body into req. An empty body leaves req
// zeroed so that the service reports the missing fields.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.svc.Auth.Register(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.String(http.StatusOK, msg)
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.svc.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *Handler) Info(c *gin.Context) {
	claims, err := h.svc.Auth.Info(c.Request.Context(), c.GetHeader(common.TokenHeaderName))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, claims)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.svc.Auth.ResetPassword(c.Request.Context(), req.Email, req.OldPassword, req.NewPassword)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *Handler) Verify(c *gin.Context) {
	if err := h.svc.Verification.Verify(c.Request.Context(), c.Query("token")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) CreateCase(c *gin.Context) {
	var req models.CaseInput
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.svc.Cases.Create(c.Request.Context(), identity(c).ID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// ListCases returns every case, or the cases of one reporter when the
// userId query parameter is set.
func (h *Handler) ListCases(c *gin.Context) {
	var (
		list []*models.Case
		err  error
	)
	if userID := c.Query("userId"); userID != "" {
		list, err = h.svc.Cases.ListByReporter(c.Request.Context(), userID)
	} else {
		list, err = h.svc.Cases.List(c.Request.Context())
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) SearchCases(c *gin.Context) {
	list, err := h.svc.Cases.SearchByTag(c.Request.Context(), c.Query("tag"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetCase(c *gin.Context) {
	found, err := h.svc.Cases.Get(c.Request.Context(), c.Param("caseId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *Handler) DeleteCase(c *gin.Context) {
	n, err := h.svc.Cases.Delete(c.Request.Context(), c.Param("caseId"), identity(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": n})
}

// UploadFiles accepts up to services.MaxUploadFiles parts named "files".
func (h *Handler) UploadFiles(c *gin.Context) {
	var uploads []services.Upload
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["files"] {
			uploads = append(uploads, services.Upload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Open: func() (io.ReadCloser, error) {
					return fh.Open()
				},
			})
		}
	}

	links, err := h.svc.Files.Upload(c.Request.Context(), identity(c).ID, c.Query("linkedToId"), uploads)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h *Handler) ListFiles(c *gin.Context) {
	list, err := h.svc.Files.ListForCase(c.Request.Context(), c.Query("caseId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Reset wipes all data. Routed only in the test environment.
func (h *Handler) Reset(c *gin.Context) {
	if err := h.svc.Maintenance.Reset(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
