package transport

import (
	"fmt"
	"net/http"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/gin-gonic/gin"
)

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("/:id", h.GetSession)
	sessions.DELETE("/:id", h.DeleteSession)
	sessions.POST("/:id/image", h.UploadImage)
	sessions.PUT("/:id/filters", h.SetFilters)
	sessions.POST("/:id/filters/apply", h.ApplyFilters)
	sessions.PUT("/:id/overlay", h.SetOverlay)
	sessions.PUT("/:id/filename", h.SetFilename)
	sessions.PUT("/:id/preview", h.SetPreview)
	sessions.GET("/:id/primary.png", h.surface("primary"))
	sessions.GET("/:id/preview.png", h.surface("preview"))
	sessions.GET("/:id/download", h.Download)
	sessions.GET("/:id/share/:platform", h.Share)
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	st, err := h.service.CreateSession(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity.CreateSessionResponse{ID: st.ID})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	st, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.service.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

func (h *SessionHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	src, err := file.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer src.Close()

	st, err := h.service.UploadImage(c.Request.Context(), c.Param("id"), src)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SessionHandler) SetFilters(c *gin.Context) {
	var req entity.FilterPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	st, err := h.service.PatchFilters(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SessionHandler) ApplyFilters(c *gin.Context) {
	st, err := h.service.ApplyFilters(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SessionHandler) SetOverlay(c *gin.Context) {
	var req entity.OverlayPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	st, err := h.service.PatchOverlay(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SessionHandler) SetFilename(c *gin.Context) {
	var req entity.FilenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	st, err := h.service.SetFilename(c.Request.Context(), c.Param("id"), req.Filename)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SessionHandler) SetPreview(c *gin.Context) {
	var req entity.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	st, err := h.service.SetPreview(c.Request.Context(), c.Param("id"), req.Open)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *SessionHandler) surface(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := h.service.SurfacePNG(c.Request.Context(), c.Param("id"), name)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "image/png", data)
	}
}

func (h *SessionHandler) Download(c *gin.Context) {
	dl, err := h.service.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	c.Data(http.StatusOK, "image/png", dl.Data)
}

func (h *SessionHandler) Share(c *gin.Context) {
	platform := c.Param("platform")

	link, err := h.service.Share(c.Request.Context(), c.Param("id"), platform)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.ShareResponse{Platform: platform, URL: link})
}
