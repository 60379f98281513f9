package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/temcen/cinematch/internal/catalog"
	"github.com/temcen/cinematch/internal/services"
	"github.com/temcen/cinematch/pkg/models"
)

type CatalogHandler struct {
	users services.UserRanger
}

func NewCatalogHandler(users services.UserRanger) *CatalogHandler {
	return &CatalogHandler{users: users}
}

// Genres lists the Hollywood genres callers may filter on.
func (h *CatalogHandler) Genres(c *gin.Context) {
	c.JSON(http.StatusOK, models.GenresResponse{Genres: catalog.SelectableGenres()})
}

// UserRange reports the user ids the collaborative recommender knows.
func (h *CatalogHandler) UserRange(c *gin.Context) {
	lo, hi := h.users.Range()
	c.JSON(http.StatusOK, models.UserRangeResponse{MinUserID: lo, MaxUserID: hi})
}
