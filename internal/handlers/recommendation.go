package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/cinematch/internal/catalog"
	"github.com/temcen/cinematch/internal/middleware"
	"github.com/temcen/cinematch/internal/services"
	"github.com/temcen/cinematch/pkg/models"
)

type RecommendationHandler struct {
	recommender  services.RecommenderInterface
	posters      services.PosterLookup
	validate     *validator.Validate
	defaultCount int
	maxCount     int
	logger       *logrus.Logger
}

func NewRecommendationHandler(
	recommender services.RecommenderInterface,
	posters services.PosterLookup,
	defaultCount, maxCount int,
	logger *logrus.Logger,
) *RecommendationHandler {
	if defaultCount <= 0 {
		defaultCount = 5
	}
	if maxCount <= 0 {
		maxCount = 10
	}
	return &RecommendationHandler{
		recommender:  recommender,
		posters:      posters,
		validate:     validator.New(),
		defaultCount: defaultCount,
		maxCount:     maxCount,
		logger:       logger,
	}
}

// Get serves GET /api/v1/recommendations?industry=&user_id=&count=&genre=
func (h *RecommendationHandler) Get(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "INVALID_QUERY_PARAMS", "Query parameters are malformed")
		return
	}
	if _, ok := c.GetQuery("count"); !ok {
		req.Count = h.defaultCount
	}

	h.recommend(c, &req)
}

// Create serves POST /api/v1/recommendations. The body has already passed
// schema validation.
func (h *RecommendationHandler) Create(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST_BODY", "Invalid request body format")
		return
	}
	if req.Count == 0 {
		req.Count = h.defaultCount
	}

	h.recommend(c, &req)
}

func (h *RecommendationHandler) recommend(c *gin.Context, req *models.RecommendationRequest) {
	requestID := middleware.GetRequestID(c)

	req.Genre = strings.TrimSpace(req.Genre)
	if req.Industry == string(models.IndustryBollywood) {
		// Bollywood sampling has no user; whatever id was sent is ignored.
		req.UserID = nil
	}
	if err := h.validate.Struct(req); err != nil {
		badRequest(c, "VALIDATION_ERROR", describeValidation(err))
		return
	}
	if req.Count > h.maxCount {
		badRequest(c, "VALIDATION_ERROR", fmt.Sprintf("count must be at most %d", h.maxCount))
		return
	}

	industry := models.Industry(req.Industry)
	if industry == models.IndustryHollywood && req.Genre != "" {
		genre, ok := catalog.CanonicalGenre(req.Genre)
		if !ok {
			badRequest(c, "INVALID_GENRE", fmt.Sprintf("unknown genre %q", req.Genre))
			return
		}
		req.Genre = genre
	}

	q := services.Query{
		Industry: industry,
		UserID:   req.UserID,
		Count:    req.Count,
		Genre:    req.Genre,
	}

	recs, err := h.recommender.Recommend(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, requestID, err)
		return
	}

	status := models.StatusOK
	if len(recs) == 0 {
		status = models.StatusNoMatches
	}

	c.JSON(http.StatusOK, models.RecommendationResponse{
		RequestID:       requestID,
		Status:          status,
		Industry:        req.Industry,
		Genre:           req.Genre,
		Count:           req.Count,
		Recommendations: services.BuildEntries(c.Request.Context(), q, recs, h.posters),
		GeneratedAt:     time.Now().UTC(),
	})
}

func (h *RecommendationHandler) handleError(c *gin.Context, requestID string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrUnknownCatalog):
		badRequest(c, "INVALID_INPUT", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": gin.H{
				"code":    "REQUEST_CANCELLED",
				"message": "Request was cancelled before recommendations were ready",
			},
		})
	default:
		h.logger.WithError(err).WithField("request_id", requestID).Error("Failed to generate recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECOMMENDATION_GENERATION_FAILED",
				"message": "Failed to generate recommendations",
			},
		})
	}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
