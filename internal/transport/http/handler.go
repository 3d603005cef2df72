package http

import (
	"net/http"

	"log/slog"

	"github.com/astro-web3/token-authorizer/internal/app/authz"
	"github.com/astro-web3/token-authorizer/internal/config"
	"github.com/astro-web3/token-authorizer/internal/domain/token"
	"github.com/astro-web3/token-authorizer/pkg/logger"
	"github.com/astro-web3/token-authorizer/pkg/tracer"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// methodARNHeader names the requested resource; when present the
// decision's grant is narrowed to it.
const methodARNHeader = "X-Method-Arn"

type Handler struct {
	appService authz.Service
	cfg        *config.Config
}

func NewHandler(appService authz.Service, cfg *config.Config) *Handler {
	return &Handler{
		appService: appService,
		cfg:        cfg,
	}
}

// Authorize evaluates the credential in the Authorization header and
// responds with the decision document, or with one uniform 401 for every
// rejection kind. The specific kind is never disclosed to the caller; it
// goes to logs and spans only.
func (h *Handler) Authorize(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.Authorize")
	defer span.End()

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		authHeader = c.GetHeader("authorization")
	}

	if authHeader == "" {
		span.SetAttributes(attribute.Bool("authz.missing_header", true))
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	methodARN := c.GetHeader(methodARNHeader)

	decision, err := h.appService.Authorize(ctx, authHeader, methodARN, h.cfg.Auth.CacheTTL)
	if err != nil {
		if token.IsRejection(err) {
			span.SetAttributes(attribute.Bool("authz.allowed", false))
			logger.WarnContext(ctx, "authorization denied", slog.String("reason", err.Error()))
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		span.RecordError(err)
		logger.ErrorContext(ctx, "authorization evaluation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	span.SetAttributes(attribute.Bool("authz.allowed", true))

	c.JSON(http.StatusOK, decision)
}
