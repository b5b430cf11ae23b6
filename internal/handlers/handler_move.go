package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/acctcore/move_accounting_app/internal/dto"
	"github.com/acctcore/move_accounting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// moveHandler handles HTTP requests related to move posting.
type moveHandler struct {
	moveService     portssvc.MoveSvcFacade
	moveLineService portssvc.MoveLineCreateSvc
	moveTaxService  portssvc.MoveLineTaxSvc
}

func newMoveHandler(ms portssvc.MoveSvcFacade, mls portssvc.MoveLineCreateSvc, mts portssvc.MoveLineTaxSvc) *moveHandler {
	return &moveHandler{
		moveService:     ms,
		moveLineService: mls,
		moveTaxService:  mts,
	}
}

// registerMoveRoutes registers routes related to move posting.
func registerMoveRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newMoveHandler(services.Move, services.MoveLine, services.MoveTax)

	moves := rg.Group("/moves")
	{
		moves.POST("/:moveID/post", h.postMove)
		moves.POST("/:moveID/post-daybook", h.postDaybookMove)
		moves.POST("/post-all", h.postAllMoves)
		moves.POST("/simulate", h.simulateMoves)
		moves.POST("/generate-lines", h.generateLines)
	}
}

// respondMoveError maps service errors onto HTTP statuses. Structural and
// configuration violations are the caller's problem, not the server's.
func respondMoveError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Move not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrMissingField):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConfiguration), errors.Is(err, apperrors.ErrInconsistency):
		logger.Warn("Move rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// postMove validates and accounts a single move.
func (h *moveHandler) postMove(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	moveID := c.Param("moveID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.PostMoveRequest
	// Body is optional; an empty body means defaults.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for PostMove", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}
	updateCustomerBalances := true
	if req.UpdateCustomerBalances != nil {
		updateCustomerBalances = *req.UpdateCustomerBalances
	}

	logger = logger.With(slog.String("move_id", moveID), slog.String("actor_id", actorID))
	logger.Info("Received request to post move", slog.Bool("update_customer_balances", updateCustomerBalances))

	if err := h.moveService.PostByID(c.Request.Context(), moveID, actorID, updateCustomerBalances); err != nil {
		respondMoveError(c, logger, err, "Failed to post move")
		return
	}

	logger.Info("Move posted successfully")
	c.Status(http.StatusNoContent)
}

// postDaybookMove commits a daybook move to its final accounted state.
func (h *moveHandler) postDaybookMove(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	moveID := c.Param("moveID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("move_id", moveID), slog.String("actor_id", actorID))
	logger.Info("Received request to post daybook move")

	if err := h.moveService.PostDaybookByID(c.Request.Context(), moveID, actorID); err != nil {
		respondMoveError(c, logger, err, "Failed to post daybook move")
		return
	}

	logger.Info("Daybook move accounted successfully")
	c.Status(http.StatusNoContent)
}

// postAllMoves posts a batch of moves, each independently; failures do not
// stop the batch.
func (h *moveHandler) postAllMoves(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.PostAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostAll", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID))
	logger.Info("Received request to post moves", slog.Int("count", len(req.MoveIDs)))

	failed, err := h.moveService.PostAll(c.Request.Context(), req.MoveIDs, actorID)
	if err != nil {
		respondMoveError(c, logger, err, "Failed to post moves")
		return
	}

	logger.Info("Batch posting finished", slog.Int("failed", len(failed)))
	c.JSON(http.StatusOK, dto.PostAllResponse{FailedReferences: failed})
}

// simulateMoves transitions draft moves to simulated.
func (h *moveHandler) simulateMoves(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Simulate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("actor_id", actorID))
	logger.Info("Received request to simulate moves", slog.Int("count", len(req.MoveIDs)))

	if err := h.moveService.SimulateAll(c.Request.Context(), req.MoveIDs, actorID); err != nil {
		respondMoveError(c, logger, err, "Failed to simulate moves")
		return
	}

	logger.Info("Moves simulated successfully")
	c.Status(http.StatusNoContent)
}

// generateLines runs the line pipeline on an invoice payload without
// persisting anything, returning the balanced line set.
func (h *moveHandler) generateLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GenerateLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("invoice_number", req.Invoice.InvoiceNumber))
	logger.Info("Received request to generate move lines")

	move := req.ToDomainMove()
	lines, err := h.moveLineService.CreateMoveLines(c.Request.Context(), move.Invoice, move)
	if err != nil {
		respondMoveError(c, logger, err, "Failed to generate move lines")
		return
	}
	move.Lines = lines
	h.moveService.CompleteMoveLines(move)

	if err := h.moveTaxService.CheckTaxMoveLines(move); err != nil {
		respondMoveError(c, logger, err, "Failed to generate move lines")
		return
	}
	if err := h.moveService.ValidateBalanced(move); err != nil {
		respondMoveError(c, logger, err, "Failed to generate move lines")
		return
	}

	logger.Info("Move lines generated", slog.Int("line_count", len(lines)))
	c.JSON(http.StatusOK, dto.ToMoveResponse(move))
}
