package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
	"github.com/wczubal1/GreenAgentWitty/internal/usecase"
	xhttp "github.com/wczubal1/GreenAgentWitty/pkg/http"
	xlogger "github.com/wczubal1/GreenAgentWitty/pkg/logger"
)

// AssessmentsHandler exposes the grading engine over HTTP.
type AssessmentsHandler struct {
	logger   *xlogger.Logger
	assessor *usecase.Assessor
	upgrader streamUpgrader
}

func NewAssessmentsHandler(logger *xlogger.Logger, assessor *usecase.Assessor) *AssessmentsHandler {
	return &AssessmentsHandler{
		logger:   logger,
		assessor: assessor,
		upgrader: newStreamUpgrader(),
	}
}

func (h *AssessmentsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/assessments", h.Assess)
	g.GET("/assessments/stream", h.Stream)
	e.GET("/healthz", h.Health)
}

// assessmentResponse is the synchronous POST reply: the verdict artifact
// plus the progress updates that accumulated during the run.
type assessmentResponse struct {
	Summary string                 `json:"summary"`
	Updates []string               `json:"updates"`
	Result  map[string]interface{} `json:"result"`
}

// collectReporter buffers progress updates for a synchronous response.
type collectReporter struct {
	updates []string
}

func (r *collectReporter) Update(message string) { r.updates = append(r.updates, message) }

func (h *AssessmentsHandler) Assess(c echo.Context) error {
	req := &models.AssessmentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	reporter := &collectReporter{}
	verdict, err := h.assessor.Assess(c.Request().Context(), *req, reporter)
	if err != nil {
		var reject *usecase.RejectError
		if errors.As(err, &reject) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(reject.Message))
		}
		var transport *usecase.TransportError
		if errors.As(err, &transport) {
			return xhttp.AppErrorResponse(c, xhttp.BadGatewayError(transport.Error()))
		}
		h.logger.Error("assessment error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	return xhttp.SuccessResponse(c, assessmentResponse{
		Summary: verdict.Summary,
		Updates: reporter.updates,
		Result:  verdict.Data,
	})
}

func (h *AssessmentsHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
