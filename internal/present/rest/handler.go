package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/carebridge/carebridge"
	"github.com/carebridge/carebridge/internal/domain"
	"github.com/carebridge/carebridge/internal/present/rest/presenter"
	"github.com/carebridge/carebridge/internal/service"
	"github.com/carebridge/carebridge/internal/usecase"
)

type Handler struct {
	patient *usecase.PatientUsecase
	signal  *service.SignalService
}

func NewHandler(
	patient *usecase.PatientUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		patient: patient,
		signal:  signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.handleHealth)
	e.GET("/patients", h.handleList)
	e.POST("/patients", h.handleCreate)
	e.PUT("/patients/:id", h.handleUpdate)
	e.DELETE("/patients/:id", h.handleDelete)
	e.GET("/patients/events", h.handleEvents)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleList(c echo.Context) error {
	ctx := c.Request().Context()

	patients, err := h.patient.List(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	out := make([]carebridge.PatientResponse, len(patients))
	for i, p := range patients {
		out[i] = usecase.Snapshot(p)
	}
	return presenter.OK(c, out)
}

func (h *Handler) handleCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var req carebridge.PatientRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	if errs := req.Validate(); errs != nil {
		return presenter.ValidationFailed(c, errs)
	}

	input, err := toInput(req)
	if err != nil {
		return presenter.BadRequestMessage(c, "dateOfBirth must be YYYY-MM-DD")
	}

	result, err := h.patient.Create(ctx, input)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return presenter.Conflict(c, err)
		}
		return presenter.InternalError(c, err)
	}

	response := usecase.Snapshot(result.Patient)
	response.BillingPending = result.BillingPending

	return presenter.Created(c, response)
}

func (h *Handler) handleUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid patient id")
	}

	var req carebridge.PatientRequest
	err = c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	if errs := req.Validate(); errs != nil {
		return presenter.ValidationFailed(c, errs)
	}

	input, err := toInput(req)
	if err != nil {
		return presenter.BadRequestMessage(c, "dateOfBirth must be YYYY-MM-DD")
	}

	updated, err := h.patient.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "patient not found")
		}
		if errors.Is(err, domain.ErrConflict) {
			return presenter.Conflict(c, err)
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, usecase.Snapshot(updated))
}

func (h *Handler) handleDelete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid patient id")
	}

	err = h.patient.Delete(ctx, id)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	return presenter.NoContent(c)
}

func toInput(req carebridge.PatientRequest) (usecase.PatientInput, error) {
	dob, err := time.Parse(carebridge.DateLayout, req.DateOfBirth)
	if err != nil {
		return usecase.PatientInput{}, err
	}
	return usecase.PatientInput{
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		DateOfBirth: dob,
	}, nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleEvents(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	output := make(chan carebridge.Event)
	go h.signal.Relay(ctx, output)

	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				}
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-output:
			if err := ws.WriteJSON(event); err != nil {
				slog.DebugContext(
					ctx, "Failed to write event",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
