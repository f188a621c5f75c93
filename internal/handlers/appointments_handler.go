package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medbook/appointment-flow/internal/appointments"
	"github.com/medbook/appointment-flow/internal/awsclients"
	"github.com/medbook/appointment-flow/internal/validation"
)

// HandlerConfig groups dependencies for the appointment routes.
type HandlerConfig struct {
	Service *appointments.Service
	Metrics *awsclients.Metrics
	Logger  *zap.Logger
}

// RegisterAppointmentRoutes registers the appointment API.
func RegisterAppointmentRoutes(r *gin.Engine, cfg HandlerConfig) {
	grp := r.Group("/appointment")
	grp.POST("/create", createAppointment(cfg))
	grp.GET("/getAppointmentsByInsuredId/:insuredId", getAppointmentsByInsuredID(cfg))
}

func createAppointment(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateAppointmentRequest
		if errs := validation.BindJSON(c, &req); errs != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body", errs)
			return
		}

		appt, err := cfg.Service.Create(ctx, req)
		if err != nil {
			var verrs validation.Errors
			if errors.As(err, &verrs) {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid appointment request", verrs)
				return
			}
			if errors.Is(err, appointments.ErrEventPublish) {
				// The record was stored; only the announcement failed.
				cfg.Metrics.Count(ctx, "AppointmentPublishFailed", nil)
				respondError(c, http.StatusInternalServerError, "DOWNSTREAM_ERROR",
					"appointment stored but event publish failed", nil)
				return
			}
			cfg.Logger.Error("create appointment failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			return
		}

		cfg.Metrics.Count(ctx, "AppointmentCreated", map[string]string{"countryISO": appt.CountryISO})
		respondData(c, http.StatusCreated, "appointment scheduling in process", appt)
	}
}

func getAppointmentsByInsuredID(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		insuredID := c.Param("insuredId")

		appts, err := cfg.Service.GetByInsuredID(ctx, insuredID)
		if err != nil {
			var verrs validation.Errors
			if errors.As(err, &verrs) {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid insuredId", verrs)
				return
			}
			cfg.Logger.Error("get appointments failed",
				zap.String("insuredId", insuredID),
				zap.Error(err),
			)
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			return
		}

		respondData(c, http.StatusOK, "appointments retrieved", appts)
	}
}
