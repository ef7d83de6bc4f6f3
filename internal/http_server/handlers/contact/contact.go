package contact

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	resp "joyful_time/internal/lib/api/response"
	sl "joyful_time/internal/lib/logger"
	"joyful_time/internal/models"
	"joyful_time/internal/relay"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const (
	MsgSent          = "Messaggio inviato con successo!"
	MsgMissingFields = "Tutti i campi sono obbligatori."
	MsgSendFailed    = "Si è verificato un errore durante l'invio del messaggio."
)

type Request struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type Relay interface {
	Deliver(ctx context.Context, sub models.ContactSubmission) error
}

// NewValidator reports field errors by their JSON names.
func NewValidator() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return validate
}

// New godoc
// @Summary      Contact form relay
// @Description  Validates name, email and message and emails them to the site operator.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        request  body  Request  true  "Contact form"
// @Success      200  {object}  resp.Response  "Messaggio inviato con successo!"
// @Failure      400  {object}  resp.Response  "Tutti i campi sono obbligatori."
// @Failure      429  {object}  resp.Response  "Rate limit exceeded"
// @Failure      500  {object}  resp.Response  "Si è verificato un errore durante l'invio del messaggio."
// @Router       /api/contact [post]
func New(
	log *slog.Logger,
	validate *validator.Validate,
	contactRelay Relay,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contact.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Message(MsgSendFailed))

			return
		}

		if err := validate.Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if !errors.As(err, &validateErr) {
				log.Error("Failed to validate request", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Message(MsgSendFailed))

				return
			}

			log.Info("Missing required fields", slog.String("fields", resp.MissingFields(validateErr)))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Message(MsgMissingFields))

			return
		}

		err = contactRelay.Deliver(r.Context(), models.ContactSubmission{
			Name:    req.Name,
			Email:   req.Email,
			Message: req.Message,
		})
		if errors.Is(err, relay.ErrMissingField) {
			log.Info("Missing required fields", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Message(MsgMissingFields))

			return
		}
		if err != nil {
			log.Error("failed to relay contact message", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Message(MsgSendFailed))

			return
		}

		log.Info("Contact message relayed")

		ResponseOK(w, r)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, resp.Message(MsgSent))
}
