package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/castcall-backend/api/responses"
	"github.com/angelmondragon/castcall-backend/api/validators"
	"github.com/angelmondragon/castcall-backend/internal/intake"
	pkgerrors "github.com/angelmondragon/castcall-backend/pkg/errors"
	"github.com/angelmondragon/castcall-backend/pkg/logger"
)

type sponsorSubmitter interface {
	SubmitSponsor(ctx context.Context, inq intake.SponsorInquiry) (*intake.Result, error)
}

type sponsorRequest struct {
	Company      string `json:"company"`
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	Message      string `json:"message"`
}

func SponsorSubmit(svc sponsorSubmitter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intake service unavailable"))
			return
		}

		var body sponsorRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SubmitSponsor(r.Context(), intake.SponsorInquiry{
			Company:      body.Company,
			ContactName:  body.ContactName,
			ContactEmail: body.ContactEmail,
			Message:      body.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, result.Message)
	}
}
