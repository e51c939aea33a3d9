package intake

import (
	"errors"
	"reflect"
	"strings"

	pkgerrors "github.com/angelmondragon/castcall-backend/pkg/errors"
	"github.com/angelmondragon/castcall-backend/pkg/validation"
	"github.com/go-playground/validator/v10"
)

// validateFields reports only the first failing field, in declaration order.
func validateFields(value any) error {
	err := validation.Validate.Struct(value)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		first := errs[0]
		if first.Kind() == reflect.Bool {
			return pkgerrors.Validation(first.Field(), first.Field()+" must be accepted")
		}
		return pkgerrors.Validation(first.Field(), first.Field()+" is required")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid submission")
}

func normalizeSubmission(sub Submission) Submission {
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Name = strings.TrimSpace(sub.Name)
	sub.SocialHandle = strings.TrimSpace(sub.SocialHandle)
	return sub
}

func normalizeInquiry(inq SponsorInquiry) SponsorInquiry {
	inq.Company = strings.TrimSpace(inq.Company)
	inq.ContactName = strings.TrimSpace(inq.ContactName)
	inq.ContactEmail = strings.TrimSpace(inq.ContactEmail)
	inq.Message = strings.TrimSpace(inq.Message)
	return inq
}
