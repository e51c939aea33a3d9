package controllers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-playground/form/v4"

	"github.com/angelmondragon/castcall-backend/api/responses"
	"github.com/angelmondragon/castcall-backend/api/validators"
	"github.com/angelmondragon/castcall-backend/internal/intake"
	pkgerrors "github.com/angelmondragon/castcall-backend/pkg/errors"
	"github.com/angelmondragon/castcall-backend/pkg/logger"
)

const multipartMemory = 32 << 20

var formDecoder = newFormDecoder()

func newFormDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("form")
	return d
}

type castingSubmitter interface {
	SubmitCasting(ctx context.Context, sub intake.Submission) (*intake.Result, error)
}

// castingForm holds the text fields of a multipart submission. Consent arrives as checkbox
// spellings, so it is decoded as text and parsed afterwards.
type castingForm struct {
	Email                  string `form:"email"`
	Name                   string `form:"name"`
	SocialHandle           string `form:"socialHandle"`
	VoluntaryParticipation string `form:"voluntaryParticipation"`
	UsageRights            string `form:"usageRights"`
	DataProcessing         string `form:"dataProcessing"`
}

type castingJSONRequest struct {
	Email                  string       `json:"email"`
	Name                   string       `json:"name"`
	SocialHandle           string       `json:"socialHandle"`
	VoluntaryParticipation consentFlag  `json:"voluntaryParticipation"`
	UsageRights            consentFlag  `json:"usageRights"`
	DataProcessing         consentFlag  `json:"dataProcessing"`
	Images                 []inlineFile `json:"images"`
	VoiceSample            *inlineFile  `json:"voiceSample"`
}

type inlineFile struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

// consentFlag accepts a JSON bool or any checkbox spelling as a string.
type consentFlag bool

func (c *consentFlag) UnmarshalJSON(data []byte) error {
	var asBool bool
	if err := json.Unmarshal(data, &asBool); err == nil {
		*c = consentFlag(asBool)
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return fmt.Errorf("consent flag must be a boolean or string")
	}
	*c = consentFlag(validators.ParseBool(asString))
	return nil
}

// CastingSubmit accepts a casting application as multipart form data or as JSON with
// base64 encoded attachments.
func CastingSubmit(svc castingSubmitter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intake service unavailable"))
			return
		}

		var (
			sub intake.Submission
			err error
		)
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch mediaType {
		case "multipart/form-data":
			sub, err = submissionFromMultipart(r)
		case "application/json":
			sub, err = submissionFromJSON(r)
		default:
			err = pkgerrors.New(pkgerrors.CodeValidation, "content type must be multipart/form-data or application/json")
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SubmitCasting(r.Context(), sub)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func submissionFromMultipart(r *http.Request) (intake.Submission, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return intake.Submission{}, bodyError(err, "invalid multipart body")
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	var fields castingForm
	if err := formDecoder.Decode(&fields, r.MultipartForm.Value); err != nil {
		return intake.Submission{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form fields")
	}

	sub := intake.Submission{
		Email:                  fields.Email,
		Name:                   fields.Name,
		SocialHandle:           fields.SocialHandle,
		VoluntaryParticipation: validators.ParseBool(fields.VoluntaryParticipation),
		UsageRights:            validators.ParseBool(fields.UsageRights),
		DataProcessing:         validators.ParseBool(fields.DataProcessing),
	}

	for i, header := range r.MultipartForm.File["images"] {
		if emptyPart(header) {
			continue
		}
		att, err := readPart(header)
		if err != nil {
			return intake.Submission{}, bodyError(err, fmt.Sprintf("could not read images[%d]", i))
		}
		sub.Images = append(sub.Images, att)
	}

	if headers := r.MultipartForm.File["voiceSample"]; len(headers) > 0 && !emptyPart(headers[0]) {
		att, err := readPart(headers[0])
		if err != nil {
			return intake.Submission{}, bodyError(err, "could not read voiceSample")
		}
		sub.Audio = &att
	}

	return sub, nil
}

// emptyPart reports the placeholder part browsers send for an unused file input.
func emptyPart(header *multipart.FileHeader) bool {
	return header.Filename == "" && header.Size == 0
}

func readPart(header *multipart.FileHeader) (intake.Attachment, error) {
	f, err := header.Open()
	if err != nil {
		return intake.Attachment{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return intake.Attachment{}, err
	}
	return intake.Attachment{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func submissionFromJSON(r *http.Request) (intake.Submission, error) {
	var body castingJSONRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return intake.Submission{}, err
	}

	sub := intake.Submission{
		Email:                  body.Email,
		Name:                   body.Name,
		SocialHandle:           body.SocialHandle,
		VoluntaryParticipation: bool(body.VoluntaryParticipation),
		UsageRights:            bool(body.UsageRights),
		DataProcessing:         bool(body.DataProcessing),
	}

	for i, file := range body.Images {
		att, err := decodeInline(file, fmt.Sprintf("images[%d]", i))
		if err != nil {
			return intake.Submission{}, err
		}
		sub.Images = append(sub.Images, att)
	}

	if body.VoiceSample != nil && body.VoiceSample.Data != "" {
		att, err := decodeInline(*body.VoiceSample, "voiceSample")
		if err != nil {
			return intake.Submission{}, err
		}
		sub.Audio = &att
	}

	return sub, nil
}

// decodeInline turns a base64 payload into an attachment. A data URL prefix is stripped and
// its media type used when the file carries none.
func decodeInline(file inlineFile, field string) (intake.Attachment, error) {
	payload := strings.TrimSpace(file.Data)
	mimeType := strings.TrimSpace(file.Type)

	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return intake.Attachment{}, pkgerrors.Validation(field, field+" is not a valid data url")
		}
		header := payload[len("data:"):comma]
		payload = payload[comma+1:]
		if mimeType == "" {
			mimeType = strings.TrimSuffix(header, ";base64")
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return intake.Attachment{}, pkgerrors.Validation(field, field+" is not valid base64")
	}

	return intake.Attachment{Name: file.Name, MimeType: mimeType, Data: data}, nil
}

func bodyError(err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, "request body too large").
			WithDetails(map[string]any{"limit_bytes": tooLarge.Limit})
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
}
