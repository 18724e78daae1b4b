package request

import (
	"errors"
	"strings"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/samber/lo"

	"github.com/vietanh2810/portfolio-site/internal/api/handler/v1/response"
	"github.com/vietanh2810/portfolio-site/internal/domain"
)

const (
	msgName    = "Name must be between 2 and 50 characters"
	msgEmail   = "Please provide a valid email"
	msgMessage = "Message must be between 10 and 1000 characters"

	// A local part, an @, and a domain holding at least one dot that neither
	// starts nor ends it.
	emailDomainPattern = `^[^\s@]+@(?=[^\s@]*\.)(?!\.)[^\s@]*[^\s@.]$`
)

var (
	emailDomainExp = regexp2.MustCompile(emailDomainPattern, regexp2.None)

	errEmailDomain = errors.New(msgEmail)

	// fieldOrder is the order field errors are reported in.
	fieldOrder = []string{"name", "email", "message"}
)

type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`

	raw map[string]string
}

// Normalize trims every field and case-folds the email. The values as sent are
// kept for error reporting.
func (req *ContactRequest) Normalize() {
	req.raw = map[string]string{
		"name":    req.Name,
		"email":   req.Email,
		"message": req.Message,
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Message = strings.TrimSpace(req.Message)
}

// Validate checks every field and returns validation.Errors holding at most
// one error per failing field.
func (req *ContactRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name,
			validation.Required.Error(msgName),
			validation.RuneLength(2, 50).Error(msgName),
		),
		validation.Field(&req.Email,
			validation.Required.Error(msgEmail),
			is.Email.Error(msgEmail),
			validation.By(emailHasDottedDomain),
		),
		validation.Field(&req.Message,
			validation.Required.Error(msgMessage),
			validation.RuneLength(10, 1000).Error(msgMessage),
		),
	)
}

func emailHasDottedDomain(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if ok, err := emailDomainExp.MatchString(s); err != nil || !ok {
		return errEmailDomain
	}
	return nil
}

// Submission returns the normalized fields as a domain submission.
func (req *ContactRequest) Submission() domain.Submission {
	return domain.Submission{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
}

// FieldErrors flattens the result of Validate into an ordered list. It
// returns nil when err is not a validation.Errors.
func (req *ContactRequest) FieldErrors(err error) []response.FieldError {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}

	return lo.FilterMap(fieldOrder, func(field string, _ int) (response.FieldError, bool) {
		fieldErr, ok := errs[field]
		if !ok || fieldErr == nil {
			return response.FieldError{}, false
		}
		return response.FieldError{
			Type:     "field",
			Value:    req.raw[field],
			Msg:      fieldErr.Error(),
			Path:     field,
			Location: "body",
		}, true
	})
}
