package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMalformedBody    = errors.New("invalid request body")
	ErrEmptyForm        = errors.New("no form data received")
	ErrInvalidResponses = errors.New("invalid responses format")
	ErrBodyTooLarge     = errors.New("request body too large")
	ErrFieldTooLarge    = errors.New("form field too large")
)

const filePartPrefix = "file:"

// MissingFieldError reports a required applicant field that was empty after trimming.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return e.Field + " is required"
}

// InvalidFieldError reports an applicant field that failed format or length checks.
type InvalidFieldError struct {
	Field string
}

func (e *InvalidFieldError) Error() string {
	return "Invalid " + strings.ToLower(e.Field)
}

// UploadedFile is a file part keyed by question id.
type UploadedFile struct {
	Data         []byte
	Filename     string
	DeclaredType string
}

// Submission is the normalized form of a public application request.
type Submission struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	// Website is the honeypot field; people never fill it in.
	Website   string
	Responses []Response
	Files     map[string]UploadedFile
}

// IsSpam reports whether the honeypot field was filled in.
func (s *Submission) IsSpam() bool {
	return s.Website != ""
}

// ParseOptions bounds how much of each part is buffered.
type ParseOptions struct {
	// MaxFileSize is the accepted file size; one extra byte is read so
	// oversized files can be rejected later.
	MaxFileSize  int64
	MaxFieldSize int64
}

type applicantFields struct {
	FirstName string `validate:"max=255"`
	LastName  string `validate:"max=255"`
	Email     string `validate:"email,max=255"`
	Phone     string `validate:"omitempty,max=50"`
}

var (
	fieldValidator = validator.New()

	fieldLabels = map[string]string{
		"FirstName": "First name",
		"LastName":  "Last name",
		"Email":     "Email",
		"Phone":     "Phone",
	}
)

// ParseSubmission reads a JSON or multipart/form-data application body.
func ParseSubmission(r *http.Request, opts ParseOptions) (*Submission, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		sub *Submission
		err error
	)
	if mediaType == "multipart/form-data" {
		sub, err = parseMultipart(r, opts)
	} else {
		sub, err = parseJSON(r)
	}
	if err != nil {
		return nil, err
	}

	if err := sub.normalize(); err != nil {
		return nil, err
	}
	return sub, nil
}

type jsonSubmission struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone"`
	Website   string     `json:"website"`
	Responses []Response `json:"responses"`
}

func parseJSON(r *http.Request) (*Submission, error) {
	var body jsonSubmission
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if isTooLarge(err) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	sub := &Submission{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Phone:     body.Phone,
		Website:   body.Website,
		Responses: body.Responses,
		Files:     map[string]UploadedFile{},
	}
	return sub, nil
}

func parseMultipart(r *http.Request, opts ParseOptions) (*Submission, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	fields := map[string]string{}
	files := map[string]UploadedFile{}
	parts := 0

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if isTooLarge(err) {
				return nil, ErrBodyTooLarge
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		parts++

		name := part.FormName()
		if name == "" {
			part.Close()
			continue
		}

		if strings.HasPrefix(name, filePartPrefix) {
			questionID := strings.TrimPrefix(name, filePartPrefix)
			data, err := io.ReadAll(io.LimitReader(part, opts.MaxFileSize+1))
			part.Close()
			if err != nil {
				if isTooLarge(err) {
					return nil, ErrBodyTooLarge
				}
				return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
			}
			if part.FileName() == "" || len(data) == 0 || questionID == "" {
				continue
			}
			files[questionID] = UploadedFile{
				Data:         data,
				Filename:     part.FileName(),
				DeclaredType: part.Header.Get("Content-Type"),
			}
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, opts.MaxFieldSize+1))
		part.Close()
		if err != nil {
			if isTooLarge(err) {
				return nil, ErrBodyTooLarge
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		if int64(len(data)) > opts.MaxFieldSize {
			return nil, ErrFieldTooLarge
		}
		fields[name] = string(data)
	}

	if parts == 0 {
		return nil, ErrEmptyForm
	}

	sub := &Submission{
		FirstName: fields["firstName"],
		LastName:  fields["lastName"],
		Email:     fields["email"],
		Website:   fields["website"],
		Files:     files,
	}
	if phone, ok := fields["phone"]; ok {
		sub.Phone = &phone
	}

	if raw := strings.TrimSpace(fields["responses"]); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sub.Responses); err != nil {
			return nil, ErrInvalidResponses
		}
	}
	return sub, nil
}

// normalize trims applicant fields and checks them in form order.
func (s *Submission) normalize() error {
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = strings.TrimSpace(s.Email)
	if s.Phone != nil {
		phone := strings.TrimSpace(*s.Phone)
		if phone == "" {
			s.Phone = nil
		} else {
			s.Phone = &phone
		}
	}

	switch {
	case s.FirstName == "":
		return &MissingFieldError{Field: "First name"}
	case s.LastName == "":
		return &MissingFieldError{Field: "Last name"}
	case s.Email == "":
		return &MissingFieldError{Field: "Email"}
	}

	fields := applicantFields{FirstName: s.FirstName, LastName: s.LastName, Email: s.Email}
	if s.Phone != nil {
		fields.Phone = *s.Phone
	}
	if err := fieldValidator.Struct(fields); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &InvalidFieldError{Field: fieldLabels[verrs[0].StructField()]}
		}
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	for _, resp := range s.Responses {
		if resp.Value.Kind == 0 {
			return ErrInvalidResponses
		}
	}
	if s.Files == nil {
		s.Files = map[string]UploadedFile{}
	}
	return nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
