package quoteform

import (
	"strings"

	"github.com/5280sourcegroup/website/internal/models"
	"github.com/go-playground/validator/v10"
)

// Form field names. They double as HTML input names and JSON keys.
const (
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldCompanyName = "companyName"
	FieldJobTitle    = "jobTitle"
	FieldIndustry    = "industry"
	FieldAddress     = "address"
	FieldMessage     = "message"
)

// Rule is one constraint on a field: a validator tag and the message shown when it fails.
type Rule struct {
	Tag     string
	Message string
}

// FieldSpec describes one form field. Rules are evaluated in order against the trimmed
// value; the first failing rule produces the field's error.
type FieldSpec struct {
	Name        string
	Label       string
	Placeholder string
	InputType   string
	Multiline   bool
	Optional    bool
	Rules       []Rule
}

// Section groups fields under a heading on the rendered form.
type Section struct {
	Title  string
	Fields []FieldSpec
}

// Sections is the quote request schema. Both the HTML form and the JSON API validate
// against it.
var Sections = []Section{
	{
		Title: "Personal Information",
		Fields: []FieldSpec{
			{
				Name: FieldFirstName, Label: "First Name", Placeholder: "John", InputType: "text",
				Rules: []Rule{
					{Tag: "required", Message: "First name is required"},
					{Tag: "max=50", Message: "First name is too long"},
				},
			},
			{
				Name: FieldLastName, Label: "Last Name", Placeholder: "Doe", InputType: "text",
				Rules: []Rule{
					{Tag: "required", Message: "Last name is required"},
					{Tag: "max=50", Message: "Last name is too long"},
				},
			},
			{
				Name: FieldEmail, Label: "Email Address", Placeholder: "john@company.com", InputType: "email",
				Rules: []Rule{
					{Tag: "required", Message: "Please enter a valid email address"},
					{Tag: "email", Message: "Please enter a valid email address"},
					{Tag: "max=100", Message: "Email is too long"},
				},
			},
			{
				Name: FieldPhone, Label: "Phone Number", Placeholder: "(555) 123-4567", InputType: "tel",
				Rules: []Rule{
					{Tag: "min=10", Message: "Please enter a valid phone number"},
					{Tag: "max=20", Message: "Phone number is too long"},
				},
			},
		},
	},
	{
		Title: "Company Information",
		Fields: []FieldSpec{
			{
				Name: FieldCompanyName, Label: "Company Name", Placeholder: "ABC Construction", InputType: "text",
				Rules: []Rule{
					{Tag: "required", Message: "Company name is required"},
					{Tag: "max=100", Message: "Company name is too long"},
				},
			},
			{
				Name: FieldJobTitle, Label: "Job Title", Placeholder: "Project Manager", InputType: "text",
				Rules: []Rule{
					{Tag: "required", Message: "Job title is required"},
					{Tag: "max=50", Message: "Job title is too long"},
				},
			},
			{
				Name: FieldIndustry, Label: "Industry", Placeholder: "Commercial Construction", InputType: "text",
				Rules: []Rule{
					{Tag: "required", Message: "Industry is required"},
					{Tag: "max=50", Message: "Industry is too long"},
				},
			},
			{
				Name: FieldAddress, Label: "Company Address", Placeholder: "123 Main St, Denver, CO 80202", InputType: "text",
				Optional: true,
				Rules: []Rule{
					{Tag: "max=200", Message: "Address is too long"},
				},
			},
		},
	},
	{
		Title: "Project Details",
		Fields: []FieldSpec{
			{
				Name: FieldMessage, Label: "Message / Materials Needed",
				Placeholder: "Please describe your project or list the materials you need...",
				Multiline:   true,
				Rules: []Rule{
					{Tag: "min=10", Message: "Please describe your project or materials needed"},
					{Tag: "max=2000", Message: "Message is too long"},
				},
			},
		},
	},
}

var (
	validate = validator.New()
	specs    = indexSpecs()
)

func indexSpecs() map[string]FieldSpec {
	index := make(map[string]FieldSpec)
	for _, section := range Sections {
		for _, spec := range section.Fields {
			index[spec.Name] = spec
		}
	}
	return index
}

// FieldNames returns every field name in display order.
func FieldNames() []string {
	names := make([]string, 0, len(specs))
	for _, section := range Sections {
		for _, spec := range section.Fields {
			names = append(names, spec.Name)
		}
	}
	return names
}

// Spec returns the field spec for name.
func Spec(name string) (FieldSpec, bool) {
	spec, ok := specs[name]
	return spec, ok
}

// Values holds raw form input keyed by field name.
type Values map[string]string

// FieldErrors maps a field name to its single error message.
type FieldErrors map[string]string

// Normalized returns a copy holding only known fields, with whitespace trimmed.
func (v Values) Normalized() Values {
	out := make(Values, len(specs))
	for name := range specs {
		out[name] = strings.TrimSpace(v[name])
	}
	return out
}

// QuoteRequest converts normalized values into the quote request model.
func (v Values) QuoteRequest() *models.QuoteRequest {
	n := v.Normalized()
	return &models.QuoteRequest{
		FirstName:   n[FieldFirstName],
		LastName:    n[FieldLastName],
		Email:       n[FieldEmail],
		Phone:       n[FieldPhone],
		CompanyName: n[FieldCompanyName],
		JobTitle:    n[FieldJobTitle],
		Industry:    n[FieldIndustry],
		Address:     n[FieldAddress],
		Message:     n[FieldMessage],
	}
}

// ValuesFrom is the inverse of Values.QuoteRequest.
func ValuesFrom(req *models.QuoteRequest) Values {
	return Values{
		FieldFirstName:   req.FirstName,
		FieldLastName:    req.LastName,
		FieldEmail:       req.Email,
		FieldPhone:       req.Phone,
		FieldCompanyName: req.CompanyName,
		FieldJobTitle:    req.JobTitle,
		FieldIndustry:    req.Industry,
		FieldAddress:     req.Address,
		FieldMessage:     req.Message,
	}
}

// ValidateField checks one field and returns its error message, or "" when valid.
// Unknown fields are always valid.
func ValidateField(name, value string) string {
	spec, ok := specs[name]
	if !ok {
		return ""
	}

	value = strings.TrimSpace(value)
	if spec.Optional && value == "" {
		return ""
	}

	for _, rule := range spec.Rules {
		if err := validate.Var(value, rule.Tag); err != nil {
			return rule.Message
		}
	}
	return ""
}

// Validate checks every field and returns one message per invalid field.
// The result is empty when the request may be submitted.
func Validate(values Values) FieldErrors {
	errs := FieldErrors{}
	for name := range specs {
		if msg := ValidateField(name, values[name]); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// ValidateRequest validates an already-built quote request, e.g. one decoded from JSON.
func ValidateRequest(req *models.QuoteRequest) FieldErrors {
	return Validate(ValuesFrom(req))
}
