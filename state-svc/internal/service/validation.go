package service

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"budget-bites/state-svc/internal/domain"
)

var (
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	upiPattern     = regexp.MustCompile(`^[\w.-]+@[\w]+$`)
	cardPattern    = regexp.MustCompile(`^\d{16}$`)
	expiryPattern  = regexp.MustCompile(`^\d{2}/\d{2}$`)
)

var TicketCategories = []string{
	"Order Issue",
	"Payment Problem",
	"Refund Request",
	"Account Issue",
	"App Bug",
	"Suggestion",
	"Other",
}

// ValidationErrors maps a form field to a user-facing message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

var messages = map[string]string{
	"label.required":           "Label is required",
	"label.oneof":              "Label must be home, work or other",
	"custom_label.required_if": "Label is required",
	"full_address.required":    "Address is required",
	"city.required":            "City is required",
	"pincode.required":         "Pincode is required",
	"pincode.pincode":          "Enter a valid 6-digit pincode",

	"type.required":           "Payment type is required",
	"type.oneof":              "Payment type must be upi, card, wallet or cod",
	"details.required":        "UPI ID is required",
	"details.upi":             "Enter a valid UPI ID",
	"details.wallet_details":  "Phone/Email is required",
	"card_number.required":    "Card number is required",
	"card_number.card_number": "Enter a valid 16-digit card number",
	"expiry.required":         "Expiry is required",
	"expiry.expiry":           "Use MM/YY format",
	"name.card_name":          "Name on card is required",
	"name.wallet_name":        "Wallet name is required",

	"name.required":  "Name is required",
	"name.min":       "Name must be at least 2 characters",
	"email.required": "Email is required",
	"email.email":    "Please enter a valid email",
	"phone.required": "Phone number is required",
	"phone.phone":    "Please enter a valid phone number",

	"category.required":        "Please select a category",
	"category.ticket_category": "Please select a category",
	"message.required":         "Please describe your issue",
}

type AddressForm struct {
	Label       domain.AddressLabel `json:"label" validate:"required,oneof=home work other"`
	CustomLabel string              `json:"custom_label" validate:"required_if=Label other"`
	FullAddress string              `json:"full_address" validate:"required"`
	Landmark    string              `json:"landmark"`
	City        string              `json:"city" validate:"required"`
	Pincode     string              `json:"pincode" validate:"required,pincode"`
	IsDefault   bool                `json:"is_default"`
}

func (f *AddressForm) normalize() {
	f.CustomLabel = strings.TrimSpace(f.CustomLabel)
	f.FullAddress = strings.TrimSpace(f.FullAddress)
	f.Landmark = strings.TrimSpace(f.Landmark)
	f.City = strings.TrimSpace(f.City)
	f.Pincode = strings.TrimSpace(f.Pincode)
	if f.Label != domain.LabelOther {
		f.CustomLabel = ""
	}
}

func (f AddressForm) Address(id string) domain.Address {
	return domain.Address{
		ID:          id,
		Label:       f.Label,
		CustomLabel: f.CustomLabel,
		FullAddress: f.FullAddress,
		Landmark:    f.Landmark,
		City:        f.City,
		Pincode:     f.Pincode,
		IsDefault:   f.IsDefault,
	}
}

func addressFormOf(a domain.Address) AddressForm {
	return AddressForm{
		Label:       a.Label,
		CustomLabel: a.CustomLabel,
		FullAddress: a.FullAddress,
		Landmark:    a.Landmark,
		City:        a.City,
		Pincode:     a.Pincode,
		IsDefault:   a.IsDefault,
	}
}

type PaymentForm struct {
	Type       domain.PaymentType `json:"type" validate:"required,oneof=upi card wallet cod"`
	Name       string             `json:"name"`
	Details    string             `json:"details"`
	CardNumber string             `json:"card_number"`
	Expiry     string             `json:"expiry"`
	IsDefault  bool               `json:"is_default"`
}

func (f *PaymentForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Details = strings.TrimSpace(f.Details)
	f.CardNumber = strings.ReplaceAll(f.CardNumber, " ", "")
	f.Expiry = strings.TrimSpace(f.Expiry)
}

// PaymentMethod never keeps the full card number: cards are stored by their last four digits.
func (f PaymentForm) PaymentMethod(id string) domain.PaymentMethod {
	pm := domain.PaymentMethod{
		ID:        id,
		Type:      f.Type,
		Name:      f.Name,
		Details:   f.Details,
		IsDefault: f.IsDefault,
	}
	switch f.Type {
	case domain.PaymentCard:
		pm.Name = f.Name + " Card"
		pm.Details = "•••• •••• •••• " + f.CardNumber[len(f.CardNumber)-4:]
	case domain.PaymentCOD:
		if pm.Name == "" {
			pm.Name = "Cash on Delivery"
		}
	}
	return pm
}

type ProfileForm struct {
	Name   string `json:"name" validate:"required,min=2"`
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"required,phone"`
	Avatar string `json:"avatar"`
}

func (f *ProfileForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Avatar = strings.TrimSpace(f.Avatar)
}

type TicketForm struct {
	Category string `json:"category" validate:"required,ticket_category"`
	Message  string `json:"message" validate:"required"`
	OrderID  string `json:"order_id"`
}

func (f *TicketForm) normalize() {
	f.Message = strings.TrimSpace(f.Message)
	f.OrderID = strings.TrimSpace(f.OrderID)
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	rules := map[string]validator.Func{
		"pincode": func(fl validator.FieldLevel) bool {
			return pincodePattern.MatchString(fl.Field().String())
		},
		"phone": func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(strings.ReplaceAll(fl.Field().String(), " ", ""))
		},
		"ticket_category": func(fl validator.FieldLevel) bool {
			for _, c := range TicketCategories {
				if c == fl.Field().String() {
					return true
				}
			}
			return false
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %q validation: %v", tag, err))
		}
	}
	v.RegisterStructValidation(validatePaymentForm, PaymentForm{})
	return &Validator{validate: v}
}

func validatePaymentForm(sl validator.StructLevel) {
	f := sl.Current().Interface().(PaymentForm)
	switch f.Type {
	case domain.PaymentUPI:
		if f.Details == "" {
			sl.ReportError(f.Details, "details", "Details", "required", "")
		} else if !upiPattern.MatchString(f.Details) {
			sl.ReportError(f.Details, "details", "Details", "upi", "")
		}
		if f.Name == "" {
			sl.ReportError(f.Name, "name", "Name", "required", "")
		}
	case domain.PaymentCard:
		if f.CardNumber == "" {
			sl.ReportError(f.CardNumber, "card_number", "CardNumber", "required", "")
		} else if !cardPattern.MatchString(f.CardNumber) {
			sl.ReportError(f.CardNumber, "card_number", "CardNumber", "card_number", "")
		}
		if f.Expiry == "" {
			sl.ReportError(f.Expiry, "expiry", "Expiry", "required", "")
		} else if !expiryPattern.MatchString(f.Expiry) {
			sl.ReportError(f.Expiry, "expiry", "Expiry", "expiry", "")
		}
		if f.Name == "" {
			sl.ReportError(f.Name, "name", "Name", "card_name", "")
		}
	case domain.PaymentWallet:
		if f.Name == "" {
			sl.ReportError(f.Name, "name", "Name", "wallet_name", "")
		}
		if f.Details == "" {
			sl.ReportError(f.Details, "details", "Details", "wallet_details", "")
		}
	}
}

func (v *Validator) Address(f *AddressForm) error {
	f.normalize()
	return v.check(f)
}

func (v *Validator) Payment(f *PaymentForm) error {
	f.normalize()
	return v.check(f)
}

func (v *Validator) Profile(f *ProfileForm) error {
	f.normalize()
	return v.check(f)
}

func (v *Validator) Ticket(f *TicketForm) error {
	f.normalize()
	return v.check(f)
}

func (v *Validator) check(form interface{}) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := ValidationErrors{}
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out[fe.Field()] = msg
	}
	return out
}
