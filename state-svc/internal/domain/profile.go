package domain

type AddressLabel string

const (
	LabelHome  AddressLabel = "home"
	LabelWork  AddressLabel = "work"
	LabelOther AddressLabel = "other"
)

type Address struct {
	ID          string       `json:"id"`
	Label       AddressLabel `json:"label"`
	CustomLabel string       `json:"custom_label,omitempty"`
	FullAddress string       `json:"full_address"`
	Landmark    string       `json:"landmark,omitempty"`
	City        string       `json:"city"`
	Pincode     string       `json:"pincode"`
	IsDefault   bool         `json:"is_default"`
}

// DisplayLabel is the custom label for "other" addresses and the label itself otherwise.
func (a Address) DisplayLabel() string {
	if a.Label == LabelOther && a.CustomLabel != "" {
		return a.CustomLabel
	}
	return string(a.Label)
}

type AddressUpdate struct {
	Label       *AddressLabel `json:"label,omitempty"`
	CustomLabel *string       `json:"custom_label,omitempty"`
	FullAddress *string       `json:"full_address,omitempty"`
	Landmark    *string       `json:"landmark,omitempty"`
	City        *string       `json:"city,omitempty"`
	Pincode     *string       `json:"pincode,omitempty"`
	IsDefault   *bool         `json:"is_default,omitempty"`
}

// Merge applies every field except IsDefault, which only the store may change.
func (a Address) Merge(update AddressUpdate) Address {
	if update.Label != nil {
		a.Label = *update.Label
	}
	if update.CustomLabel != nil {
		a.CustomLabel = *update.CustomLabel
	}
	if update.FullAddress != nil {
		a.FullAddress = *update.FullAddress
	}
	if update.Landmark != nil {
		a.Landmark = *update.Landmark
	}
	if update.City != nil {
		a.City = *update.City
	}
	if update.Pincode != nil {
		a.Pincode = *update.Pincode
	}
	return a
}

type PaymentType string

const (
	PaymentUPI    PaymentType = "upi"
	PaymentCard   PaymentType = "card"
	PaymentWallet PaymentType = "wallet"
	PaymentCOD    PaymentType = "cod"
)

type PaymentMethod struct {
	ID        string      `json:"id"`
	Type      PaymentType `json:"type"`
	Name      string      `json:"name"`
	Details   string      `json:"details"`
	IsDefault bool        `json:"is_default"`
}

type PaymentMethodUpdate struct {
	Name      *string `json:"name,omitempty"`
	Details   *string `json:"details,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
}

func (p PaymentMethod) Merge(update PaymentMethodUpdate) PaymentMethod {
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Details != nil {
		p.Details = *update.Details
	}
	return p
}

type NotificationSettings struct {
	OrderUpdates bool `json:"order_updates"`
	Offers       bool `json:"offers"`
	Reminders    bool `json:"reminders"`
	PushEnabled  bool `json:"push_enabled"`
	Sound        bool `json:"sound"`
	Vibration    bool `json:"vibration"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		OrderUpdates: true,
		Offers:       true,
		Reminders:    true,
		PushEnabled:  true,
		Sound:        true,
		Vibration:    false,
	}
}

type NotificationSettingsUpdate struct {
	OrderUpdates *bool `json:"order_updates,omitempty"`
	Offers       *bool `json:"offers,omitempty"`
	Reminders    *bool `json:"reminders,omitempty"`
	PushEnabled  *bool `json:"push_enabled,omitempty"`
	Sound        *bool `json:"sound,omitempty"`
	Vibration    *bool `json:"vibration,omitempty"`
}

func (n NotificationSettings) Merge(update NotificationSettingsUpdate) NotificationSettings {
	mergeBool(&n.OrderUpdates, update.OrderUpdates)
	mergeBool(&n.Offers, update.Offers)
	mergeBool(&n.Reminders, update.Reminders)
	mergeBool(&n.PushEnabled, update.PushEnabled)
	mergeBool(&n.Sound, update.Sound)
	mergeBool(&n.Vibration, update.Vibration)
	return n
}

type AppSettings struct {
	Language    string `json:"language"`
	DarkMode    bool   `json:"dark_mode"`
	PrivacyMode bool   `json:"privacy_mode"`
}

func DefaultAppSettings() AppSettings {
	return AppSettings{Language: "en"}
}

type AppSettingsUpdate struct {
	Language    *string `json:"language,omitempty"`
	DarkMode    *bool   `json:"dark_mode,omitempty"`
	PrivacyMode *bool   `json:"privacy_mode,omitempty"`
}

func (a AppSettings) Merge(update AppSettingsUpdate) AppSettings {
	if update.Language != nil {
		a.Language = *update.Language
	}
	mergeBool(&a.DarkMode, update.DarkMode)
	mergeBool(&a.PrivacyMode, update.PrivacyMode)
	return a
}

func mergeBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
