package ambassadors

import (
	"time"

	"github.com/daybreak101/ambassador/pkg/db/models"
)

// AmbassadorInput carries the mutable fields of an ambassador as sent by the admin UI.
// Absent fields stay nil; unknown fields are ignored by the decoder.
type AmbassadorInput struct {
	Title     *string `json:"title" validate:"required,max=511,ambassador_name"`
	Email     *string `json:"email" validate:"required,max=511,email"`
	Phone     *string `json:"phone" validate:"required,max=511,ambassador_phone"`
	Plushie   *string `json:"plushie" validate:"required,min=1,max=511"`
	Instagram *string `json:"instagram" validate:"omitempty,max=511,instagram_url"`
	Twitter   *string `json:"twitter" validate:"omitempty,max=511,twitter_url"`
	Tiktok    *string `json:"tiktok" validate:"omitempty,max=511,tiktok_url"`
	Facebook  *string `json:"facebook" validate:"omitempty,max=511,facebook_url"`
	Youtube   *string `json:"youtube" validate:"omitempty,max=511,youtube_url"`
	Birth     *string `json:"birth" validate:"omitempty,max=511"`
	Discovery *string `json:"discovery" validate:"omitempty,max=511"`
	Hobbies   *string `json:"hobbies" validate:"omitempty,max=511"`
	Bio       *string `json:"bio" validate:"omitempty,max=1023"`
	IsActive  *bool   `json:"isActive"`
}

// MissingRequired returns the JSON names of required fields that are nil.
func (in AmbassadorInput) MissingRequired() []string {
	var missing []string
	if in.Title == nil {
		missing = append(missing, "title")
	}
	if in.Email == nil {
		missing = append(missing, "email")
	}
	if in.Phone == nil {
		missing = append(missing, "phone")
	}
	if in.Plushie == nil {
		missing = append(missing, "plushie")
	}
	return missing
}

// columns maps the input onto the 14 mutable columns. created_at is never named.
func (in AmbassadorInput) columns() map[string]any {
	return map[string]any{
		"title":     in.Title,
		"email":     in.Email,
		"phone":     in.Phone,
		"plushie":   in.Plushie,
		"instagram": in.Instagram,
		"twitter":   in.Twitter,
		"tiktok":    in.Tiktok,
		"facebook":  in.Facebook,
		"youtube":   in.Youtube,
		"birth":     in.Birth,
		"discovery": in.Discovery,
		"hobbies":   in.Hobbies,
		"bio":       in.Bio,
		"is_active": in.IsActive,
	}
}

// CustomerSummary is attached by the customer enricher when the ambassador's email
// matches a shop customer.
type CustomerSummary struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	NumberOfOrders string `json:"numberOfOrders"`
	AmountSpent    string `json:"amountSpent"`
	CurrencyCode   string `json:"currencyCode"`
}

// AmbassadorDTO is the API representation of a stored ambassador.
type AmbassadorDTO struct {
	ID         uint             `json:"id"`
	ShopDomain string           `json:"shopDomain"`
	Title      string           `json:"title"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone"`
	Plushie    string           `json:"plushie"`
	Instagram  *string          `json:"instagram"`
	Twitter    *string          `json:"twitter"`
	Tiktok     *string          `json:"tiktok"`
	Facebook   *string          `json:"facebook"`
	Youtube    *string          `json:"youtube"`
	Birth      *string          `json:"birth"`
	Discovery  *string          `json:"discovery"`
	Hobbies    *string          `json:"hobbies"`
	Bio        *string          `json:"bio"`
	CreatedAt  time.Time        `json:"createdAt"`
	IsActive   bool             `json:"isActive"`
	Customer   *CustomerSummary `json:"customer,omitempty"`
}

// FromModel maps the persisted ambassador into a DTO.
func FromModel(m *models.Ambassador) *AmbassadorDTO {
	if m == nil {
		return nil
	}
	return &AmbassadorDTO{
		ID:         m.ID,
		ShopDomain: m.ShopDomain,
		Title:      m.Title,
		Email:      m.Email,
		Phone:      m.Phone,
		Plushie:    m.Plushie,
		Instagram:  m.Instagram,
		Twitter:    m.Twitter,
		Tiktok:     m.Tiktok,
		Facebook:   m.Facebook,
		Youtube:    m.Youtube,
		Birth:      m.Birth,
		Discovery:  m.Discovery,
		Hobbies:    m.Hobbies,
		Bio:        m.Bio,
		CreatedAt:  m.CreatedAt,
		IsActive:   m.IsActive,
	}
}

func fromModels(rows []models.Ambassador) []AmbassadorDTO {
	out := make([]AmbassadorDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
