package entity

import (
	"net/url"
	"strings"
	"time"
)

const PlatformYouTube = "YouTube"

type Product struct {
	ID              string    `json:"id" firestore:"-"`
	DisplayName     string    `json:"display_name" firestore:"displayName"`
	Platform        string    `json:"platform" firestore:"platform"`
	Price           float64   `json:"price" firestore:"price"`
	Category        string    `json:"category" firestore:"category"`
	AccountLink     string    `json:"account_link" firestore:"accountLink"`
	ChannelID       string    `json:"channel_id,omitempty" firestore:"channelId,omitempty"`
	ChannelLogo     string    `json:"channel_logo,omitempty" firestore:"channelLogo,omitempty"`
	Subscribers     *int64    `json:"subscribers,omitempty" firestore:"subscribers,omitempty"`
	MonthlyIncome   float64   `json:"monthly_income,omitempty" firestore:"monthlyIncome,omitempty"`
	MonthlyExpenses float64   `json:"monthly_expenses,omitempty" firestore:"monthlyExpenses,omitempty"`
	ImageURLs       []string  `json:"image_urls" firestore:"imageUrls"`
	Description     string    `json:"description" firestore:"description"`
	UserID          string    `json:"user_id" firestore:"userId"`
	UserEmail       string    `json:"user_email" firestore:"userEmail"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
}

// FirstImage returns the first listing image or "".
func (p *Product) FirstImage() string {
	if len(p.ImageURLs) > 0 {
		return p.ImageURLs[0]
	}
	return ""
}

// PrimaryImage prefers the channel logo over the listing images.
func (p *Product) PrimaryImage() string {
	if p.ChannelLogo != "" {
		return p.ChannelLogo
	}
	return p.FirstImage()
}

// SellerName is the public handle of the owner: the local part of the email.
func (p *Product) SellerName() string {
	if name := EmailLocalPart(p.UserEmail); name != "" {
		return name
	}
	return "Seller"
}

// DataComplete reports whether the listing has enough channel data to render
// a full card: an image, a subscriber count and a name.
func (p *Product) DataComplete() bool {
	return p.PrimaryImage() != "" && p.Subscribers != nil && p.DisplayName != ""
}

func EmailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// ExtractChannelID pulls a YouTube channel identifier out of an account link.
// Supported forms: /channel/<id>, /@handle, /c/<name>, /user/<name>.
func ExtractChannelID(accountLink string) string {
	link := strings.TrimSpace(accountLink)
	if link == "" {
		return ""
	}
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	if host != "youtube.com" {
		return ""
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(segments[0], "@"):
		return segments[0]
	case (segments[0] == "channel" || segments[0] == "c" || segments[0] == "user") && len(segments) > 1:
		return segments[1]
	}
	return ""
}

// ProductFilter narrows product listings. Empty fields are ignored.
type ProductFilter struct {
	Category string
	Platform string
	UserID   string
}

type ProductDescription struct {
	Summary         string `json:"summary,omitempty"`
	Monetization    string `json:"monetization,omitempty"`
	Promotion       string `json:"promotion,omitempty"`
	ExpenseSources  string `json:"expense_sources,omitempty"`
	IncomeSources   string `json:"income_sources,omitempty"`
	SupportNeeds    string `json:"support_needs,omitempty"`
	Content         string `json:"content,omitempty"`
	MonthlyIncome   string `json:"monthly_income,omitempty"`
	MonthlyExpenses string `json:"monthly_expenses,omitempty"`
}

var descriptionLabels = []string{
	"Monetization:",
	"Ways of promotion:",
	"Sources of expense:",
	"Sources of income:",
	"To support the channel, you need:",
	"Content:",
}

// ParseDescription splits the seller's free-text description into the
// labelled sections the listing form produces. A description without a
// "Monetization:" label is kept whole as the summary.
func ParseDescription(text string) ProductDescription {
	if !strings.Contains(text, "Monetization:") {
		return ProductDescription{Summary: strings.TrimSpace(text)}
	}

	d := ProductDescription{
		Summary: strings.TrimSpace(strings.SplitN(text, "Monetization:", 2)[0]),
	}
	fields := []*string{&d.Monetization, &d.Promotion, &d.ExpenseSources, &d.IncomeSources, &d.SupportNeeds, &d.Content}
	for i, label := range descriptionLabels {
		idx := strings.Index(text, label)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(label):]
		end := len(rest)
		if i+1 < len(descriptionLabels) {
			if next := strings.Index(rest, descriptionLabels[i+1]); next >= 0 {
				end = next
			}
		} else if dollar := strings.Index(rest, "$"); dollar >= 0 {
			end = dollar
		}
		*fields[i] = strings.TrimSpace(rest[:end])
	}

	d.MonthlyIncome = amountBefore(text, "income (month)")
	d.MonthlyExpenses = amountBefore(text, "expense (month)")
	return d
}

// amountBefore returns the dollar amount written right before marker,
// as in "$120 income (month)".
func amountBefore(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}
	head := text[:idx]
	dollar := strings.LastIndex(head, "$")
	if dollar < 0 {
		return ""
	}
	return strings.TrimSpace(head[dollar+1:])
}
