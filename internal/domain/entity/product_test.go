package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractChannelID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/channel/UC123abc":    "UC123abc",
		"https://youtube.com/@cookingwithmate":        "@cookingwithmate",
		"youtube.com/c/SomeName/videos":               "SomeName",
		"https://m.youtube.com/user/legacyname":       "legacyname",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ": "",
		"https://example.com/channel/UC123":           "",
		"":                                            "",
	}
	for link, want := range cases {
		assert.Equal(t, want, ExtractChannelID(link), link)
	}
}

func TestPrimaryImage(t *testing.T) {
	p := &Product{ImageURLs: []string{"a.png", "b.png"}}
	assert.Equal(t, "a.png", p.PrimaryImage())

	p.ChannelLogo = "logo.png"
	assert.Equal(t, "logo.png", p.PrimaryImage())

	assert.Equal(t, "", (&Product{}).PrimaryImage())
}

func TestDataComplete(t *testing.T) {
	subs := int64(1200)
	p := &Product{DisplayName: "Octopus", ChannelLogo: "logo.png", Subscribers: &subs}
	assert.True(t, p.DataComplete())

	p.Subscribers = nil
	assert.False(t, p.DataComplete())
}

func TestSellerName(t *testing.T) {
	assert.Equal(t, "seller", (&Product{UserEmail: "seller@example.com"}).SellerName())
	assert.Equal(t, "Seller", (&Product{}).SellerName())
}

func TestParseDescription(t *testing.T) {
	text := "Great cooking channel. Monetization: AdSense Ways of promotion: Shorts " +
		"Sources of expense: editing Sources of income: ads To support the channel, you need: 2h a day " +
		"Content: recipes $120 income (month) $30 expense (month)"

	d := ParseDescription(text)

	assert.Equal(t, "Great cooking channel.", d.Summary)
	assert.Equal(t, "AdSense", d.Monetization)
	assert.Equal(t, "Shorts", d.Promotion)
	assert.Equal(t, "editing", d.ExpenseSources)
	assert.Equal(t, "ads", d.IncomeSources)
	assert.Equal(t, "2h a day", d.SupportNeeds)
	assert.Equal(t, "recipes", d.Content)
	assert.Equal(t, "120", d.MonthlyIncome)
	assert.Equal(t, "30", d.MonthlyExpenses)
}

func TestParseDescriptionPlain(t *testing.T) {
	d := ParseDescription("  Just a channel  ")
	assert.Equal(t, ProductDescription{Summary: "Just a channel"}, d)
}
