package feed

// Category values for the static feed catalog.
const (
	CategoryPolitics      = "Politics"
	CategoryEntertainment = "Entertainment"
	CategorySports        = "Sports"
	CategoryEconomy       = "Economy"
	CategoryIndia         = "India"
	CategoryTech          = "Tech"
	CategoryWorld         = "World"
	CategoryGeneral       = "General"
)

// Descriptor is one statically configured RSS/Atom source.
type Descriptor struct {
	URL      string `json:"url"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// defaults is the built-in source catalog. Read-only at runtime; the
// user-managed custom API list lives in the sources repository instead.
var defaults = []Descriptor{
	{URL: "https://feeds.bbci.co.uk/news/world/rss.xml", Label: "BBC World", Category: CategoryWorld},
	{URL: "https://feeds.bbci.co.uk/news/politics/rss.xml", Label: "BBC Politics", Category: CategoryPolitics},
	{URL: "https://feeds.bbci.co.uk/news/technology/rss.xml", Label: "BBC Tech", Category: CategoryTech},
	{URL: "https://feeds.bbci.co.uk/news/business/rss.xml", Label: "BBC Business", Category: CategoryEconomy},
	{URL: "https://feeds.bbci.co.uk/news/entertainment_and_arts/rss.xml", Label: "BBC Entertainment", Category: CategoryEntertainment},
	{URL: "https://www.theguardian.com/world/rss", Label: "Guardian World", Category: CategoryWorld},
	{URL: "https://www.theguardian.com/politics/rss", Label: "Guardian Politics", Category: CategoryPolitics},
	{URL: "https://www.theguardian.com/uk/technology/rss", Label: "Guardian Tech", Category: CategoryTech},
	{URL: "https://www.theguardian.com/uk/sport/rss", Label: "Guardian Sport", Category: CategorySports},
	{URL: "https://timesofindia.indiatimes.com/rssfeeds/-2128936835.cms", Label: "Times of India", Category: CategoryIndia},
	{URL: "https://www.thehindu.com/news/national/feeder/default.rss", Label: "The Hindu National", Category: CategoryIndia},
	{URL: "https://www.espn.com/espn/rss/news", Label: "ESPN", Category: CategorySports},
	{URL: "https://feeds.skynews.com/feeds/rss/entertainment.xml", Label: "Sky Entertainment", Category: CategoryEntertainment},
	{URL: "https://www.cnbc.com/id/20910258/device/rss/rss.html", Label: "CNBC Economy", Category: CategoryEconomy},
	{URL: "https://feeds.arstechnica.com/arstechnica/index", Label: "Ars Technica", Category: CategoryTech},
	{URL: "https://feeds.skynews.com/feeds/rss/home.xml", Label: "Sky News", Category: CategoryGeneral},
}

// Defaults returns the static feed catalog.
func Defaults() []Descriptor {
	out := make([]Descriptor, len(defaults))
	copy(out, defaults)
	return out
}

// ByCategory filters the catalog down to one category.
func ByCategory(category string) []Descriptor {
	var out []Descriptor
	for _, d := range defaults {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the fixed category enumeration.
func Categories() []string {
	return []string{
		CategoryPolitics,
		CategoryEntertainment,
		CategorySports,
		CategoryEconomy,
		CategoryIndia,
		CategoryTech,
		CategoryWorld,
		CategoryGeneral,
	}
}
