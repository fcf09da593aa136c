package models

// SummaryStatus is the approval state of one generated summary. The
// only defined transitions are Pending -> Approved and
// Pending -> Rejected; both are terminal.
type SummaryStatus string

const (
	SummaryPending  SummaryStatus = "pending"
	SummaryApproved SummaryStatus = "approved"
	SummaryRejected SummaryStatus = "rejected"
)

// Summary is one AI-generated short text for a selected article,
// positionally correlated to the curation selection order. PostURL is
// filled on approval: either the handle returned by the publish sink
// or a locally composed share link when the sink is unavailable.
type Summary struct {
	Title      string        `json:"title"`
	Source     string        `json:"source"`
	ArticleURL string        `json:"articleUrl"`
	Text       string        `json:"summaryText"`
	Status     SummaryStatus `json:"status"`
	PostURL    string        `json:"postUrl,omitempty"`
}
