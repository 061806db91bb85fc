package model

// PageInfo describes the page a content script is attached to.
type PageInfo struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Selection string `json:"selection"`
}
