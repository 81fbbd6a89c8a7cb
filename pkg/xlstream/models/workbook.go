package models

// ExternalLink is a link target declared by an external-link relationship part.
type ExternalLink struct {
	// ID is the number of the externalLinkN part the relationship belongs to.
	ID int `json:"id"`
	// Target is the declared relationship target, usually a workbook path.
	Target string `json:"target"`
}
