package models

// Badge represents a single badge found in a README.
type Badge struct {
	AltText    string `json:"alt_text"`
	ImageURL   string `json:"image_url"`
	TargetURL  string `json:"target_url"`
	HostImage  string `json:"host_image"`
	HostTarget string `json:"host_target"`
}

// EndpointBadge is a shields.io endpoint badge resolved to the raw file it
// renders.
type EndpointBadge struct {
	Badge
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Branch string `json:"branch"`
	Path   string `json:"path"`
}
