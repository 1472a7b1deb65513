package types

// Attachment is an uploaded file captured from the multipart chat form.
type Attachment struct {
	Filename string
	Data     []byte
}

// Location is a recognized landmark with its derived map link.
type Location struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	GoogleMapURL string  `json:"google_map_url"`
}

// TourDetailItem is one matched tour in a FAQ reply, with the destination
// text already localized for the requesting session.
type TourDetailItem struct {
	ID      int    `json:"id"`
	Details string `json:"details"`
}

// ChatResponse is the composite reply for one chat turn. Response is
// always populated; every other field appears only when its branch ran.
// All textual fields are expressed in the session's preferred language.
type ChatResponse struct {
	Response           string           `json:"response"`
	OCRResponse        string           `json:"ocr_response,omitempty"`
	LocationResponse   *Location        `json:"location_response,omitempty"`
	TourDetail         []TourDetailItem `json:"tour_detail,omitempty"`
	NoTourFoundMessage string           `json:"no_tour_found_message,omitempty"`
	ClickPrompt        string           `json:"click_prompt,omitempty"`
}
