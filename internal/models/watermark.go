package models

// NoTimestamp is the time value that suppresses date, clock and weekday.
const NoTimestamp = "@NULL@"

const (
	DefaultOriginName = "old_version_shortcut.png"
	DefaultOpacity    = 16
)

// WatermarkRequest is one watermark job as received from a caller.
type WatermarkRequest struct {
	ImageURL   string `json:"url"`
	Text       string `json:"text"`
	Time       string `json:"time"` // epoch millis or NoTimestamp
	Direction  string `json:"direction"`
	TenantKey  string `json:"tenantKey"`
	OriginName string `json:"origin_name"`
	Opacity    int    `json:"opacity"`
}

// WatermarkResult describes an uploaded watermarked image.
type WatermarkResult struct {
	ImageURL string `json:"imageURL"`
	FileName string `json:"fileName"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// WatermarkResponse is the body of GET /addWatermark. Failures carry only
// Suc=false.
type WatermarkResponse struct {
	ImageURL string `json:"imageURL,omitempty"`
	FileName string `json:"fileName,omitempty"`
	Suc      bool   `json:"suc"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}
