package discord

import "time"

const (
	defaultBaseURL = "https://discord.com/api/webhooks"

	ColorBlue   = 3447003
	ColorGreen  = 3066993
	ColorYellow = 16776960
	ColorRed    = 15158332

	ColorInfo    = ColorBlue
	ColorSuccess = ColorGreen
	ColorWarning = ColorYellow
	ColorError   = ColorRed

	MaxEmbedLength    = 6000
	MaxTitleLen       = 256
	MaxDescriptionLen = 4096
	MaxFieldValueLen  = 1024

	// MaxFileSize is the attachment limit for webhooks without a boosted server.
	MaxFileSize = 8 << 20
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultRetryCount = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultUsername   = "Anomaly Detector"
	UserAgent         = "Anomaly-Detector/1.0"
)
