package useragent

import "strings"

// Device types derived from the submitting client's User-Agent header.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

// Info is the derived classification stamped onto every stored response.
type Info struct {
	DeviceType string
	Browser    string
	OS         string
}

// Classify derives device type, browser and OS from a raw User-Agent string
// using case-insensitive substring matching. The checks are ordered: Chrome
// must be tested before Safari because Chrome's UA also contains "safari".
func Classify(userAgent string) Info {
	return Info{
		DeviceType: DeviceType(userAgent),
		Browser:    Browser(userAgent),
		OS:         OS(userAgent),
	}
}

func DeviceType(userAgent string) string {
	if userAgent == "" {
		return DeviceDesktop
	}

	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "android"), strings.Contains(ua, "iphone"):
		return DeviceMobile
	case strings.Contains(ua, "tablet"), strings.Contains(ua, "ipad"):
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}

func Browser(userAgent string) string {
	if userAgent == "" {
		return "Unknown"
	}

	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "chrome"):
		return "Chrome"
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "safari"):
		return "Safari"
	case strings.Contains(ua, "edge"):
		return "Edge"
	case strings.Contains(ua, "opera"):
		return "Opera"
	default:
		return "Unknown"
	}
}

func OS(userAgent string) string {
	if userAgent == "" {
		return "Unknown"
	}

	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "mac"):
		return "macOS"
	case strings.Contains(ua, "linux"):
		return "Linux"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "ios"), strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"):
		return "iOS"
	default:
		return "Unknown"
	}
}
