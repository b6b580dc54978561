package middlewares

import "time"

// ModerateRateLimiterConfig for normal API endpoints
func ModerateRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 60,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 5,
	}
}

// LenientRateLimiterConfig for read-heavy endpoints
func LenientRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 200,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 2,
	}
}

// MessageSendingRateLimiterConfig for chat message posting
func MessageSendingRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 30,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 10,
	}
}

// UploadRateLimiterConfig for image uploads
func UploadRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerWindow: 15,
		Window:            time.Minute,
		BlockDuration:     time.Minute * 10,
	}
}
