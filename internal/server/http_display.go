package server

import "fmt"

// displayServerInfo prints the endpoint listing and the effective
// auth, size, and rate limit settings at startup.
func (s *Server) displayServerInfo() {
	fmt.Print(`Available endpoints:
  GET  /health      - Health check
  GET  /stats       - Server statistics
  POST /match       - Score resume against job (local)
  POST /report      - Full ATS report (local)
  POST /questions   - Suggest interview questions (local)
  POST /tailor      - Tailor resume (AI)
  POST /coverletter - Generate cover letter (AI)
  POST /answer      - Answer application question (AI)
`)

	switch {
	case len(s.APIKeys) > 0:
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Println("Include 'X-API-Key: <your-key>' header in requests to POST endpoints")
	default:
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}

	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n",
			s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}

	if s.RateLimit == nil || !s.RateLimit.Enabled {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
		return
	}
	fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
		s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	if s.RateLimit.ByAPIKey {
		fmt.Println("  - Per API key rate limiting enabled")
	}
	if s.RateLimit.ByIP {
		fmt.Println("  - Per IP address rate limiting enabled")
	}
}
