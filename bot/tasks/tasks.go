// Package tasks holds the scheduled background jobs.
package tasks

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// KeepAlive pings the bot's own HTTP endpoint so free-tier hosts do
// not idle the process out.
func KeepAlive(url string) func() {
	client := &http.Client{Timeout: 10 * time.Second}

	return func() {
		resp, err := client.Get(url)
		if err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Keep-alive ping failed")
			return
		}
		resp.Body.Close()
		log.Debug().Int("status", resp.StatusCode).Msg("Keep-alive ping")
	}
}
