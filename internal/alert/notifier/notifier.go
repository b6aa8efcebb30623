// Package notifier adapts the outbound transports to alert.Notifier.
package notifier

import (
	"strings"
)

const (
	ChannelEmail   = "email"
	ChannelDiscord = "discord"
	ChannelRedis   = "redis"
)

// recipients splits a comma separated address list.
func recipients(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
