package ratelimit

import "strings"

// exemptPaths are never limited.
var exemptPaths = map[string]bool{
	"GET /health": true,
}

// unlimited marks an exempt route.
var unlimited = &EndpointConfig{}

// MatchEndpoint returns the configuration for a request, or nil to use the default.
// Exact paths win over prefixes; among prefixes the longest wins.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if exemptPaths[method+" "+path] {
		return unlimited
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}

// bucketKey identifies the bucket of a client on a route. Prefix routes share
// one bucket so that varying path parameters cannot bypass the limit.
func bucketKey(clientID, method, path string, matched *EndpointConfig) string {
	if matched != nil {
		path = matched.Path
	}
	return clientID + "|" + method + "|" + path
}
