// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// RedisResolver handles redis:// and rediss:// URLs.
type RedisResolver struct{}

func NewRedisResolver() *RedisResolver { return &RedisResolver{} }

// Parse accepts redis://[user:password@]host[:port][/db]. The port defaults
// to 6379 and the database index to 0.
func (r *RedisResolver) Parse(raw string) (*Info, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, newParseError(raw, err.Error(), "format should be redis://[:password@]host:port/db")
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "redis" && scheme != "rediss" {
		return nil, newParseError(raw, "missing or invalid scheme", "use redis:// or rediss://")
	}
	info := &Info{
		Engine:   EngineRedis,
		Host:     u.Hostname(),
		Port:     u.Port(),
		Database: strings.Trim(u.Path, "/"),
		TLS:      scheme == "rediss",
		Params:   map[string]string{},
		Original: raw,
	}
	if u.User != nil {
		info.User = u.User.Username()
		info.Password, _ = u.User.Password()
	}
	for k, v := range u.Query() {
		if len(v) > 0 {
			info.Params[k] = v[0]
		}
	}
	if info.Host == "" {
		info.Host = "localhost"
	}
	if info.Port == "" {
		info.Port = "6379"
	}
	if info.Database == "" {
		info.Database = "0"
	}
	return info, nil
}

// Normalize renders the canonical redis URL with explicit port and database.
func (r *RedisResolver) Normalize(info *Info) (string, error) {
	if info == nil {
		return "", newParseError("", "nil storage info", "")
	}
	u := url.URL{
		Scheme: "redis",
		Host:   net.JoinHostPort(info.Host, info.Port),
		Path:   "/" + info.Database,
	}
	if info.TLS {
		u.Scheme = "rediss"
	}
	if info.User != "" || info.Password != "" {
		u.User = url.UserPassword(info.User, info.Password)
	}
	if len(info.Params) > 0 {
		q := url.Values{}
		for k, v := range info.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Validate checks the port and the database index are numeric.
func (r *RedisResolver) Validate(raw string) error {
	info, err := r.Parse(raw)
	if err != nil {
		return err
	}
	if _, err := strconv.Atoi(info.Port); err != nil {
		return newParseError(raw, "invalid port number: "+info.Port, "port must be numeric")
	}
	if n, err := strconv.Atoi(info.Database); err != nil || n < 0 {
		return newParseError(raw, "invalid database index: "+info.Database, "use redis://host:6379/0")
	}
	return nil
}
